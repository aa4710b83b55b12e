// Resources implements the bounded hunger/energy model.
package agents

// Resource bounds. Every mutation saturates into [MinLevel, MaxLevel].
const (
	MinLevel = 0
	MaxLevel = 100
)

// Fixed per-action costs and gains.
const (
	MoveHungerCost  = 3
	MoveEnergyCost  = 5
	IdleHungerCost  = 3
	SleepEnergyGain = 20
)

// Resources tracks an agent's hunger and energy.
// Hunger grows toward MaxLevel as the agent goes without food; energy drains
// toward MinLevel with movement.
type Resources struct {
	Hunger int `json:"hunger"`
	Energy int `json:"energy"`
}

// AdjustHunger adds delta to hunger and clamps.
func (r *Resources) AdjustHunger(delta int) {
	r.Hunger = clampLevel(r.Hunger + delta)
}

// AdjustEnergy adds delta to energy and clamps.
func (r *Resources) AdjustEnergy(delta int) {
	r.Energy = clampLevel(r.Energy + delta)
}

// DecayPerMove applies the cost of one grid step.
func (r *Resources) DecayPerMove() {
	r.AdjustHunger(MoveHungerCost)
	r.AdjustEnergy(-MoveEnergyCost)
}

// DecayPerIdle applies the cost of standing still for a tick.
func (r *Resources) DecayPerIdle() {
	r.AdjustHunger(IdleHungerCost)
}

// RestoreFromSleep applies one tick of sleep.
func (r *Resources) RestoreFromSleep() {
	r.AdjustEnergy(SleepEnergyGain)
}

// RestoreFromEating applies a meal.
func (r *Resources) RestoreFromEating(hungerRelief, energyGain int) {
	r.AdjustHunger(-hungerRelief)
	r.AdjustEnergy(energyGain)
}

func clampLevel(v int) int {
	if v < MinLevel {
		return MinLevel
	}
	if v > MaxLevel {
		return MaxLevel
	}
	return v
}
