// Threshold-driven agent behavior.
// Every tick, an agent's current state inspects its resources and a read-only
// view of the world, then either requests a transition or proposes one action.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/talgya/foodgrid/internal/world"
)

// ActionKind enumerates what an agent can do in one tick.
type ActionKind uint8

const (
	ActionIdle ActionKind = iota
	ActionMove
	ActionSleep
)

// Action is a pending action descriptor. The agent interprets it in Apply.
type Action struct {
	Kind   ActionKind  `json:"kind"`
	Target world.Coord `json:"target"` // food tile being approached (Move only)
	Dest   world.Coord `json:"dest"`   // cell the agent steps into (Move only)
}

// Name returns the descriptive name shown in status lines.
func (a Action) Name() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("MoveTowards(%d,%d)", a.Target.X, a.Target.Y)
	case ActionSleep:
		return "Sleep"
	default:
		return "Idle"
	}
}

// WorldView is the read-only slice of the world an agent may look at while
// deciding. Implementations must not be retained past one Evaluate call.
type WorldView interface {
	// IsFood reports whether c currently holds food.
	IsFood(c world.Coord) bool
	// FoodTiles lists the current food tiles in a stable order.
	FoodTiles() []world.Coord
	// OccupiedByOther reports whether an agent other than self stands on c.
	OccupiedByOther(c world.Coord, self AgentID) bool
	// Step returns one greedy step from `from` toward `to`, within bounds.
	Step(from, to world.Coord) world.Coord
	// Jitter randomly offsets c by at most one cell per axis, within bounds.
	Jitter(c world.Coord, rng *rand.Rand) world.Coord
}

// Decision is the result of evaluating a state. Exactly one of Transition or
// Action is set, except when a Hungry agent finds no food at all, in which
// case neither is and NoTarget is true.
type Decision struct {
	Transition bool
	Next       StateKind
	Action     *Action
	NoTarget   bool
}

func transitionTo(k StateKind) Decision {
	return Decision{Transition: true, Next: k}
}

func act(a Action) Decision {
	return Decision{Action: &a}
}

// Evaluate runs the rule of the current state for an agent with resources r
// standing at pos. Hungry may update s.Target.
func (s *State) Evaluate(self AgentID, r Resources, pos world.Coord, view WorldView, rng *rand.Rand) Decision {
	switch s.Kind {
	case StateHungry:
		return s.evaluateHungry(self, r, pos, view, rng)
	case StateSleeping:
		return evaluateSleeping(r)
	default:
		return evaluateIdle(r)
	}
}

func evaluateIdle(r Resources) Decision {
	hungerThr, _ := Thresholds(StateIdle)
	if r.Hunger >= hungerThr {
		return transitionTo(StateHungry)
	}
	return act(Action{Kind: ActionIdle})
}

func evaluateSleeping(r Resources) Decision {
	hungerThr, energyThr := Thresholds(StateSleeping)
	if r.Energy >= energyThr {
		if r.Hunger >= hungerThr {
			return transitionTo(StateHungry)
		}
		return transitionTo(StateIdle)
	}
	return act(Action{Kind: ActionSleep})
}

func (s *State) evaluateHungry(self AgentID, r Resources, pos world.Coord, view WorldView, rng *rand.Rand) Decision {
	hungerThr, energyThr := Thresholds(StateHungry)
	if r.Energy <= energyThr {
		return transitionTo(StateSleeping)
	}
	if r.Hunger <= hungerThr {
		if r.Energy <= energyThr {
			return transitionTo(StateSleeping)
		}
		return transitionTo(StateIdle)
	}

	target, ok := s.acquireTarget(view, rng)
	if !ok {
		return Decision{NoTarget: true}
	}

	dest := view.Step(pos, target)
	if view.OccupiedByOther(dest, self) {
		dest = view.Jitter(dest, rng)
	}
	return act(Action{Kind: ActionMove, Target: target, Dest: dest})
}

// acquireTarget keeps the remembered food tile while it still holds food and
// otherwise picks a new one uniformly among the current tiles.
func (s *State) acquireTarget(view WorldView, rng *rand.Rand) (world.Coord, bool) {
	if s.Target != nil && view.IsFood(*s.Target) {
		return *s.Target, true
	}
	s.Target = nil

	tiles := view.FoodTiles()
	if len(tiles) == 0 {
		return world.Coord{}, false
	}
	t := tiles[rng.Intn(len(tiles))]
	s.Target = &t
	return t, true
}

// Apply executes an action's effects on the agent.
func (a *Agent) Apply(action Action) {
	switch action.Kind {
	case ActionIdle:
		a.Resources.DecayPerIdle()
	case ActionMove:
		a.SetPosition(action.Dest)
		a.Resources.DecayPerMove()
	case ActionSleep:
		a.Resources.RestoreFromSleep()
	}
	a.LastAction = action.Name()
}
