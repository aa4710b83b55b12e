// Agent spawning: creates the initial population with random starting
// resources and positions.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/foodgrid/internal/world"
)

// Starting resource ranges, half-open.
const (
	startHungerMin = 0
	startHungerMax = 30
	startEnergyMin = 10
	startEnergyMax = MaxLevel
)

// Spawner creates agents for the simulation. It draws from the world's RNG
// so that a run is fully determined by its seed.
type Spawner struct {
	rng    *rand.Rand
	names  []string
	serial int
}

// NewSpawner creates a spawner. names, if given, are used in order before
// falling back to Agent<n>.
func NewSpawner(rng *rand.Rand, names []string) *Spawner {
	return &Spawner{rng: rng, names: names}
}

// Spawn creates the next agent at a uniformly random cell of g.
func (s *Spawner) Spawn(g *world.Grid) *Agent {
	s.serial++
	name := fmt.Sprintf("Agent%d", s.serial)
	if s.serial <= len(s.names) && s.names[s.serial-1] != "" {
		name = s.names[s.serial-1]
	}

	pos := g.RandomCoord(s.rng)
	res := Resources{
		Hunger: startHungerMin + s.rng.Intn(startHungerMax-startHungerMin),
		Energy: startEnergyMin + s.rng.Intn(startEnergyMax-startEnergyMin),
	}
	return NewAgent(s.newID(), name, pos, res)
}

// Reroll moves a to a fresh random cell.
func (s *Spawner) Reroll(a *Agent, g *world.Grid) {
	a.SetPosition(g.RandomCoord(s.rng))
}

func (s *Spawner) newID() AgentID {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// math/rand readers never fail.
		return uuid.New()
	}
	return id
}
