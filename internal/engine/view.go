package engine

import (
	"math/rand"

	"github.com/talgya/foodgrid/internal/agents"
	"github.com/talgya/foodgrid/internal/world"
)

// worldView exposes the simulation to deciding agents. Occupancy comes from
// the index built at the top of the tick, so every agent decides against the
// same pre-action layout.
type worldView struct {
	sim *Simulation
}

var _ agents.WorldView = worldView{}

func (v worldView) IsFood(c world.Coord) bool {
	return v.sim.Food.Has(c)
}

func (v worldView) FoodTiles() []world.Coord {
	return v.sim.Food.Tiles()
}

func (v worldView) OccupiedByOther(c world.Coord, self agents.AgentID) bool {
	for _, id := range v.sim.occupants[c] {
		if id != self {
			return true
		}
	}
	return false
}

func (v worldView) Step(from, to world.Coord) world.Coord {
	return v.sim.Grid.Step(from, to)
}

func (v worldView) Jitter(c world.Coord, rng *rand.Rand) world.Coord {
	return v.sim.Grid.Jitter(c, rng)
}
