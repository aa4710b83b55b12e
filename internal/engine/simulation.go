// Simulation ties the grid, the food tiles and the agents together and runs
// them one tick at a time.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/foodgrid/internal/agents"
	"github.com/talgya/foodgrid/internal/world"
)

// Meal sizes, half-open ranges drawn per consumption.
const (
	mealReliefMin = 30
	mealReliefMax = 50
	mealEnergyMin = 10
	mealEnergyMax = 30
)

// maxEvents bounds the in-memory event buffer.
const maxEvents = 1000

// Simulation holds the complete world state. It is single-threaded: callers
// that share it between goroutines must serialize Tick (Engine does this).
type Simulation struct {
	Grid     *world.Grid
	Food     *world.FoodField
	Agents   []*agents.Agent
	Events   []Event // Recent events, oldest first
	LastTick uint64  // Most recent tick processed
	Seed     int64

	// Receives the pre- and post-action snapshots of every tick.
	OnSnapshot func(Snapshot)

	Stats SimStats

	rng       *rand.Rand
	occupants map[world.Coord][]agents.AgentID
	latest    Snapshot
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`
}

// Event categories.
const (
	CategoryMeal       = "meal"
	CategoryTransition = "transition"
	CategoryNoTarget   = "no_target"
	CategoryShortfall  = "shortfall"
)

// SimStats tracks aggregate run statistics.
type SimStats struct {
	Ticks       uint64 `json:"ticks"`
	Meals       int    `json:"meals"`
	Transitions int    `json:"transitions"`
	Shortfalls  int    `json:"shortfalls"`
	Food        int    `json:"food"`
}

// NewSimulation builds a world: agents are placed at random cells, and food is
// spawned up to capacity. An agent that lands on an occupied start cell is
// re-rolled once; if that collides again construction fails with
// ErrStartCollision.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulation{
		Grid: world.NewGrid(cfg.Width, cfg.Height),
		Food: world.NewFoodField(cfg.foodCapacity()),
		Seed: cfg.Seed,
		rng:  rng,
	}

	spawner := agents.NewSpawner(rng, cfg.Names)
	taken := make(map[world.Coord]*agents.Agent, cfg.Agents)
	for i := 0; i < cfg.Agents; i++ {
		a := spawner.Spawn(s.Grid)
		if other, ok := taken[a.Position]; ok {
			spawner.Reroll(a, s.Grid)
			if _, again := taken[a.Position]; again {
				return nil, fmt.Errorf("%w: %s re-rolled onto %s, already held by %s",
					ErrStartCollision, a.Name, a.Position, other.Name)
			}
		}
		taken[a.Position] = a
		s.Agents = append(s.Agents, a)
	}

	s.rebuildOccupancy()
	s.markGrid()
	s.Food.Replenish(s.Grid, s.rng, s.cellTaken)
	s.markGrid()
	s.latest = s.capture(PhaseInit)
	s.Stats.Food = s.Food.Len()

	slog.Debug("world created",
		"width", cfg.Width,
		"height", cfg.Height,
		"agents", len(s.Agents),
		"food", s.Food.Len(),
		"seed", cfg.Seed,
	)
	return s, nil
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Snapshot returns a copy of the most recent post-action snapshot (or the
// initial one before the first tick). Reads never change world state.
func (s *Simulation) Snapshot() Snapshot {
	return s.latest.Clone()
}

// Tick advances the world by one step and returns the post-action snapshot.
// The order of the phases is fixed:
//
//  1. rebuild occupancy from agent positions
//  2. agents standing on food eat it
//  3. mark agents on the grid
//  4. mark remaining food
//  5. emit the pre-action snapshot
//  6. every agent decides and acts
//  7. emit the post-action snapshot
//  8. replenish food on free cells
func (s *Simulation) Tick() Snapshot {
	s.LastTick++
	tick := s.LastTick

	s.rebuildOccupancy()

	for _, a := range s.Agents {
		if !s.Food.Has(a.Position) {
			continue
		}
		relief := mealReliefMin + s.rng.Intn(mealReliefMax-mealReliefMin)
		gain := mealEnergyMin + s.rng.Intn(mealEnergyMax-mealEnergyMin)
		a.Eat(relief, gain)
		s.Food.Remove(a.Position)
		s.Stats.Meals++
		s.record(tick, CategoryMeal, fmt.Sprintf("%s eats at %s (hunger -%d, energy +%d)",
			a.Name, a.Position, relief, gain))
	}

	s.markGrid()
	s.emit(s.capture(PhasePre))

	view := worldView{sim: s}
	for _, a := range s.Agents {
		out := a.Tick(view, s.rng)
		switch {
		case out.Transition:
			s.Stats.Transitions++
			s.record(tick, CategoryTransition, fmt.Sprintf("%s: %s -> %s", a.Name, out.From, out.To))
		case out.NoTarget:
			slog.Debug("hungry agent found no food", "tick", tick, "agent", a.Name)
			s.record(tick, CategoryNoTarget, a.Name+" is hungry but no food is left")
		}
	}

	// The post snapshot shows where agents ended up, so occupancy is redrawn
	// from their new positions. Replenishment below relies on it too.
	s.markGrid()
	post := s.capture(PhasePost)
	s.latest = post
	s.emit(post)

	added := s.Food.Replenish(s.Grid, s.rng, s.cellTaken)
	if missing := s.Food.Deficit(); missing > 0 {
		s.Stats.Shortfalls++
		slog.Warn("food only partially replenished",
			"tick", tick, "added", added, "missing", missing)
		s.record(tick, CategoryShortfall, fmt.Sprintf("only %d food tiles could be placed, %d missing", added, missing))
	}

	s.Stats.Ticks = tick
	s.Stats.Food = s.Food.Len()
	return post.Clone()
}

// EventsAt returns the events recorded during the given tick.
func (s *Simulation) EventsAt(tick uint64) []Event {
	var out []Event
	for i := len(s.Events) - 1; i >= 0; i-- {
		e := s.Events[i]
		if e.Tick < tick {
			break
		}
		if e.Tick == tick {
			out = append(out, e)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (s *Simulation) rebuildOccupancy() {
	s.Grid.Clear()
	s.occupants = make(map[world.Coord][]agents.AgentID, len(s.Agents))
	for _, a := range s.Agents {
		s.occupants[a.Position] = append(s.occupants[a.Position], a.ID)
	}
}

// markGrid redraws the grid: agents first, then food. Last writer wins.
func (s *Simulation) markGrid() {
	s.Grid.Clear()
	for _, a := range s.Agents {
		s.Grid.Mark(a.Position, a.Tag)
	}
	for _, c := range s.Food.Tiles() {
		s.Grid.Mark(c, world.FoodLabel)
	}
}

func (s *Simulation) cellTaken(c world.Coord) bool {
	return !s.Grid.IsEmpty(c)
}

func (s *Simulation) capture(phase Phase) Snapshot {
	snap := Snapshot{
		Tick:   s.LastTick,
		Phase:  phase,
		Width:  s.Grid.Width,
		Height: s.Grid.Height,
		Cells:  s.Grid.Rows(),
		Food:   s.Food.Tiles(),
	}
	snap.Agents = make([]agents.Status, len(s.Agents))
	for i, a := range s.Agents {
		snap.Agents[i] = a.Status()
	}
	return snap
}

func (s *Simulation) emit(snap Snapshot) {
	if s.OnSnapshot != nil {
		s.OnSnapshot(snap.Clone())
	}
}

func (s *Simulation) record(tick uint64, category, desc string) {
	s.Events = append(s.Events, Event{Tick: tick, Category: category, Description: desc})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}
