package agents

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/foodgrid/internal/world"
)

// fakeView is a minimal WorldView over a grid, a food list and agent cells.
type fakeView struct {
	grid   *world.Grid
	food   []world.Coord
	agents map[world.Coord]AgentID
}

func newFakeView(w, h int, food ...world.Coord) *fakeView {
	return &fakeView{grid: world.NewGrid(w, h), food: food, agents: map[world.Coord]AgentID{}}
}

func (v *fakeView) IsFood(c world.Coord) bool {
	for _, f := range v.food {
		if f == c {
			return true
		}
	}
	return false
}

func (v *fakeView) FoodTiles() []world.Coord { return append([]world.Coord(nil), v.food...) }

func (v *fakeView) OccupiedByOther(c world.Coord, self AgentID) bool {
	id, ok := v.agents[c]
	return ok && id != self
}

func (v *fakeView) Step(from, to world.Coord) world.Coord { return v.grid.Step(from, to) }

func (v *fakeView) Jitter(c world.Coord, rng *rand.Rand) world.Coord { return v.grid.Jitter(c, rng) }

func testAgent(hunger, energy int, k StateKind) *Agent {
	a := NewAgent(uuid.New(), "Agent1", world.Coord{X: 2, Y: 2}, Resources{Hunger: hunger, Energy: energy})
	a.Enter(k)
	return a
}

func TestThresholdsArePerState(t *testing.T) {
	for _, tc := range []struct {
		kind           StateKind
		hunger, energy int
	}{
		{StateIdle, 50, 0},
		{StateHungry, 20, 10},
		{StateSleeping, 60, 50},
	} {
		h, e := Thresholds(tc.kind)
		assert.Equal(t, tc.hunger, h, tc.kind.String())
		assert.Equal(t, tc.energy, e, tc.kind.String())
	}
}

func TestIdleBecomesHungryWithoutActing(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := testAgent(55, 80, StateIdle)
	a.enqueue(Action{Kind: ActionIdle})
	a.LastAction = "before"

	out := a.Tick(newFakeView(10, 10), rng)

	assert.True(t, out.Transition)
	assert.Equal(t, StateHungry, a.State.Kind)
	assert.Nil(t, out.Executed)
	_, pending := a.Pending()
	assert.False(t, pending, "entering a state clears the queue")
	assert.Equal(t, Resources{Hunger: 55, Energy: 80}, a.Resources)
	assert.Equal(t, "before", a.LastAction)
}

func TestIdleStaysIdle(t *testing.T) {
	a := testAgent(10, 80, StateIdle)
	out := a.Tick(newFakeView(10, 10), rand.New(rand.NewSource(1)))

	assert.False(t, out.Transition)
	require.NotNil(t, out.Executed)
	assert.Equal(t, ActionIdle, out.Executed.Kind)
	assert.Equal(t, 13, a.Resources.Hunger)
	assert.Equal(t, "Idle", a.LastAction)
}

func TestSleepingRules(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	view := newFakeView(10, 10)

	a := testAgent(30, 49, StateSleeping)
	out := a.Tick(view, rng)
	require.NotNil(t, out.Executed)
	assert.Equal(t, ActionSleep, out.Executed.Kind)
	assert.Equal(t, 69, a.Resources.Energy)
	assert.Equal(t, "Sleep", a.LastAction)

	a = testAgent(65, 50, StateSleeping)
	out = a.Tick(view, rng)
	assert.True(t, out.Transition)
	assert.Equal(t, StateHungry, a.State.Kind)

	a = testAgent(10, 50, StateSleeping)
	out = a.Tick(view, rng)
	assert.True(t, out.Transition)
	assert.Equal(t, StateIdle, a.State.Kind)
}

func TestHungryTransitions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	view := newFakeView(10, 10, world.Coord{X: 8, Y: 8})

	a := testAgent(80, 10, StateHungry)
	a.Tick(view, rng)
	assert.Equal(t, StateSleeping, a.State.Kind, "exhausted")

	a = testAgent(20, 60, StateHungry)
	a.Tick(view, rng)
	assert.Equal(t, StateIdle, a.State.Kind, "sated")
}

func TestHungryMovesTowardFood(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	target := world.Coord{X: 8, Y: 0}
	view := newFakeView(10, 10, target)

	a := testAgent(70, 60, StateHungry)
	out := a.Tick(view, rng)

	require.NotNil(t, out.Executed)
	assert.Equal(t, ActionMove, out.Executed.Kind)
	assert.Equal(t, world.Coord{X: 3, Y: 1}, a.Position)
	assert.Equal(t, "MoveTowards(8,0)", a.LastAction)
	assert.Equal(t, Resources{Hunger: 73, Energy: 55}, a.Resources)
	require.NotNil(t, a.State.Target)
	assert.Equal(t, target, *a.State.Target)
}

func TestHungryKeepsTargetWhileFoodRemains(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	first := world.Coord{X: 9, Y: 9}
	view := newFakeView(10, 10, first, world.Coord{X: 0, Y: 9}, world.Coord{X: 9, Y: 0})

	a := testAgent(70, 90, StateHungry)
	remembered := first
	a.State.Target = &remembered
	for i := 0; i < 3; i++ {
		a.Tick(view, rng)
		require.NotNil(t, a.State.Target)
		assert.Equal(t, first, *a.State.Target)
	}

	// Food eaten elsewhere: the next tick re-targets among what is left.
	view.food = []world.Coord{{X: 0, Y: 0}}
	a.Tick(view, rng)
	assert.Equal(t, world.Coord{X: 0, Y: 0}, *a.State.Target)
}

func TestHungryWithoutFoodDoesNothing(t *testing.T) {
	a := testAgent(70, 60, StateHungry)
	out := a.Tick(newFakeView(10, 10), rand.New(rand.NewSource(1)))

	assert.True(t, out.NoTarget)
	assert.Nil(t, out.Executed)
	assert.Equal(t, StateHungry, a.State.Kind)
	assert.Equal(t, world.Coord{X: 2, Y: 2}, a.Position)
	assert.Equal(t, Resources{Hunger: 70, Energy: 60}, a.Resources)
}

func TestHungryJittersAroundOtherAgent(t *testing.T) {
	view := newFakeView(10, 10, world.Coord{X: 5, Y: 5})
	view.agents[world.Coord{X: 3, Y: 3}] = uuid.New()

	for seed := int64(0); seed < 50; seed++ {
		a := testAgent(70, 60, StateHungry)
		view.agents[a.Position] = a.ID
		a.Tick(view, rand.New(rand.NewSource(seed)))
		assert.LessOrEqual(t, world.Distance(world.Coord{X: 3, Y: 3}, a.Position), 1)
		delete(view.agents, world.Coord{X: 2, Y: 2})
	}
}

func TestMovementNeverLeavesGrid(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		food := world.Coord{X: rng.Intn(4), Y: rng.Intn(4)}
		view := newFakeView(4, 4, food)
		a := testAgent(70, 100, StateHungry)
		a.SetPosition(world.Coord{X: rng.Intn(4), Y: rng.Intn(4)})
		view.agents[world.Coord{X: rng.Intn(4), Y: rng.Intn(4)}] = uuid.New()

		a.Tick(view, rng)
		assert.True(t, view.grid.InBounds(a.Position), "%v", a.Position)
	}
}

func TestStateKindNames(t *testing.T) {
	for _, k := range []StateKind{StateIdle, StateHungry, StateSleeping} {
		got, ok := ParseStateKind(k.String())
		require.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseStateKind("Dancing")
	assert.False(t, ok)
}
