package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/foodgrid/internal/world"
)

func TestSpawnerIsSeeded(t *testing.T) {
	g := world.NewGrid(10, 10)
	spawn := func() []Status {
		s := NewSpawner(rand.New(rand.NewSource(42)), nil)
		return []Status{s.Spawn(g).Status(), s.Spawn(g).Status()}
	}
	a, b := spawn(), spawn()
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0].ID, a[1].ID)
	assert.Equal(t, "Agent1", a[0].Name)
	assert.Equal(t, "A1", a[0].Tag)
	assert.Equal(t, "Agent2", a[1].Name)
}

func TestSpawnerStartingResources(t *testing.T) {
	g := world.NewGrid(5, 5)
	s := NewSpawner(rand.New(rand.NewSource(3)), []string{"Mads", ""})
	for i := 0; i < 200; i++ {
		a := s.Spawn(g)
		if i == 0 {
			assert.Equal(t, "Mads", a.Name)
			assert.Equal(t, "Ms", a.Tag)
		}
		if i == 1 {
			assert.Equal(t, "Agent2", a.Name)
		}
		assert.True(t, g.InBounds(a.Position))
		assert.GreaterOrEqual(t, a.Resources.Hunger, 0)
		assert.Less(t, a.Resources.Hunger, 30)
		assert.GreaterOrEqual(t, a.Resources.Energy, 10)
		assert.Less(t, a.Resources.Energy, 100)
		assert.Equal(t, StateIdle, a.State.Kind)
	}
}

func TestStatusLines(t *testing.T) {
	a := NewAgent(AgentID{}, "Agent2", world.Coord{X: 3, Y: 4}, Resources{Hunger: 12, Energy: 150})
	a.LastAction = "Sleep"
	assert.Equal(t, []string{
		"Agent2 (A2)",
		"3,4, (Idle)",
		"Energy: 100",
		"Hunger: 12",
		"Action: Sleep",
	}, a.Status().Lines())
	assert.Equal(t, "??", ShortTag(""))
}
