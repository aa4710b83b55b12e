package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourcesClamp(t *testing.T) {
	r := Resources{Hunger: 10, Energy: 90}
	r.AdjustEnergy(1000)
	assert.Equal(t, MaxLevel, r.Energy)

	r.AdjustHunger(-1000)
	assert.Equal(t, MinLevel, r.Hunger)

	r = Resources{Hunger: 99, Energy: 2}
	r.DecayPerMove()
	assert.Equal(t, Resources{Hunger: 100, Energy: 0}, r)

	r = Resources{Hunger: 98, Energy: 95}
	r.DecayPerIdle()
	assert.Equal(t, 100, r.Hunger)
	r.RestoreFromSleep()
	assert.Equal(t, 100, r.Energy)

	r = Resources{Hunger: 20, Energy: 85}
	r.RestoreFromEating(45, 25)
	assert.Equal(t, Resources{Hunger: 0, Energy: 100}, r)
}

func TestResourcesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	r := Resources{Hunger: 50, Energy: 50}
	for i := 0; i < 5000; i++ {
		switch rng.Intn(6) {
		case 0:
			r.AdjustHunger(rng.Intn(400) - 200)
		case 1:
			r.AdjustEnergy(rng.Intn(400) - 200)
		case 2:
			r.DecayPerMove()
		case 3:
			r.DecayPerIdle()
		case 4:
			r.RestoreFromSleep()
		case 5:
			r.RestoreFromEating(rng.Intn(60), rng.Intn(60))
		}
		assert.GreaterOrEqual(t, r.Hunger, MinLevel)
		assert.LessOrEqual(t, r.Hunger, MaxLevel)
		assert.GreaterOrEqual(t, r.Energy, MinLevel)
		assert.LessOrEqual(t, r.Energy, MaxLevel)
	}
}
