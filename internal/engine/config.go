package engine

import (
	"errors"
	"fmt"

	"github.com/talgya/foodgrid/internal/world"
)

// ErrInvalidConfig is returned when a world cannot be built from a Config.
var ErrInvalidConfig = errors.New("invalid world config")

// ErrStartCollision means two agents still shared a start cell after the
// one permitted re-roll. It only happens on tiny or crowded grids.
var ErrStartCollision = fmt.Errorf("%w: agents collide at start", ErrInvalidConfig)

// Config holds the construction parameters of a Simulation.
type Config struct {
	Width   int
	Height  int
	Agents  int
	Seed    int64
	MaxFood int      // Food capacity; 0 selects world.MaxFoodPieces
	Names   []string // Optional agent names, used in order
}

// DefaultConfig mirrors the classic setup: a 10×10 grid with two agents.
func DefaultConfig() Config {
	return Config{
		Width:   10,
		Height:  10,
		Agents:  2,
		Seed:    42,
		MaxFood: world.MaxFoodPieces,
	}
}

// Validate checks the dimensions and counts.
func (c Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Agents < 0 {
		return fmt.Errorf("%w: negative agent count %d", ErrInvalidConfig, c.Agents)
	}
	if c.Agents > c.Width*c.Height {
		return fmt.Errorf("%w: %d agents do not fit on a %dx%d grid", ErrInvalidConfig, c.Agents, c.Width, c.Height)
	}
	if c.MaxFood < 0 {
		return fmt.Errorf("%w: negative food capacity %d", ErrInvalidConfig, c.MaxFood)
	}
	return nil
}

func (c Config) foodCapacity() int {
	if c.MaxFood == 0 {
		return world.MaxFoodPieces
	}
	return c.MaxFood
}
