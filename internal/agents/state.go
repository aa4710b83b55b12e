package agents

import (
	"fmt"

	"github.com/talgya/foodgrid/internal/world"
)

// StateKind enumerates the behavioral states of an agent.
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateHungry
	StateSleeping
)

var stateNames = [...]string{
	StateIdle:     "Idle",
	StateHungry:   "Hungry",
	StateSleeping: "Sleeping",
}

func (k StateKind) String() string {
	if int(k) < len(stateNames) {
		return stateNames[k]
	}
	return fmt.Sprintf("StateKind(%d)", uint8(k))
}

// ParseStateKind maps a state name back to its kind.
func ParseStateKind(name string) (StateKind, bool) {
	for k, n := range stateNames {
		if n == name {
			return StateKind(k), true
		}
	}
	return 0, false
}

// Thresholds returns the hunger and energy thresholds of a state.
// Each state uses only its own pair in its transition rule.
func Thresholds(k StateKind) (hunger, energy int) {
	switch k {
	case StateIdle:
		return 50, 0
	case StateHungry:
		return 20, 10
	case StateSleeping:
		return 60, 50
	}
	return 0, 0
}

// State is the current FSM state of an agent. Target is the remembered food
// tile and only means something while Hungry.
type State struct {
	Kind   StateKind    `json:"kind"`
	Target *world.Coord `json:"target,omitempty"`
}

// NewState returns a fresh state value. A transition always replaces the
// whole State, so nothing (such as a remembered target) carries over.
func NewState(k StateKind) State {
	return State{Kind: k}
}

func (s State) String() string {
	return s.Kind.String()
}
