// Package agents provides the agent data model, the hunger/energy resource
// model, and the threshold state machine that drives each agent.
package agents

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/talgya/foodgrid/internal/world"
)

// AgentID is an opaque unique identifier for an agent.
type AgentID = uuid.UUID

// Agent is a single forager on the grid.
type Agent struct {
	ID   AgentID `json:"id"`
	Name string  `json:"name"`
	Tag  string  `json:"tag"` // Two-character label used on the rendered grid

	Position  world.Coord `json:"position"`
	Resources Resources   `json:"resources"`
	State     State       `json:"state"`

	LastAction string `json:"last_action"`

	// At most one queued action. Cleared whenever a new state is entered.
	pending *Action
}

// NewAgent creates an agent in the Idle state.
func NewAgent(id AgentID, name string, pos world.Coord, res Resources) *Agent {
	return &Agent{
		ID:        id,
		Name:      name,
		Tag:       ShortTag(name),
		Position:  pos,
		Resources: Resources{Hunger: clampLevel(res.Hunger), Energy: clampLevel(res.Energy)},
		State:     NewState(StateIdle),
	}
}

// ShortTag derives the grid label from a name: its first and last rune.
func ShortTag(name string) string {
	r := []rune(name)
	if len(r) == 0 {
		return "??"
	}
	return string(r[0]) + string(r[len(r)-1])
}

// SetPosition moves the agent directly.
func (a *Agent) SetPosition(c world.Coord) {
	a.Position = c
}

// Eat applies a meal found on the agent's cell. It bypasses the action queue.
func (a *Agent) Eat(hungerRelief, energyGain int) {
	a.Resources.RestoreFromEating(hungerRelief, energyGain)
}

// Pending returns the queued action, if any.
func (a *Agent) Pending() (Action, bool) {
	if a.pending == nil {
		return Action{}, false
	}
	return *a.pending, true
}

// Enter replaces the current state and drops any queued action.
func (a *Agent) Enter(k StateKind) {
	a.State = NewState(k)
	a.pending = nil
}

func (a *Agent) enqueue(action Action) {
	a.pending = &action
}

func (a *Agent) dequeue() (Action, bool) {
	if a.pending == nil {
		return Action{}, false
	}
	action := *a.pending
	a.pending = nil
	return action, true
}

// TickOutcome reports what an agent did during its tick.
type TickOutcome struct {
	From       StateKind
	To         StateKind
	Transition bool
	Executed   *Action
	NoTarget   bool
}

// Tick lets the agent's state decide, then executes the queued action if any.
// A transition consumes the tick: the new state starts with an empty queue.
func (a *Agent) Tick(view WorldView, rng *rand.Rand) TickOutcome {
	out := TickOutcome{From: a.State.Kind, To: a.State.Kind}

	d := a.State.Evaluate(a.ID, a.Resources, a.Position, view, rng)
	if d.Transition {
		a.Enter(d.Next)
		out.To = d.Next
		out.Transition = true
		return out
	}
	if d.Action != nil {
		a.enqueue(*d.Action)
	}
	out.NoTarget = d.NoTarget

	if action, ok := a.dequeue(); ok {
		a.Apply(action)
		out.Executed = &action
	}
	return out
}

// Status is the externally visible state of an agent at one point in time.
type Status struct {
	ID         AgentID     `json:"id"`
	Name       string      `json:"name"`
	Tag        string      `json:"tag"`
	Position   world.Coord `json:"position"`
	State      string      `json:"state"`
	Energy     int         `json:"energy"`
	Hunger     int         `json:"hunger"`
	LastAction string      `json:"last_action"`
}

// Status captures the agent's current status.
func (a *Agent) Status() Status {
	return Status{
		ID:         a.ID,
		Name:       a.Name,
		Tag:        a.Tag,
		Position:   a.Position,
		State:      a.State.Kind.String(),
		Energy:     a.Resources.Energy,
		Hunger:     a.Resources.Hunger,
		LastAction: a.LastAction,
	}
}

// Lines splits the status into the short lines printed beside the grid.
func (s Status) Lines() []string {
	return []string{
		fmt.Sprintf("%s (%s)", s.Name, s.Tag),
		fmt.Sprintf("%s, (%s)", s.Position, s.State),
		fmt.Sprintf("Energy: %d", s.Energy),
		fmt.Sprintf("Hunger: %d", s.Hunger),
		fmt.Sprintf("Action: %s", s.LastAction),
	}
}

func (s Status) String() string {
	return strings.Join(s.Lines(), " | ")
}

func (a *Agent) String() string {
	return a.Status().String()
}
