// Package engine provides the world simulation and the fixed-interval loop
// that drives it.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// RunState is the lifecycle of an Engine.
type RunState uint8

const (
	StateReady RunState = iota
	StateRunning
	StateStopped // Terminal
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "ready"
	}
}

// DefaultSummaryEvery is how many ticks pass between summary log lines.
const DefaultSummaryEvery = 100

// Engine drives a Simulation forward at a fixed interval. Ticks never overlap:
// every call into the simulation happens under one lock, and cancellation is
// only observed between ticks.
type Engine struct {
	Interval     time.Duration // Base tick interval (default 1 second)
	MaxTicks     uint64        // Stop after this many ticks; 0 = unbounded
	SummaryEvery uint64        // Ticks between summary logs; 0 = never

	// Called after every tick with the post-action snapshot and the tick's
	// events. Runs on the engine goroutine, outside the lock.
	OnTick func(snap Snapshot, events []Event)

	mu     sync.Mutex
	sim    *Simulation
	latest Snapshot
	stats  SimStats
	state  RunState

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewEngine creates an engine around sim with a one-second interval.
func NewEngine(sim *Simulation) *Engine {
	return &Engine{
		Interval:     time.Second,
		SummaryEvery: DefaultSummaryEvery,
		sim:          sim,
		latest:       sim.Snapshot(),
		stats:        sim.Stats,
		stopCh:       make(chan struct{}),
	}
}

// Run ticks the simulation until ctx is cancelled, Stop is called, or
// MaxTicks is reached. It blocks, and returns ctx.Err() when cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.setState(StateRunning)
	defer e.setState(StateStopped)

	slog.Info("simulation engine started", "tick", e.Latest().Tick, "interval", e.Interval)

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
		case <-e.stopCh:
		case <-ticker.C:
		}
		// A timer tick may race a cancellation; cancellation wins.
		if stopped, err := e.halted(ctx); stopped {
			slog.Info("simulation engine stopped", "tick", e.Latest().Tick)
			return err
		}

		snap := e.Step()
		if e.MaxTicks > 0 && snap.Tick >= e.MaxTicks {
			slog.Info("simulation engine reached tick limit", "tick", snap.Tick)
			return nil
		}
	}
}

func (e *Engine) halted(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-e.stopCh:
		return true, nil
	default:
		return false, nil
	}
}

// Step advances the simulation by exactly one tick. Safe for concurrent use
// with Latest and Stats; concurrent Step calls are serialized.
func (e *Engine) Step() Snapshot {
	e.mu.Lock()
	snap := e.sim.Tick()
	events := e.sim.EventsAt(snap.Tick)
	stats := e.sim.Stats
	e.latest = snap
	e.stats = stats
	e.mu.Unlock()

	if e.OnTick != nil {
		e.OnTick(snap.Clone(), events)
	}
	if e.SummaryEvery > 0 && snap.Tick%e.SummaryEvery == 0 {
		slog.Info("simulation summary",
			"tick", humanize.Comma(int64(snap.Tick)),
			"meals", humanize.Comma(int64(stats.Meals)),
			"transitions", humanize.Comma(int64(stats.Transitions)),
			"shortfalls", stats.Shortfalls,
			"food", stats.Food,
		)
	}
	return snap
}

// Latest returns a copy of the most recent post-action snapshot.
func (e *Engine) Latest() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest.Clone()
}

// Stats returns the statistics as of the last tick.
func (e *Engine) Stats() SimStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// RecentEvents returns up to limit of the newest in-memory events, oldest
// first.
func (e *Engine) RecentEvents(limit int) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	events := e.sim.Events
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// State reports whether the engine is ready, running or stopped.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Stop asks Run to return before its next tick. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

func (e *Engine) setState(s RunState) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}
