package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(newTestSim(t, DefaultConfig()))
	e.Interval = time.Millisecond
	e.SummaryEvery = 0
	return e
}

func TestEngineRunStopsAtTickLimit(t *testing.T) {
	e := newTestEngine(t)
	e.MaxTicks = 5

	var ticks []uint64
	e.OnTick = func(snap Snapshot, _ []Event) { ticks = append(ticks, snap.Tick) }

	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, ticks)
	assert.Equal(t, uint64(5), e.Latest().Tick)
	assert.Equal(t, uint64(5), e.Stats().Ticks)
	assert.Equal(t, StateStopped, e.State())
}

func TestEngineRunHonoursCancellation(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())

	e.OnTick = func(snap Snapshot, _ []Event) {
		if snap.Tick == 3 {
			cancel()
		}
	}

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(3), e.Latest().Tick, "the in-flight tick completes, no further tick starts")
	assert.Equal(t, StateStopped, e.State())
}

func TestEngineStop(t *testing.T) {
	e := newTestEngine(t)
	e.Interval = time.Hour
	assert.Equal(t, StateReady, e.State())

	e.Stop()
	e.Stop()
	require.NoError(t, e.Run(context.Background()))
	assert.Equal(t, uint64(0), e.Latest().Tick)
	assert.Equal(t, StateStopped, e.State())
}

func TestEngineStepIsSerialized(t *testing.T) {
	e := newTestEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				e.Step()
				_ = e.Latest().String()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(200), e.Latest().Tick)
}

func TestRunStateString(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
}

func TestEngineRecentEvents(t *testing.T) {
	e := newTestEngine(t)
	var seen []Event
	e.OnTick = func(_ Snapshot, events []Event) { seen = append(seen, events...) }
	for i := 0; i < 60; i++ {
		e.Step()
	}
	require.NotEmpty(t, seen)

	all := e.RecentEvents(0)
	assert.Equal(t, seen, all)

	last := e.RecentEvents(2)
	require.Len(t, last, min(2, len(all)))
	assert.Equal(t, all[len(all)-len(last):], last)
}
