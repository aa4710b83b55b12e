package engine

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/foodgrid/internal/agents"
	"github.com/talgya/foodgrid/internal/world"
)

func TestSnapshotLines(t *testing.T) {
	snap := Snapshot{
		Width:  3,
		Height: 2,
		Cells: [][]string{
			{"A1", "  ", "FD"},
			{"  ", "  ", "  "},
		},
		Agents: []agents.Status{{
			Name:       "Agent1",
			Tag:        "A1",
			Position:   world.Coord{X: 0, Y: 0},
			State:      "Idle",
			Energy:     40,
			Hunger:     12,
			LastAction: "Idle",
		}},
	}

	assert.Equal(t, []string{
		"[A1][  ][FD] Agent1 (A1)",
		"[  ][  ][  ] 0,0, (Idle)",
		"             Energy: 40",
		"             Hunger: 12",
		"             Action: Idle",
	}, snap.Lines())
	assert.Equal(t, snap.String(), snap.String())
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := newTestSim(t, DefaultConfig())
	a := s.Tick()
	b := a.Clone()
	b.Cells[0][0] = "ZZ"
	b.Agents[0].Hunger = -1
	b.Food = nil
	assert.NotEqual(t, "ZZ", a.Cells[0][0])
	assert.NotEqual(t, -1, a.Agents[0].Hunger)
	assert.NotEmpty(t, a.Food)
}

func TestSnapshotMatchesSchema(t *testing.T) {
	schema, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", "snapshot.schema.json"))
	require.NoError(t, err)

	s := newTestSim(t, Config{Width: 6, Height: 5, Agents: 3, Seed: 5})
	var snaps []Snapshot
	s.OnSnapshot = func(snap Snapshot) { snaps = append(snaps, snap) }
	snaps = append(snaps, s.Snapshot())
	for i := 0; i < 30; i++ {
		s.Tick()
	}

	for _, snap := range snaps {
		raw, err := json.Marshal(snap)
		require.NoError(t, err)
		var doc any
		require.NoError(t, json.Unmarshal(raw, &doc))
		require.NoError(t, schema.Validate(doc), "tick %d %s", snap.Tick, snap.Phase)
	}
}
