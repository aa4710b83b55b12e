package engine

import (
	"strings"

	"github.com/talgya/foodgrid/internal/agents"
	"github.com/talgya/foodgrid/internal/world"
)

// Phase tells where in the tick a snapshot was taken.
type Phase string

const (
	PhaseInit Phase = "init" // Right after construction
	PhasePre  Phase = "pre"  // After meals, before agents act
	PhasePost Phase = "post" // After agents act, before food is replenished
)

// Snapshot is a read-only copy of the grid and agent status lines.
type Snapshot struct {
	Tick   uint64          `json:"tick"`
	Phase  Phase           `json:"phase"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Cells  [][]string      `json:"cells"` // [y][x]
	Agents []agents.Status `json:"agents"`
	Food   []world.Coord   `json:"food"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	if s.Cells != nil {
		out.Cells = make([][]string, len(s.Cells))
		for y := range s.Cells {
			out.Cells[y] = append([]string(nil), s.Cells[y]...)
		}
	}
	out.Agents = append([]agents.Status(nil), s.Agents...)
	out.Food = append([]world.Coord(nil), s.Food...)
	return out
}

// Lines renders the grid one row per line, with agent status lines printed
// to the right of the rows. Status lines that do not fit beside the grid
// follow below it.
func (s Snapshot) Lines() []string {
	var status []string
	for _, a := range s.Agents {
		status = append(status, a.Lines()...)
	}

	rows := len(s.Cells)
	n := rows
	if len(status) > n {
		n = len(status)
	}
	pad := strings.Repeat(" ", 4*s.Width)

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var sb strings.Builder
		if i < rows {
			for _, cell := range s.Cells[i] {
				sb.WriteByte('[')
				sb.WriteString(cell)
				sb.WriteByte(']')
			}
		} else {
			sb.WriteString(pad)
		}
		if i < len(status) {
			sb.WriteByte(' ')
			sb.WriteString(status[i])
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return lines
}

// String renders the textual grid dump.
func (s Snapshot) String() string {
	return strings.Join(s.Lines(), "\n") + "\n"
}
