package world

import (
	"fmt"
	"math/rand"
)

// EmptyLabel is the label of a cell with no occupant.
const EmptyLabel = "  "

// FoodLabel marks a cell holding a food tile.
const FoodLabel = "FD"

// Grid is a fixed-size occupancy map. Cells hold a two-character label.
// Occupancy is derived state: the simulation clears and rebuilds it every
// tick from agent positions and food tiles.
type Grid struct {
	Width  int
	Height int

	cells [][]string // [y][x]
}

// NewGrid creates an empty grid. Dimensions must be positive.
func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height}
	g.cells = make([][]string, height)
	for y := range g.cells {
		g.cells[y] = make([]string, width)
	}
	g.Clear()
	return g
}

// XMax is the largest valid X coordinate.
func (g *Grid) XMax() int { return g.Width - 1 }

// YMax is the largest valid Y coordinate.
func (g *Grid) YMax() int { return g.Height - 1 }

// CellCount returns the number of cells.
func (g *Grid) CellCount() int { return g.Width * g.Height }

// InBounds reports whether c lies within [0,XMax]×[0,YMax].
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X <= g.XMax() && c.Y >= 0 && c.Y <= g.YMax()
}

// Clamp pulls c back inside the grid.
func (g *Grid) Clamp(c Coord) Coord {
	return Coord{X: clamp(c.X, 0, g.XMax()), Y: clamp(c.Y, 0, g.YMax())}
}

// RandomCoord returns a uniformly chosen cell.
func (g *Grid) RandomCoord(rng *rand.Rand) Coord {
	return Coord{X: rng.Intn(g.Width), Y: rng.Intn(g.Height)}
}

// Clear resets every cell to EmptyLabel.
func (g *Grid) Clear() {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x] = EmptyLabel
		}
	}
}

// Mark writes label into the cell at c. Out-of-bounds marks are ignored.
// Last writer wins.
func (g *Grid) Mark(c Coord, label string) {
	if !g.InBounds(c) {
		return
	}
	g.cells[c.Y][c.X] = label
}

// Label returns the label at c, or EmptyLabel when out of bounds.
func (g *Grid) Label(c Coord) string {
	if !g.InBounds(c) {
		return EmptyLabel
	}
	return g.cells[c.Y][c.X]
}

// IsEmpty reports whether nothing is marked at c.
func (g *Grid) IsEmpty(c Coord) bool {
	return g.Label(c) == EmptyLabel
}

// FreeCells lists every empty cell in row-major order.
func (g *Grid) FreeCells() []Coord {
	var free []Coord
	for y := range g.cells {
		for x := range g.cells[y] {
			if g.cells[y][x] == EmptyLabel {
				free = append(free, Coord{X: x, Y: y})
			}
		}
	}
	return free
}

// Rows returns a deep copy of the labels, indexed [y][x].
func (g *Grid) Rows() [][]string {
	out := make([][]string, len(g.cells))
	for y := range g.cells {
		out[y] = append([]string(nil), g.cells[y]...)
	}
	return out
}

// Step returns the cell one greedy step from `from` toward `to`. Each axis
// moves independently by -1, 0 or +1, and the result is clamped to the grid.
// This stands in for real pathfinding.
func (g *Grid) Step(from, to Coord) Coord {
	next := Coord{
		X: from.X + sign(to.X-from.X),
		Y: from.Y + sign(to.Y-from.Y),
	}
	return g.Clamp(next)
}

// Jitter offsets c by a random amount in {-1,0,1} on each axis, clamped.
func (g *Grid) Jitter(c Coord, rng *rand.Rand) Coord {
	off := Coord{X: rng.Intn(3) - 1, Y: rng.Intn(3) - 1}
	return g.Clamp(c.Add(off))
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d)", g.Width, g.Height)
}
