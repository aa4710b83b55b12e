package world

import "math/rand"

// MaxFoodPieces is the default food capacity of a world.
const MaxFoodPieces = 4

// FoodField is the set of food tiles. Tiles keep insertion order so that
// seeded runs iterate them deterministically.
type FoodField struct {
	capacity int
	tiles    []Coord
	index    map[Coord]struct{}
}

// NewFoodField creates an empty field holding at most capacity tiles.
func NewFoodField(capacity int) *FoodField {
	return &FoodField{
		capacity: capacity,
		index:    make(map[Coord]struct{}, capacity),
	}
}

// Capacity returns the maximum number of tiles.
func (f *FoodField) Capacity() int { return f.capacity }

// Len returns the current number of tiles.
func (f *FoodField) Len() int { return len(f.tiles) }

// Deficit returns how many tiles are missing to reach capacity.
func (f *FoodField) Deficit() int { return f.capacity - len(f.tiles) }

// Has reports whether c holds food.
func (f *FoodField) Has(c Coord) bool {
	_, ok := f.index[c]
	return ok
}

// Add places food at c. It refuses duplicates and anything beyond capacity.
func (f *FoodField) Add(c Coord) bool {
	if f.Has(c) || len(f.tiles) >= f.capacity {
		return false
	}
	f.index[c] = struct{}{}
	f.tiles = append(f.tiles, c)
	return true
}

// Remove takes the food at c, if any.
func (f *FoodField) Remove(c Coord) bool {
	if !f.Has(c) {
		return false
	}
	delete(f.index, c)
	for i, t := range f.tiles {
		if t == c {
			f.tiles = append(f.tiles[:i], f.tiles[i+1:]...)
			break
		}
	}
	return true
}

// Tiles returns a copy of the tiles in insertion order.
func (f *FoodField) Tiles() []Coord {
	return append([]Coord(nil), f.tiles...)
}

// Replenish tops the field back up to capacity. Candidate cells are those of
// g that hold neither food nor anything reported by occupied; they are drawn
// uniformly at random without replacement. When there are fewer free cells
// than the deficit the field is only partially refilled. Returns the number
// of tiles added.
func (f *FoodField) Replenish(g *Grid, rng *rand.Rand, occupied func(Coord) bool) int {
	need := f.Deficit()
	if need <= 0 {
		return 0
	}

	var free []Coord
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			if f.Has(c) || (occupied != nil && occupied(c)) {
				continue
			}
			free = append(free, c)
		}
	}

	// Partial Fisher-Yates: only the first `need` slots are drawn.
	added := 0
	for i := 0; i < len(free) && added < need; i++ {
		j := i + rng.Intn(len(free)-i)
		free[i], free[j] = free[j], free[i]
		if f.Add(free[i]) {
			added++
		}
	}
	return added
}
