package placement

// Grid holds one PlacedTile per occupancy cell, indexed [y][x].
type Grid struct {
	Width  int
	Height int
	cells  [][]PlacedTile
}

// NewGrid returns a width×height grid of None cells.
func NewGrid(width, height int) *Grid {
	cells := make([][]PlacedTile, height)
	for y := range cells {
		cells[y] = make([]PlacedTile, width)
	}
	return &Grid{Width: width, Height: height, cells: cells}
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the tile at (x, y). Out-of-bounds positions read as None.
func (g *Grid) At(x, y int) PlacedTile {
	if !g.InBounds(x, y) {
		return None
	}
	return g.cells[y][x]
}

// Set overwrites the tile at (x, y) unconditionally.
func (g *Grid) Set(x, y int, t PlacedTile) {
	if g.InBounds(x, y) {
		g.cells[y][x] = t
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := NewGrid(g.Width, g.Height)
	for y := range g.cells {
		copy(c.cells[y], g.cells[y])
	}
	return c
}

// Count returns how many cells hold any of the given kinds.
func (g *Grid) Count(kinds ...PlacedTile) int {
	n := 0
	for _, row := range g.cells {
		for _, t := range row {
			for _, k := range kinds {
				if t == k {
					n++
					break
				}
			}
		}
	}
	return n
}

// Rows returns a copy of the cells, [y][x].
func (g *Grid) Rows() [][]PlacedTile {
	return g.Clone().cells
}

type cell struct {
	x, y int
	tile PlacedTile
}

func at(x, y int, t PlacedTile) cell {
	return cell{x: x, y: y, tile: t}
}

// writable reports whether the automaton may stamp over (x, y).
func (g *Grid) writable(x, y int) bool {
	return g.InBounds(x, y) && !g.cells[y][x].IsSpecial()
}

// stamp writes every cell or none of them. Cells already holding a special
// tile are never replaced.
func (g *Grid) stamp(cells ...cell) bool {
	for _, c := range cells {
		if !g.writable(c.x, c.y) {
			return false
		}
	}
	for _, c := range cells {
		g.cells[c.y][c.x] = c.tile
	}
	return true
}
