package placement

// Direction is one of the nine unit offsets around a cell. y grows downward.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirDownLeft
	DirDown
	DirDownRight
	DirRight
	DirUpRight
	DirUp
	DirUpLeft

	numDirections
)

var offsets = [numDirections][2]int{
	DirNone:      {0, 0},
	DirLeft:      {-1, 0},
	DirDownLeft:  {-1, 1},
	DirDown:      {0, 1},
	DirDownRight: {1, 1},
	DirRight:     {1, 0},
	DirUpRight:   {1, -1},
	DirUp:        {0, -1},
	DirUpLeft:    {-1, -1},
}

// Compass lists the eight non-zero directions in NeighborMask bit order.
var Compass = [8]Direction{
	DirLeft, DirDownLeft, DirDown, DirDownRight, DirRight, DirUpRight, DirUp, DirUpLeft,
}

// Offset returns the (dx, dy) step for d.
func (d Direction) Offset() (int, int) {
	o := offsets[d]
	return o[0], o[1]
}

// NeighbourEmpty reports whether the cell one step from (x, y) in dir counts
// as empty. Off-grid cells are never empty. With filled nil a cell is empty
// when it holds None; otherwise it is empty when it holds anything but *filled.
func NeighbourEmpty(g *Grid, x, y int, dir Direction, filled *PlacedTile) bool {
	dx, dy := dir.Offset()
	nx, ny := x+dx, y+dy
	if !g.InBounds(nx, ny) {
		return false
	}

	placed := g.cells[ny][nx]
	if filled != nil {
		return placed != *filled
	}
	return placed == None
}

// NotKind is NeighbourEmpty with filled set to kind.
func (g *Grid) NotKind(x, y int, dir Direction, kind PlacedTile) bool {
	return NeighbourEmpty(g, x, y, dir, Kind(kind))
}

// Neighbors is the emptiness of a cell and its eight neighbours, indexed by
// Direction.
type Neighbors [numDirections]bool

// Snapshot evaluates NeighbourEmpty with no filled kind in every direction.
func Snapshot(g *Grid, x, y int) Neighbors {
	var n Neighbors
	for d := DirNone; d < numDirections; d++ {
		n[d] = NeighbourEmpty(g, x, y, d, nil)
	}
	return n
}
