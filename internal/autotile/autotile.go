// Package autotile maps the 8-neighbour shape of a styled-floor cell to the
// atlas tile drawn for it.
package autotile

import "github.com/lawnchairsociety/spelunkicons/internal/placement"

// Extent of the region of a styled atlas the table addresses, in tiles.
const (
	AtlasColumns = 8
	AtlasRows    = 8
)

// NeighborMask has one bit per neighbour, in placement.Compass order. A set
// bit means that neighbour is an edge: in bounds and not styled floor.
type NeighborMask uint8

const (
	left NeighborMask = 1 << iota
	downLeft
	down
	downRight
	right
	upRight
	up
	upLeft
)

// Coord is an atlas position in tiles.
type Coord struct {
	X, Y int
}

// Interior is the tile for a cell surrounded by styled floor.
var Interior = Coord{1, 3}

// rule matches when every bit in on is connected and every bit in off is
// not. Connected is the complement of the edge mask.
type rule struct {
	on, off NeighborMask
	at      Coord
}

func exact(conn NeighborMask, at Coord) rule {
	return rule{on: conn, off: ^conn, at: at}
}

// rules is checked in order; the first match wins.
var rules = []rule{
	// Single-cell strips and corners of thin shapes.
	{down | right, left | downRight | up, Coord{4, 2}},
	{left | down | right, downLeft | downRight | up, Coord{5, 2}},
	{left | down, downLeft | right | up, Coord{6, 2}},
	{left | down | up, downLeft | right | upLeft, Coord{6, 3}},
	{left | up, down | right | upLeft, Coord{6, 4}},
	{left | right | up, down | upRight | upLeft, Coord{5, 4}},
	{right | up, left | down | upRight, Coord{4, 4}},
	{down | right | up, left | downRight | upRight, Coord{4, 3}},
	{0, left | down | right | up, Coord{7, 2}},
	{down, left | right | up, Coord{3, 2}},
	{down | up, left | right, Coord{3, 3}},
	{up, left | down | right, Coord{3, 4}},
	{right, left | down | up, Coord{0, 5}},
	{left | right, down | up, Coord{1, 5}},
	{left, down | right | up, Coord{2, 5}},

	// Outer edges of filled blocks.
	{down | right, left | up, Coord{0, 2}},
	{left | downLeft | down | downRight | right, up, Coord{1, 2}},
	{left | down, right | up, Coord{2, 2}},
	{right | up, left | down, Coord{0, 4}},
	{left | right | upRight | up | upLeft, down, Coord{1, 4}},
	{left | up, down | right, Coord{2, 4}},
	{down | downRight | right | upRight | up, left, Coord{0, 3}},
	{left | downLeft | down | up | upLeft, right, Coord{2, 3}},

	// Single inner corners.
	exact(0x7F, Coord{0, 0}),
	exact(0xDF, Coord{1, 0}),
	exact(0xF7, Coord{1, 1}),
	exact(0xFD, Coord{0, 1}),

	// Edges with one inner corner.
	{left | down | downRight | right, downLeft | up, Coord{2, 0}},
	{left | downLeft | down | right, downRight | up, Coord{3, 0}},
	{left | right | upRight | up, down | upLeft, Coord{2, 1}},
	{left | right | up | upLeft, down | upRight, Coord{3, 1}},
	{down | right | upRight | up, left | downRight, Coord{0, 6}},
	{left | down | up | upLeft, downLeft | right, Coord{1, 6}},
	{down | downRight | right | up, left | upRight, Coord{0, 7}},
	{left | downLeft | down | up, right | upLeft, Coord{1, 7}},

	// Several inner corners.
	exact(0x5F, Coord{4, 0}),
	exact(0xF5, Coord{4, 1}),
	exact(0x7D, Coord{5, 0}),
	exact(0xD7, Coord{5, 1}),
	exact(0x77, Coord{3, 5}),
	exact(0xDD, Coord{4, 5}),
	exact(0x5D, Coord{2, 6}),
	exact(0x57, Coord{3, 6}),
	exact(0xD5, Coord{3, 7}),
	exact(0x75, Coord{2, 7}),
	exact(0xFF, Interior),
	exact(0x55, Coord{5, 3}),
}

// Resolve returns the atlas tile for a neighbour mask. It is defined for all
// 256 masks; shapes not in the table draw as interior.
func Resolve(mask NeighborMask) Coord {
	conn := ^mask
	for _, r := range rules {
		if conn&r.on == r.on && conn&r.off == 0 {
			return r.at
		}
	}
	return Interior
}

// MaskFor builds the neighbour mask of the cell at (x, y).
func MaskFor(g *placement.Grid, x, y int) NeighborMask {
	var mask NeighborMask
	for i, d := range placement.Compass {
		if g.NotKind(x, y, d, placement.FloorStyled) {
			mask |= 1 << i
		}
	}
	return mask
}
