package autotile

import (
	"testing"

	"github.com/lawnchairsociety/spelunkicons/internal/placement"
)

func TestResolveCoversEveryMask(t *testing.T) {
	for m := 0; m < 256; m++ {
		c := Resolve(NeighborMask(m))
		if c.X < 0 || c.X >= AtlasColumns || c.Y < 0 || c.Y >= AtlasRows {
			t.Errorf("mask %#02x resolved outside the atlas: %+v", m, c)
		}
	}
}

func TestResolveKnownShapes(t *testing.T) {
	// Masks are written as connected neighbours and inverted.
	tests := []struct {
		name string
		conn NeighborMask
		want Coord
	}{
		{"isolated", 0, Coord{7, 2}},
		{"interior", 0xFF, Coord{1, 3}},
		{"horizontal strip middle", left | right, Coord{1, 5}},
		{"horizontal strip left end", right, Coord{0, 5}},
		{"vertical strip middle", up | down, Coord{3, 3}},
		{"vertical strip top", down, Coord{3, 2}},
		{"block top left", right | downRight | down, Coord{0, 2}},
		{"block top edge", left | downLeft | down | downRight | right, Coord{1, 2}},
		{"block bottom right", left | upLeft | up, Coord{2, 4}},
		{"inner corner up left", 0x7F, Coord{0, 0}},
		{"inner corner up right", 0xDF, Coord{1, 0}},
		{"all diagonals open", 0x55, Coord{5, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(^tt.conn); got != tt.want {
				t.Errorf("Resolve(%#02x) = %+v, want %+v", uint8(^tt.conn), got, tt.want)
			}
		})
	}
}

func styledGrid(rows ...string) *placement.Grid {
	g := placement.NewGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			switch c {
			case 's':
				g.Set(x, y, placement.FloorStyled)
			case 'f':
				g.Set(x, y, placement.Floor)
			}
		}
	}
	return g
}

func TestMaskFor(t *testing.T) {
	tests := []struct {
		name string
		g    *placement.Grid
		x, y int
		want NeighborMask
	}{
		{"lone cell", styledGrid("...", ".s.", "..."), 1, 1, 0xFF},
		{"filled block", styledGrid("sss", "sss", "sss"), 1, 1, 0},
		{"grid corner", styledGrid("sss", "sss", "sss"), 0, 0, 0},
		{"floor is an edge", styledGrid("fff", "sss", "sss"), 1, 1, upLeft | up | upRight},
		{"right side open", styledGrid("ss.", "ss.", "ss."), 1, 1, upRight | right | downRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskFor(tt.g, tt.x, tt.y); got != tt.want {
				t.Errorf("MaskFor = %08b, want %08b", got, tt.want)
			}
		})
	}
}

func TestMaskForLoneCellResolvesIsolated(t *testing.T) {
	g := styledGrid("...", ".s.", "...")
	if got := Resolve(MaskFor(g, 1, 1)); got != (Coord{7, 2}) {
		t.Errorf("got %+v, want {7 2}", got)
	}
}
