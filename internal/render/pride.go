package render

import (
	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
)

// stripe is one flag row filled with a single tile across every column.
type stripe struct {
	styled bool
	biome  biome.Biome
	ix, iy int
}

// trim draws foliage from a floor sheet along a row of the flag.
type trim struct {
	biome biome.Biome
	row   int
	up    bool
	down  bool
}

type flag struct {
	stripes []stripe
	trims   []trim
}

func styledStripe(b biome.Biome, ix, iy int) stripe { return stripe{true, b, ix, iy} }
func floorStripe(b biome.Biome) stripe            { return stripe{false, b, 0, 0} }

// flags are keyed by grid height.
var flags = map[int]flag{
	// non-binary
	4: {stripes: []stripe{
		styledStripe(biome.CityOfGold, 1, 4),
		styledStripe(biome.PalaceOfPleasure, 1, 5),
		styledStripe(biome.Babylon, 1, 5),
		styledStripe(biome.Duat, 1, 2),
	}},
	// pansexual
	6: {
		stripes: []stripe{
			styledStripe(biome.Guts, 1, 3),
			styledStripe(biome.Guts, 1, 4),
			styledStripe(biome.CityOfGold, 1, 2),
			styledStripe(biome.CityOfGold, 1, 4),
			floorStripe(biome.TidePool),
			floorStripe(biome.TidePool),
		},
		trims: []trim{{biome: biome.TidePool, row: 4, up: true}},
	},
	// black lives matter
	8: {
		stripes: []stripe{
			styledStripe(biome.Duat, 1, 4),
			styledStripe(biome.Cave, 1, 5),
			styledStripe(biome.Vlad, 1, 5),
			floorStripe(biome.Cave),
			styledStripe(biome.CityOfGold, 1, 5),
			floorStripe(biome.Jungle),
			styledStripe(biome.TidePool, 1, 5),
			floorStripe(biome.Eggplant),
		},
		trims: []trim{
			{biome: biome.Cave, row: 3, up: true, down: true},
			{biome: biome.Jungle, row: 5, up: true, down: true},
			{biome: biome.Eggplant, row: 7, up: true},
		},
	},
}

// PrideRenderer paints a striped flag in place of a floor layout. Only
// heights 4, 6 and 8 have a flag; any other height leaves the canvas as is.
type PrideRenderer struct {
	painter
}

// NewPride returns a flag renderer drawing from store.
func NewPride(store atlas.Store, classic bool) *PrideRenderer {
	return &PrideRenderer{painter: newPainter(store, classic)}
}

// Render draws the flag for f.Icon's height. Only trims draw from the stream.
func (p *PrideRenderer) Render(f Frame) {
	fl, ok := flags[f.Icon.Height]
	if !ok {
		return
	}
	width := f.Icon.Width

	for row, s := range fl.stripes {
		var sheet *atlas.Sheet
		if s.styled {
			sheet = p.styled(s.biome)
		} else {
			sheet = p.floor(s.biome)
		}
		tile := sheet.Tile(s.ix, s.iy)
		for x := 0; x < width; x++ {
			px, py := p.origin(x, row)
			overlay(f.Dst, tile, px, py)
		}
	}

	for _, t := range fl.trims {
		deco := foliageFrom(p.floor(t.biome))
		for x := 0; x < width; x++ {
			px, py := p.origin(x, t.row)
			if t.up {
				overlay(f.Dst, rng.Choose(f.Rng, deco.up), px, py-p.tileH/2)
			}
			if t.down {
				overlay(f.Dst, rng.Choose(f.Rng, deco.down), px, py+p.tileH/2)
			}
		}
	}
}
