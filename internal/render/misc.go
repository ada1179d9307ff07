package render

import (
	"image"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/placement"
)

// miscPass carries the sheets and egg state for one RenderFloorMisc call.
type miscPass struct {
	*Renderer
	f Frame

	miscSheet   *atlas.Sheet
	floorSheet  *atlas.Sheet
	styledSheet *atlas.Sheet
	itemSheet   *atlas.Sheet

	// At most one easter-egg character per image.
	placedEgg bool
}

// RenderFloorMisc draws the sprite for every special tile in row-major order.
func (r *Renderer) RenderFloorMisc(f Frame) {
	p := &miscPass{
		Renderer:    r,
		f:           f,
		miscSheet:   r.misc(),
		floorSheet:  r.floorOr(f.Biome, biome.Cave),
		styledSheet: r.styledOr(f.Biome, biome.Olmec),
		itemSheet:   r.items(),
	}
	for y := 0; y < f.Grid.Height; y++ {
		for x := 0; x < f.Grid.Width; x++ {
			p.draw(x, y, f.Grid.At(x, y))
		}
	}
}

func (p *miscPass) place(s *atlas.Sheet, ix, iy, px, py int) {
	overlay(p.f.Dst, s.Tile(ix, iy), px, py)
}

func (p *miscPass) draw(x, y int, t placement.PlacedTile) {
	g := p.f.Grid
	b := p.f.Biome
	px, py := p.origin(x, y)
	at := func(s *atlas.Sheet, ix, iy int) { p.place(s, ix, iy, px, py) }

	switch t {
	case placement.AltarLeft:
		at(p.miscSheet, 2, 0)
	case placement.AltarRight:
		at(p.miscSheet, 3, 0)
	case placement.IdolAltarLeft:
		at(p.floorSheet, 10, 0)
	case placement.IdolAltarRight:
		at(p.floorSheet, 11, 0)
		p.idol(px, py)
	case placement.EggplantAltarLeft:
		at(p.floorSheet, 10, 2)
	case placement.EggplantAltarRight:
		at(p.floorSheet, 11, 2)

	case placement.ArrowTrap, placement.LaserTrap:
		ix, iy := 1, 0
		switch b {
		case biome.Sunken:
			ix, iy = 6, 0
		case biome.Babylon:
			ix, iy = 5, 4
		}
		var tile image.Image = p.miscSheet.Tile(ix, iy)
		if placement.NeighbourEmpty(g, x, y, placement.DirLeft, nil) {
			tile = flipH(tile)
		}
		overlay(p.f.Dst, tile, px, py)

	case placement.TotemTrap, placement.LionTrap:
		ix, iy := 4, 1
		if b == biome.TidePool {
			ix = 5
		}
		// The top piece sits on the cell whose upper neighbour is not part
		// of the same column.
		if y == 0 || g.At(x, y-1) != t {
			iy--
		}
		at(p.miscSheet, ix, iy)

	case placement.SpearTrap:
		at(p.miscSheet, 5, 3)
	case placement.FrogTrapLeft:
		at(p.floorSheet, 8, 9)
	case placement.FrogTrapRight:
		at(p.floorSheet, 9, 9)

	case placement.CrushTrap:
		if b == biome.CityOfGold {
			at(p.styledSheet, 9, 0)
		} else {
			at(p.miscSheet, 0, 6)
		}
	case placement.LargeCrushTrapTopLeft, placement.LargeCrushTrapTopRight,
		placement.LargeCrushTrapBotLeft, placement.LargeCrushTrapBotRight:
		dx := int(t-placement.LargeCrushTrapTopLeft) % 2
		dy := int(t-placement.LargeCrushTrapTopLeft) / 2
		if b == biome.CityOfGold {
			at(p.styledSheet, 6+dx, dy)
		} else {
			at(p.miscSheet, dx, 4+dy)
		}

	case placement.BushBlock, placement.BoneBlock:
		at(p.floorSheet, 10, 2)
	case placement.IceBlock:
		p.iceBlock(px, py)

	case placement.ChainTop:
		at(p.floorSheet, 4, 0)
		at(p.floorSheet, 7, 1)
	case placement.ChainMid:
		at(p.floorSheet, 4, 1)
	case placement.ChainBot:
		at(p.floorSheet, 4, 2)
		at(p.floorSheet, 7, 3)

	case placement.Platform:
		p.platform(x, y)

	case placement.UdjatSocketTop:
		if p.f.Rng.Bool(0.5) {
			at(p.miscSheet, 5, 5)
		} else {
			at(p.miscSheet, 4, 5)
		}
	case placement.UdjatSocketBot:
		at(p.styled(biome.Babylon), 7, 2)

	case placement.ConveyorLeft:
		at(p.floorSheet, 11, 11)
	case placement.ConveyorRight:
		at(p.floorSheet, 11, 10)

	case placement.PushBlock:
		switch b {
		case biome.CityOfGold, biome.Duat:
			at(p.styledSheet, 9, 0)
		case biome.Surface:
			at(p.floor(biome.Cave), 7, 0)
		default:
			at(p.floorSheet, 7, 0)
		}
	case placement.PowderKeg:
		at(p.miscSheet, 2, 2)

	case placement.HoneyUp:
		p.place(p.itemSheet, 14, 14, px, py-p.sy(22))
	case placement.HoneyDown:
		p.place(p.itemSheet, 13, 14, px, py+p.sy(22))
	}
}

// idol draws the idol resting on the right half of an idol altar. In
// Volcana it is sometimes held by a character standing behind the altar.
func (p *miscPass) idol(px, py int) {
	w, h := p.tileW, p.tileH
	if p.f.Biome == biome.Volcana && !p.placedEgg && p.f.Rng.Bool(0.3) {
		overlay(p.f.Dst, p.character(atlas.CharPrecious), px-w+p.sx(8), py-h+p.sy(8))
		p.place(p.itemSheet, 15, 1, px-w/2, py-h+p.sy(13))
		p.placedEgg = true
		return
	}
	p.place(p.itemSheet, 15, 1, px-w/2, py-h+p.sy(18))
}

// iceBlock draws the ice tile enlarged to overlap its neighbours, using the
// blue channel as coverage so the ice stays translucent.
func (p *miscPass) iceBlock(px, py int) {
	if !p.placedEgg && p.f.Rng.Bool(0.2) {
		overlay(p.f.Dst, p.character(atlas.CharBeg), px, py)
		p.placedEgg = true
	}

	overlap := p.sx(8)
	ice := resize(p.floorSheet.Tile(7, 1), p.tileW+overlap, p.tileH+p.sy(8))
	for i := 0; i < len(ice.Pix); i += 4 {
		ice.Pix[i+3] = ice.Pix[i+2]
	}
	overlay(p.f.Dst, ice, px-overlap/2, py-p.sy(8)/2)
}

// platform draws a platform top and, when it floats, its support column down
// to the next occupied cell or the bottom of the grid.
func (p *miscPass) platform(x, y int) {
	g := p.f.Grid
	px, py := p.origin(x, y)

	switch p.f.Biome {
	case biome.Ice, biome.Volcana:
		p.place(p.floorSheet, 4, 5, px, py)
		return
	case biome.Cave, biome.TidePool, biome.Surface, biome.PalaceOfPleasure:
	default:
		return
	}

	sheet, ix, iy := p.miscSheet, 1, 1
	switch p.f.Biome {
	case biome.TidePool:
		ix, iy = 7, 3
	case biome.PalaceOfPleasure:
		sheet, ix, iy = p.styledSheet, 9, 2
	}

	if g.At(x, y+1) != placement.None {
		p.place(sheet, ix-1, iy, px, py)
		return
	}

	p.place(sheet, ix, iy, px, py)
	for i := 1; i < g.Height; i++ {
		cy := py + i*p.tileH
		next := y + i + 1
		if next == g.Height || g.At(x, next) != placement.None {
			p.place(sheet, ix, iy+2, px, cy)
			return
		}
		p.place(sheet, ix, iy+1, px, cy)
	}
}
