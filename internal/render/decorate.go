package render

import (
	"image"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/placement"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
)

// foliage is the decoration set cut from a floor sheet.
type foliage struct {
	left, right     []image.Image
	leftUp, rightUp image.Image
	up, down        []image.Image
	spikes          []image.Image
	spikeTops       []image.Image
	blood           []image.Image
}

func foliageFrom(s *atlas.Sheet) foliage {
	right := tiles(s, 5, 6, 5)
	rightUp := s.Tile(7, 5)
	return foliage{
		right:     right,
		rightUp:   rightUp,
		left:      []image.Image{flipH(right[0]), flipH(right[1])},
		leftUp:    flipH(rightUp),
		up:        tiles(s, 5, 7, 6),
		down:      tiles(s, 5, 7, 7),
		spikeTops: tiles(s, 5, 7, 8),
		spikes:    tiles(s, 5, 7, 9),
		blood:     tiles(s, 5, 7, 10),
	}
}

// RenderFloorDecorations draws foliage and spikes on the open sides of
// Floor cells and the trims of bone and bush blocks.
func (r *Renderer) RenderFloorDecorations(f Frame) {
	deco := foliageFrom(r.floor(f.Biome))
	g := f.Grid
	w, h := r.tileW, r.tileH

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			px, py := r.origin(x, y)

			switch g.At(x, y) {
			case placement.Floor:
				left := g.NotKind(x, y, placement.DirLeft, placement.Floor)
				right := g.NotKind(x, y, placement.DirRight, placement.Floor)
				up := g.NotKind(x, y, placement.DirUp, placement.Floor)
				down := g.NotKind(x, y, placement.DirDown, placement.Floor)

				if left {
					if up {
						overlay(f.Dst, deco.leftUp, px-w/2, py)
					} else {
						overlay(f.Dst, rng.Choose(f.Rng, deco.left), px-w/2, py)
					}
				}
				if right {
					if up {
						overlay(f.Dst, deco.rightUp, px+w/2, py)
					} else {
						overlay(f.Dst, rng.Choose(f.Rng, deco.right), px+w/2, py)
					}
				}
				if down {
					overlay(f.Dst, rng.Choose(f.Rng, deco.down), px, py+h/2)
				}
				if up {
					r.topDecoration(f, deco, x, y)
				}

			case placement.BoneBlock:
				r.boneTrim(f, x, y)
			case placement.BushBlock:
				r.bushTrim(f, x, y)
			}
		}
	}
}

// topDecoration puts foliage on a floor top, or now and then a spike trap
// on the empty cell above it.
func (r *Renderer) topDecoration(f Frame, deco foliage, x, y int) {
	px, py := r.origin(x, y)
	decoY := py - r.tileH/2

	if f.Biome.HasSpikes() && f.Rng.Uint32()%12 == 0 &&
		placement.NeighbourEmpty(f.Grid, x, y, placement.DirUp, nil) {
		c := f.Rng.IntN(len(deco.spikes))
		overlay(f.Dst, deco.spikes[c], px, py-r.tileH)
		overlay(f.Dst, deco.spikeTops[c], px, decoY)
		if f.Rng.Bool(0.1) {
			overlay(f.Dst, deco.blood[c], px, py-r.tileH)
		}
		return
	}
	overlay(f.Dst, rng.Choose(f.Rng, deco.up), px, decoY)
}

func (r *Renderer) boneTrim(f Frame, x, y int) {
	cave := r.floor(biome.Cave)
	px, py := r.origin(x, y)
	w, h := r.tileW, r.tileH

	overlay(f.Dst, cave.Tile(10, 3), px-w/2+r.sx(16), py)
	overlay(f.Dst, cave.Tile(11, 3), px+w/2, py)

	upEmpty := placement.NeighbourEmpty(f.Grid, x, y, placement.DirUp, nil)
	upBone := !f.Grid.NotKind(x, y, placement.DirUp, placement.BoneBlock)
	if upEmpty || upBone {
		overlay(f.Dst, cave.Tile(11, 2), px, py-h/2)
	}
	if upEmpty && f.Rng.Bool(0.5) {
		items := r.items()
		top := py - h*3/4 + r.sy(6)
		overlay(f.Dst, items.Tile(14, 3), px-r.sx(16), top)
		overlay(f.Dst, items.Tile(15, 3), px+r.sx(16), top)
	}
}

func (r *Renderer) bushTrim(f Frame, x, y int) {
	jungle := r.floor(biome.Jungle)
	px, py := r.origin(x, y)
	w, h := r.tileW, r.tileH

	overlay(f.Dst, jungle.Tile(10, 3), px-w/2, py)
	overlay(f.Dst, jungle.Tile(11, 3), px+w/2, py)
	overlay(f.Dst, jungle.Tile(10, 4), px, py+h/2)

	if placement.NeighbourEmpty(f.Grid, x, y, placement.DirUp, nil) ||
		!f.Grid.NotKind(x, y, placement.DirUp, placement.BushBlock) {
		overlay(f.Dst, jungle.Tile(11, 2), px, py-h/2)
	}
}

// RenderFloorEmbeds scatters gold, jewels and the rare jetpack over solid
// occupancy cells still holding plain Floor.
func (r *Renderer) RenderFloorEmbeds(f Frame) {
	items := r.items()
	gold := tiles(items, 10, 11, 0)
	jewels := tiles(items, 3, 5, 0)
	jetpack := items.Tile(9, 2)

	for y, row := range f.Icon.Grid {
		for x, empty := range row {
			if empty || f.Grid.At(x, y) != placement.Floor {
				continue
			}
			px, py := r.origin(x, y)
			switch {
			case f.Rng.Uint32()%12 == 0:
				overlay(f.Dst, rng.Choose(f.Rng, gold), px, py)
			case f.Rng.Uint32()%24 == 0:
				overlay(f.Dst, rng.Choose(f.Rng, jewels), px, py)
			case f.Rng.Uint32()%5000 == 0:
				overlay(f.Dst, jetpack, px, py)
			}
		}
	}
}
