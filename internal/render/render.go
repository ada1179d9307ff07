// Package render paints a placed-tile grid onto an RGBA raster.
//
// Sprite offsets are authored for 128px tiles and scaled to the store's tile
// size. Passes that draw from the stream must run in a fixed order; see
// package sheet.
package render

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/autotile"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/placement"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

// authoredTile is the tile size sprite offsets are written for.
const authoredTile = 128

// Frame is the per-image state shared by every pass.
type Frame struct {
	Dst   *image.RGBA
	Biome biome.Biome
	Icon  *spelunkicon.Spelunkicon
	Rng   *rng.Stream
	Grid  *placement.Grid
}

// NewCanvas returns a transparent raster sized for icon.
func NewCanvas(icon *spelunkicon.Spelunkicon, tileW, tileH int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, icon.Width*tileW, icon.Height*tileH))
}

// painter holds what every renderer needs to fetch and place tiles.
type painter struct {
	store   atlas.Store
	classic bool
	tileW   int
	tileH   int
}

func newPainter(store atlas.Store, classic bool) painter {
	w, h := store.TileSize()
	return painter{store: store, classic: classic, tileW: w, tileH: h}
}

// sx and sy scale an authored pixel offset to the current tile size.
func (p painter) sx(n int) int { return n * p.tileW / authoredTile }
func (p painter) sy(n int) int { return n * p.tileH / authoredTile }

// origin is the top-left pixel of the cell at column x, row y.
func (p painter) origin(x, y int) (int, int) {
	return x * p.tileW, y * p.tileH
}

func (p painter) floor(b biome.Biome) *atlas.Sheet {
	s, ok := p.store.Floor(b, p.classic)
	if !ok {
		panic(fmt.Sprintf("render: no floor atlas for %v", b))
	}
	return s
}

func (p painter) styled(b biome.Biome) *atlas.Sheet {
	s, ok := p.store.FloorStyled(b, p.classic)
	if !ok {
		panic(fmt.Sprintf("render: no styled atlas for %v", b))
	}
	return s
}

func (p painter) floorOr(b, fallback biome.Biome) *atlas.Sheet {
	if s, ok := p.store.Floor(b, p.classic); ok {
		return s
	}
	return p.floor(fallback)
}

func (p painter) styledOr(b, fallback biome.Biome) *atlas.Sheet {
	if s, ok := p.store.FloorStyled(b, p.classic); ok {
		return s
	}
	return p.styled(fallback)
}

func (p painter) misc() *atlas.Sheet {
	s, ok := p.store.FloorMisc(p.classic)
	if !ok {
		panic("render: no floormisc atlas")
	}
	return s
}

func (p painter) items() *atlas.Sheet {
	s, ok := p.store.Items(p.classic)
	if !ok {
		panic("render: no items atlas")
	}
	return s
}

func (p painter) character(name string) image.Image {
	s, ok := p.store.Character(name, p.classic)
	if !ok {
		panic(fmt.Sprintf("render: no character sprite %q", name))
	}
	return s.Image()
}

// tiles cuts a row of tiles from columns [from, to] of row iy.
func tiles(s *atlas.Sheet, from, to, iy int) []image.Image {
	out := make([]image.Image, 0, to-from+1)
	for ix := from; ix <= to; ix++ {
		out = append(out, s.Tile(ix, iy))
	}
	return out
}

// overlay composites src over dst with its top-left corner at (x, y).
// Anything outside dst is clipped.
func overlay(dst *image.RGBA, src image.Image, x, y int) {
	b := src.Bounds()
	r := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	draw.Draw(dst, r, src, b.Min, draw.Over)
}

// flipH returns a horizontally mirrored copy of src at the origin.
func flipH(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	m := f64.Aff3{
		-1, 0, float64(b.Min.X + b.Dx()),
		0, 1, float64(-b.Min.Y),
	}
	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}

// resize returns src scaled to w×h with Catmull-Rom filtering.
func resize(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}

// Renderer draws the floor, styled floor, prop and decoration passes.
type Renderer struct {
	painter
}

// New returns a renderer drawing from store. classic picks the classic
// texture set.
func New(store atlas.Store, classic bool) *Renderer {
	return &Renderer{painter: newPainter(store, classic)}
}

// RenderFloor draws one of four base tiles on every Floor cell.
func (r *Renderer) RenderFloor(f Frame) {
	sheet := r.floor(f.Biome)
	base := append(tiles(sheet, 0, 1, 0), tiles(sheet, 0, 1, 1)...)

	for y := 0; y < f.Grid.Height; y++ {
		for x := 0; x < f.Grid.Width; x++ {
			if f.Grid.At(x, y) != placement.Floor {
				continue
			}
			px, py := r.origin(x, y)
			overlay(f.Dst, rng.Choose(f.Rng, base), px, py)
		}
	}
}

// RenderFloorStyled draws the autotiled styled sheet on every FloorStyled
// cell. It never draws from the stream.
func (r *Renderer) RenderFloorStyled(f Frame) {
	sheet := r.styled(f.Biome)

	for y := 0; y < f.Grid.Height; y++ {
		for x := 0; x < f.Grid.Width; x++ {
			if f.Grid.At(x, y) != placement.FloorStyled {
				continue
			}
			c := autotile.Resolve(autotile.MaskFor(f.Grid, x, y))
			px, py := r.origin(x, y)
			overlay(f.Dst, sheet.Tile(c.X, c.Y), px, py)
		}
	}
}
