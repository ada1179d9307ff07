// Package generator turns an icon descriptor into a finished raster or PNG.
package generator

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/render"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/sheet"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

// Output size limits for MakePNG.
const (
	MinOutputSize = 16
	MaxOutputSize = 2048
)

// Generator renders icons from a shared, read-only atlas store. It is safe
// for concurrent use.
type Generator struct {
	store   atlas.Store
	tileW   int
	tileH   int
	atlasID string
}

// New returns a generator drawing from store.
func New(store atlas.Store) *Generator {
	w, h := store.TileSize()
	id := fmt.Sprintf("%dx%d", w, h)
	if s, ok := store.(interface{ ID() string }); ok && s.ID() != "" {
		id = s.ID()
	}
	return &Generator{store: store, tileW: w, tileH: h, atlasID: id}
}

// AtlasID names the texture set icons are drawn from. Stores without an
// ID of their own are identified by tile size alone.
func (g *Generator) AtlasID() string {
	return g.atlasID
}

// Result is one rendered icon.
type Result struct {
	Image  *image.RGBA
	Choice sheet.Choice
}

// Render draws icon at the store's native tile size.
func (g *Generator) Render(icon *spelunkicon.Spelunkicon) Result {
	dst := render.NewCanvas(icon, g.tileW, g.tileH)
	c, _ := sheet.Generate(dst, g.store, icon, rng.New(icon.Hash))
	return Result{Image: dst, Choice: c}
}

// MakePNG renders icon and encodes it. A positive outputSize scales the
// image to a square of that many pixels.
func (g *Generator) MakePNG(icon *spelunkicon.Spelunkicon, outputSize int) ([]byte, error) {
	if outputSize != 0 && (outputSize < MinOutputSize || outputSize > MaxOutputSize) {
		return nil, fmt.Errorf("output size %d outside %d..%d", outputSize, MinOutputSize, MaxOutputSize)
	}

	var img image.Image = g.Render(icon).Image
	if outputSize > 0 {
		img = scale(img, outputSize)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

func scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Rect, src, src.Bounds(), draw.Src, nil)
	return dst
}
