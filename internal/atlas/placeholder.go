package atlas

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
)

// NewPlaceholder draws every atlas procedurally. Floor sheets are opaque
// shaded tiles with a darker rim; prop sheets draw a centered block on a
// transparent tile so overlays stay visible. The classic set is a muted copy.
func NewPlaceholder(tileW, tileH int) *Atlases {
	a := &Atlases{
		sheets: map[key]*Sheet{},
		tileW:  tileW,
		tileH:  tileH,
		id:     fmt.Sprintf("placeholder-%dx%d", tileW, tileH),
	}
	for _, classic := range []bool{false, true} {
		for _, e := range entries() {
			a.sheets[key{e, classic}] = placeholderSheet(e, classic, tileW, tileH)
		}
	}
	return a
}

func placeholderSheet(e entry, classic bool, tileW, tileH int) *Sheet {
	extent := layout[e.family]
	img := image.NewNRGBA(image.Rect(0, 0, extent.X*tileW, extent.Y*tileH))
	base := baseColor(e.file(), classic)
	solid := e.family == floorFamily || e.family == styledFamily

	for iy := 0; iy < extent.Y; iy++ {
		for ix := 0; ix < extent.X; ix++ {
			c := shade(base, 0.6+0.4*float64((ix*7+iy*3)%10)/9)
			r := image.Rect(ix*tileW, iy*tileH, (ix+1)*tileW, (iy+1)*tileH)
			if solid {
				fill(img, r, shade(c, 0.5))
				fill(img, r.Inset(max(1, tileW/16)), c)
			} else {
				fill(img, r.Inset(tileW/4), c)
			}
		}
	}
	return &Sheet{img: img, TileW: tileW, TileH: tileH}
}

func baseColor(name string, classic bool) color.NRGBA {
	h := crc32.ChecksumIEEE([]byte(name))
	c := color.NRGBA{R: uint8(h >> 24), G: uint8(h >> 16), B: uint8(h >> 8), A: 0xff}
	if classic {
		gray := (uint16(c.R) + uint16(c.G) + uint16(c.B)) / 3
		mute := func(v uint8) uint8 { return uint8((uint16(v) + gray) / 2) }
		c = color.NRGBA{R: mute(c.R), G: mute(c.G), B: mute(c.B), A: 0xff}
	}
	return c
}

func shade(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
