// Package sheet picks a biome and placement mode for an icon and drives the
// placement and render passes in the order that mode requires.
package sheet

import (
	"fmt"
	"image"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/placement"
	"github.com/lawnchairsociety/spelunkicons/internal/render"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

// Mode selects which placement and render passes run.
type Mode int

const (
	Floor Mode = iota
	FloorStyled
	FloorAndFloorStyled
	Pride
)

func (m Mode) String() string {
	switch m {
	case Floor:
		return "floor"
	case FloorStyled:
		return "floor_styled"
	case FloorAndFloorStyled:
		return "floor_and_floor_styled"
	case Pride:
		return "pride"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Kind is one selectable biome and mode pairing.
type Kind struct {
	Biome biome.Biome
	Mode  Mode
}

func (k Kind) String() string {
	return k.Biome.String() + "/" + k.Mode.String()
}

var kinds = func() []Kind {
	var out []Kind
	add := func(m Mode, bs ...biome.Biome) {
		for _, b := range bs {
			out = append(out, Kind{Biome: b, Mode: m})
		}
	}
	add(Floor,
		biome.Cave, biome.Jungle, biome.Babylon, biome.Eggplant, biome.Ice,
		biome.Sunken, biome.Surface, biome.Temple, biome.TidePool, biome.Volcana)
	add(FloorStyled,
		biome.Cave, biome.Jungle, biome.Babylon, biome.Sunken, biome.Temple,
		biome.TidePool, biome.Beehive, biome.Vlad, biome.CityOfGold, biome.Duat,
		biome.Mothership, biome.PalaceOfPleasure, biome.Guts, biome.Olmec)
	add(FloorAndFloorStyled,
		biome.Cave, biome.Jungle, biome.Babylon, biome.Sunken, biome.Temple,
		biome.TidePool, biome.Beehive)
	return out
}()

// Kinds returns the ordered list the mode index is drawn from.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// Choice is the outcome of the orchestrator's draws for one icon.
type Choice struct {
	Kind
	// Index into Kinds, kept even when an easter egg overrides the mode.
	Index   int
	Classic bool
}

// pride flags exist only for these heights.
func prideHeight(h int) bool {
	return h == 4 || h == 6 || h == 8
}

// Choose makes the classic and kind draws. Both draws always happen so an
// egg never shifts the rest of the stream.
func Choose(icon *spelunkicon.Spelunkicon, stream *rng.Stream) Choice {
	classic := stream.Bool(0.5)
	if icon.Egg == spelunkicon.EggClassic {
		classic = true
	}

	idx := int(stream.Uint64() % uint64(len(kinds)))
	c := Choice{Kind: kinds[idx], Index: idx, Classic: classic}
	if icon.Egg == spelunkicon.EggPride && prideHeight(icon.Height) {
		c.Mode = Pride
	}
	return c
}

// Place runs the placement passes for c and returns the finished grid. Pride
// places nothing and returns an empty grid.
func Place(c Choice, icon *spelunkicon.Spelunkicon, stream *rng.Stream) *placement.Grid {
	a := placement.New(icon, c.Biome, stream)
	switch c.Mode {
	case Floor:
		a.PlaceFloor()
		a.PlaceFloorMisc()
	case FloorStyled:
		a.PlaceFloorStyled()
		a.PlaceFloorMisc()
	case FloorAndFloorStyled:
		a.PlaceFloor()
		a.PlaceFloorStyled()
		a.PlaceFloorMisc()
	}
	return a.Grid()
}

// Generate chooses a kind for icon, places its tiles and paints them into
// dst, which must be sized for icon at the store's tile size.
func Generate(dst *image.RGBA, store atlas.Store, icon *spelunkicon.Spelunkicon, stream *rng.Stream) (Choice, *placement.Grid) {
	c := Choose(icon, stream)
	g := Place(c, icon, stream)
	paint(render.Frame{Dst: dst, Biome: c.Biome, Icon: icon, Rng: stream, Grid: g}, store, c)
	return c, g
}

func paint(f render.Frame, store atlas.Store, c Choice) {
	if c.Mode == Pride {
		render.NewPride(store, c.Classic).Render(f)
		return
	}

	r := render.New(store, c.Classic)
	switch c.Mode {
	case Floor:
		r.RenderFloor(f)
		r.RenderFloorMisc(f)
		r.RenderFloorDecorations(f)
		r.RenderFloorEmbeds(f)
	case FloorStyled:
		r.RenderFloorStyled(f)
		r.RenderFloorMisc(f)
	case FloorAndFloorStyled:
		r.RenderFloor(f)
		r.RenderFloorStyled(f)
		r.RenderFloorMisc(f)
		r.RenderFloorDecorations(f)
		r.RenderFloorEmbeds(f)
	}
}
