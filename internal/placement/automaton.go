// Package placement turns an occupancy grid into a grid of semantic tiles:
// plain and styled floor plus the biome-specific traps, blocks and props.
//
// Every random decision is drawn from the automaton's stream in a fixed order,
// so the same icon and biome always produce the same grid.
package placement

import (
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

const (
	styledSeeds      = 2
	styledFloodDepth = 3
)

// Automaton owns the placed-tile grid for one icon while its passes run.
type Automaton struct {
	icon  *spelunkicon.Spelunkicon
	biome biome.Biome
	rng   *rng.Stream
	grid  *Grid

	floorPlaced bool
	placedAltar bool
}

// New returns an automaton with an all-None grid sized to icon.
func New(icon *spelunkicon.Spelunkicon, b biome.Biome, stream *rng.Stream) *Automaton {
	return &Automaton{
		icon:  icon,
		biome: b,
		rng:   stream,
		grid:  NewGrid(icon.Width, icon.Height),
	}
}

// Grid returns the grid built so far.
func (a *Automaton) Grid() *Grid {
	return a.grid
}

// PlaceFloor marks every solid occupancy cell as Floor.
func (a *Automaton) PlaceFloor() {
	a.fillSolid(Floor)
	a.floorPlaced = true
}

// PlaceFloorStyled marks solid cells as FloorStyled. After PlaceFloor it
// instead recolours a couple of small flood-filled patches of Floor.
func (a *Automaton) PlaceFloorStyled() {
	if !a.floorPlaced {
		a.fillSolid(FloorStyled)
		return
	}

	for i := 0; i < styledSeeds; i++ {
		x := int(a.rng.Uint32() % uint32(a.grid.Width))
		y := int(a.rng.Uint32() % uint32(a.grid.Height))
		if a.grid.At(x, y) == Floor {
			a.floodStyled(x, y, styledFloodDepth)
		}
	}
}

func (a *Automaton) fillSolid(t PlacedTile) {
	for y, row := range a.icon.Grid {
		for x, empty := range row {
			if !empty {
				a.grid.Set(x, y, t)
			}
		}
	}
}

// floodStyled recolours Floor reachable within depth orthogonal steps. The
// stack visits left, up, right, down in that order, depth first.
func (a *Automaton) floodStyled(x, y, depth int) {
	type visit struct{ x, y, depth int }

	g := a.grid
	stack := []visit{{x, y, depth}}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if g.At(v.x, v.y) != Floor {
			continue
		}
		g.Set(v.x, v.y, FloorStyled)
		if v.depth == 0 {
			continue
		}

		// Pushed in reverse so the left branch pops first.
		if v.y < g.Height-1 {
			stack = append(stack, visit{v.x, v.y + 1, v.depth - 1})
		}
		if v.x < g.Width-1 {
			stack = append(stack, visit{v.x + 1, v.y, v.depth - 1})
		}
		if v.y > 0 {
			stack = append(stack, visit{v.x, v.y - 1, v.depth - 1})
		}
		if v.x > 0 {
			stack = append(stack, visit{v.x - 1, v.y, v.depth - 1})
		}
	}
}

// PlaceFloorMisc makes icon.MaxMisc placement attempts at random interior
// cells. Most attempts match no rule and change nothing.
func (a *Automaton) PlaceFloorMisc() {
	g := a.grid
	a.placedAltar = false

	for i := 0; i < int(a.icon.MaxMisc); i++ {
		x := int(a.rng.Uint64()%uint64(g.Width-2)) + 1
		y := int(a.rng.Uint64()%uint64(g.Height-2)) + 1

		n := Snapshot(g, x, y)
		before := g.At(x, y)

		a.applyBiomeRule(x, y, n)

		if g.At(x, y) == before && n[DirNone] {
			a.applyGenericRule(x, y, n)
		}
	}
}

func (a *Automaton) applyBiomeRule(x, y int, n Neighbors) {
	switch a.biome {
	case biome.Cave:
		a.placeCave(x, y, n)
	case biome.Jungle, biome.Beehive:
		a.placeJungle(x, y, n)
	case biome.Volcana:
		a.placeVolcana(x, y, n)
	case biome.TidePool:
		a.placeTidePool(x, y, n)
	case biome.Temple, biome.CityOfGold:
		a.placeTemple(x, y, n)
	case biome.Ice:
		a.placeIce(x, y, n)
	case biome.Babylon:
		a.placeBabylon(x, y, n)
	case biome.Sunken:
		a.placeSunken(x, y, n)
	}
}

// applyGenericRule places altars, push blocks and platforms on an empty cell
// the biome rule left alone.
func (a *Automaton) applyGenericRule(x, y int, n Neighbors) {
	g := a.grid

	if !n[DirDown] {
		leftAnchor := n[DirLeft] && !n[DirDownLeft] && n[DirUpLeft]
		rightAnchor := n[DirRight] && !n[DirDownRight] && n[DirUpRight]

		if !a.placedAltar && a.rng.Bool(0.2) && n[DirUp] && (leftAnchor || rightAnchor) {
			left, right := a.altarKinds()
			if leftAnchor {
				g.stamp(at(x-1, y, left), at(x, y, right))
			} else {
				g.stamp(at(x, y, left), at(x+1, y, right))
			}
			a.placedAltar = true
		} else if n[DirLeft] || n[DirRight] {
			t := PushBlock
			if a.rng.Bool(0.05) {
				t = PowderKeg
			}
			g.stamp(at(x, y, t))
		}
		return
	}

	if n[DirUp] && a.biome.PlatformEligible() {
		g.stamp(at(x, y, Platform))
	}
}

func (a *Automaton) altarKinds() (PlacedTile, PlacedTile) {
	switch a.biome {
	case biome.Cave, biome.Volcana, biome.TidePool:
		if a.rng.Bool(0.5) {
			return AltarLeft, AltarRight
		}
		return IdolAltarLeft, IdolAltarRight
	case biome.Ice:
		if a.rng.Bool(0.3333) {
			return AltarLeft, AltarRight
		}
		if a.rng.Bool(0.5) {
			return EggplantAltarLeft, EggplantAltarRight
		}
		return IdolAltarLeft, IdolAltarRight
	}
	return AltarLeft, AltarRight
}
