package placement

import "github.com/lawnchairsociety/spelunkicons/internal/biome"

const maxChainLinks = 3

func (a *Automaton) placeCave(x, y int, n Neighbors) {
	g := a.grid

	if n[DirNone] {
		if n[DirUp] && !n[DirDown] {
			t := BoneBlock
			if n[DirLeft] && n[DirUpLeft] && n[DirRight] && n[DirUpRight] {
				t = TotemTrap
			}
			g.stamp(at(x, y, t), at(x, y-1, t))
		}
		return
	}

	if n[DirLeft] != n[DirRight] {
		g.stamp(at(x, y, ArrowTrap))
	}
}

func (a *Automaton) placeJungle(x, y int, n Neighbors) {
	g := a.grid

	if !g.NotKind(x, y, DirNone, Floor) {
		if n[DirLeft] || n[DirRight] || n[DirUp] || n[DirDown] {
			t := BushBlock
			if a.rng.Bool(0.5) {
				t = SpearTrap
			}
			g.stamp(at(x, y, t))
		}
		return
	}

	if !n[DirNone] || a.biome != biome.Beehive {
		return
	}
	if !g.NotKind(x, y, DirUp, FloorStyled) {
		g.stamp(at(x, y, HoneyUp))
	} else if !g.NotKind(x, y, DirDown, FloorStyled) {
		g.stamp(at(x, y, HoneyDown))
	}
}

func (a *Automaton) placeVolcana(x, y int, n Neighbors) {
	g := a.grid

	if n[DirNone] {
		if !n[DirDown] && a.rng.Bool(0.01) {
			g.stamp(at(x, y-1, UdjatSocketTop), at(x, y, UdjatSocketBot))
		} else if n[DirDown] && !n[DirUp] {
			a.placeChain(x, y)
		}
		return
	}

	floorBelow := !g.NotKind(x, y, DirDown, Floor)
	if !n[DirUp] || !floorBelow {
		return
	}

	t := ConveyorRight
	if a.rng.Bool(0.5) {
		t = ConveyorLeft
	}
	if !g.stamp(at(x, y, t)) {
		return
	}
	if n[DirLeft] && n[DirUpLeft] && !g.NotKind(x, y, DirDownLeft, Floor) {
		g.stamp(at(x-1, y, t))
	}
	if n[DirRight] && n[DirUpRight] && !g.NotKind(x, y, DirDownRight, Floor) {
		g.stamp(at(x+1, y, t))
	}
}

// placeChain hangs a chain from the ceiling above (x, y). It ends at the grid
// bottom, after maxChainLinks links, or on the first occupied cell; when that
// cell cannot be replaced the last link becomes the end piece.
func (a *Automaton) placeChain(x, y int) {
	g := a.grid
	if !g.writable(x, y-1) {
		return
	}

	cells := []cell{at(x, y-1, ChainTop)}
	for i := 0; i <= maxChainLinks; i++ {
		cy := y + i
		if cy == g.Height-1 || i == maxChainLinks || g.At(x, cy) != None {
			if g.writable(x, cy) {
				cells = append(cells, at(x, cy, ChainBot))
			} else {
				cells[len(cells)-1].tile = ChainBot
			}
			break
		}
		cells = append(cells, at(x, cy, ChainMid))
	}
	g.stamp(cells...)
}

func (a *Automaton) placeTidePool(x, y int, n Neighbors) {
	if !n[DirNone] || !n[DirUp] || n[DirDown] {
		return
	}
	if n[DirLeft] && n[DirUpLeft] && n[DirRight] && n[DirUpRight] {
		a.grid.stamp(at(x, y, LionTrap), at(x, y-1, LionTrap))
	}
}

func (a *Automaton) placeTemple(x, y int, n Neighbors) {
	g := a.grid
	open := func(d Direction) bool {
		return g.NotKind(x, y, d, Floor) && g.NotKind(x, y, d, FloorStyled)
	}

	if open(DirNone) {
		return
	}

	right := open(DirRight)
	down := open(DirDown)
	downRight := open(DirDownRight)
	if !right && !down && !downRight && a.rng.Bool(0.5) {
		g.stamp(
			at(x, y, LargeCrushTrapTopLeft),
			at(x+1, y, LargeCrushTrapTopRight),
			at(x, y+1, LargeCrushTrapBotLeft),
			at(x+1, y+1, LargeCrushTrapBotRight),
		)
		return
	}
	if n[DirLeft] || right || n[DirUp] || down {
		g.stamp(at(x, y, CrushTrap))
	}
}

func (a *Automaton) placeIce(x, y int, n Neighbors) {
	if !n[DirNone] {
		a.grid.stamp(at(x, y, IceBlock))
	}
}

func (a *Automaton) placeBabylon(x, y int, n Neighbors) {
	if !n[DirNone] && n[DirLeft] != n[DirRight] {
		a.grid.stamp(at(x, y, LaserTrap))
	}
}

func (a *Automaton) placeSunken(x, y int, n Neighbors) {
	if n[DirNone] {
		return
	}
	switch {
	case !n[DirLeft] && n[DirRight]:
		a.grid.stamp(at(x-1, y, FrogTrapLeft), at(x, y, FrogTrapRight))
	case n[DirLeft] && !n[DirRight]:
		a.grid.stamp(at(x, y, FrogTrapLeft), at(x+1, y, FrogTrapRight))
	}
}
