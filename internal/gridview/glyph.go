package gridview

import (
	"github.com/mattn/go-runewidth"

	"github.com/lawnchairsociety/spelunkicons/internal/placement"
)

// cellWidth is how many terminal columns one grid cell takes.
const cellWidth = 2

var glyphs = map[placement.PlacedTile]string{
	placement.None:                   "· ",
	placement.Floor:                  "██",
	placement.FloorStyled:            "▓▓",
	placement.AltarLeft:              "[a",
	placement.AltarRight:             "a]",
	placement.IdolAltarLeft:          "[i",
	placement.IdolAltarRight:         "i]",
	placement.EggplantAltarLeft:      "[e",
	placement.EggplantAltarRight:     "e]",
	placement.ArrowTrap:              "->",
	placement.LaserTrap:              "~~",
	placement.TotemTrap:              "TT",
	placement.LionTrap:               "Ln",
	placement.SpearTrap:              "^^",
	placement.FrogTrapLeft:           "<F",
	placement.FrogTrapRight:          "F>",
	placement.CrushTrap:              "##",
	placement.LargeCrushTrapTopLeft:  "┏━",
	placement.LargeCrushTrapTopRight: "━┓",
	placement.LargeCrushTrapBotLeft:  "┗━",
	placement.LargeCrushTrapBotRight: "━┛",
	placement.BushBlock:              "🌿",
	placement.BoneBlock:              "🦴",
	placement.IceBlock:               "🧊",
	placement.ChainTop:               "┬┬",
	placement.ChainMid:               "││",
	placement.ChainBot:               "┴┴",
	placement.Platform:               "==",
	placement.UdjatSocketTop:         "◉ ",
	placement.UdjatSocketBot:         "◡ ",
	placement.ConveyorLeft:           "<<",
	placement.ConveyorRight:          ">>",
	placement.PushBlock:              "[]",
	placement.PowderKeg:              "💣",
	placement.HoneyUp:                "🍯",
	placement.HoneyDown:              "🐝",
}

// Glyph returns the two-column legend glyph for t.
func Glyph(t placement.PlacedTile) string {
	g, ok := glyphs[t]
	if !ok {
		return "??"
	}
	return runewidth.FillRight(g, cellWidth)
}
