package placement

import "fmt"

// PlacedTile is the semantic content of one grid cell.
type PlacedTile int

const (
	None PlacedTile = iota
	Floor
	FloorStyled

	AltarLeft
	AltarRight
	IdolAltarLeft
	IdolAltarRight
	EggplantAltarLeft
	EggplantAltarRight
	ArrowTrap
	LaserTrap
	TotemTrap
	LionTrap
	SpearTrap
	FrogTrapLeft
	FrogTrapRight
	CrushTrap
	LargeCrushTrapTopLeft
	LargeCrushTrapTopRight
	LargeCrushTrapBotLeft
	LargeCrushTrapBotRight
	BushBlock
	BoneBlock
	IceBlock
	ChainTop
	ChainMid
	ChainBot
	Platform
	UdjatSocketTop
	UdjatSocketBot
	ConveyorLeft
	ConveyorRight
	PushBlock
	PowderKeg
	HoneyUp
	HoneyDown

	numTiles
)

var tileNames = [numTiles]string{
	None:                   "none",
	Floor:                  "floor",
	FloorStyled:            "floor_styled",
	AltarLeft:              "altar_left",
	AltarRight:             "altar_right",
	IdolAltarLeft:          "idol_altar_left",
	IdolAltarRight:         "idol_altar_right",
	EggplantAltarLeft:      "eggplant_altar_left",
	EggplantAltarRight:     "eggplant_altar_right",
	ArrowTrap:              "arrow_trap",
	LaserTrap:              "laser_trap",
	TotemTrap:              "totem_trap",
	LionTrap:               "lion_trap",
	SpearTrap:              "spear_trap",
	FrogTrapLeft:           "frog_trap_left",
	FrogTrapRight:          "frog_trap_right",
	CrushTrap:              "crush_trap",
	LargeCrushTrapTopLeft:  "large_crush_trap_top_left",
	LargeCrushTrapTopRight: "large_crush_trap_top_right",
	LargeCrushTrapBotLeft:  "large_crush_trap_bot_left",
	LargeCrushTrapBotRight: "large_crush_trap_bot_right",
	BushBlock:              "bush_block",
	BoneBlock:              "bone_block",
	IceBlock:               "ice_block",
	ChainTop:               "chain_top",
	ChainMid:               "chain_mid",
	ChainBot:               "chain_bot",
	Platform:               "platform",
	UdjatSocketTop:         "udjat_socket_top",
	UdjatSocketBot:         "udjat_socket_bot",
	ConveyorLeft:           "conveyor_left",
	ConveyorRight:          "conveyor_right",
	PushBlock:              "push_block",
	PowderKeg:              "powder_keg",
	HoneyUp:                "honey_up",
	HoneyDown:              "honey_down",
}

// Tiles lists every tile kind in declaration order.
func Tiles() []PlacedTile {
	out := make([]PlacedTile, numTiles)
	for i := range out {
		out[i] = PlacedTile(i)
	}
	return out
}

func (t PlacedTile) String() string {
	if t < 0 || t >= numTiles {
		return fmt.Sprintf("tile(%d)", int(t))
	}
	return tileNames[t]
}

// IsSpecial reports whether t is anything other than empty or structural floor.
func (t PlacedTile) IsSpecial() bool {
	return t != None && t != Floor && t != FloorStyled
}

// IsAltar reports whether t is one half of an altar pair.
func (t PlacedTile) IsAltar() bool {
	switch t {
	case AltarLeft, AltarRight, IdolAltarLeft, IdolAltarRight, EggplantAltarLeft, EggplantAltarRight:
		return true
	}
	return false
}

// Kind returns a pointer to t for use as the filled argument of NeighbourEmpty.
func Kind(t PlacedTile) *PlacedTile {
	return &t
}
