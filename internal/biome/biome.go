// Package biome enumerates the themed tile families an icon can be drawn with.
package biome

import (
	"fmt"
	"strings"
)

// Biome identifies a tile-art family.
type Biome int

const (
	Cave Biome = iota
	Jungle
	Beehive
	Babylon
	PalaceOfPleasure
	Eggplant
	Ice
	Mothership
	Sunken
	Guts
	Surface
	Temple
	CityOfGold
	Duat
	TidePool
	Volcana
	Vlad
	Olmec
)

var names = [...]string{
	Cave:             "cave",
	Jungle:           "jungle",
	Beehive:          "beehive",
	Babylon:          "babylon",
	PalaceOfPleasure: "palace_of_pleasure",
	Eggplant:         "eggplant",
	Ice:              "ice",
	Mothership:       "mothership",
	Sunken:           "sunken",
	Guts:             "guts",
	Surface:          "surface",
	Temple:           "temple",
	CityOfGold:       "city_of_gold",
	Duat:             "duat",
	TidePool:         "tide_pool",
	Volcana:          "volcana",
	Vlad:             "vlad",
	Olmec:            "olmec",
}

// All lists every biome in declaration order.
func All() []Biome {
	all := make([]Biome, len(names))
	for i := range names {
		all[i] = Biome(i)
	}
	return all
}

func (b Biome) String() string {
	if b < 0 || int(b) >= len(names) {
		return fmt.Sprintf("biome(%d)", int(b))
	}
	return names[b]
}

// Parse returns the biome with the given name (case-insensitive).
func Parse(name string) (Biome, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown biome %q", name)
}

// HasSpikes reports whether the biome decorates floor tops with spike traps.
func (b Biome) HasSpikes() bool {
	switch b {
	case Volcana, TidePool, Sunken, Jungle, Ice, Eggplant, Cave:
		return true
	}
	return false
}

// PlatformEligible reports whether free-standing platforms may be placed.
func (b Biome) PlatformEligible() bool {
	switch b {
	case Cave, TidePool, Surface, PalaceOfPleasure, Ice, Volcana:
		return true
	}
	return false
}
