package sheet

import (
	"bytes"
	"testing"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/biome"
	"github.com/lawnchairsociety/spelunkicons/internal/placement"
	"github.com/lawnchairsociety/spelunkicons/internal/render"
	"github.com/lawnchairsociety/spelunkicons/internal/rng"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

func mustIcon(t *testing.T, input, egg string, size int) *spelunkicon.Spelunkicon {
	t.Helper()
	icon, err := spelunkicon.FromInput(input, egg, size, 2)
	if err != nil {
		t.Fatalf("FromInput(%q): %v", input, err)
	}
	return icon
}

func TestKinds(t *testing.T) {
	ks := Kinds()
	if len(ks) != 31 {
		t.Fatalf("len(Kinds()) = %d, want 31", len(ks))
	}
	counts := map[Mode]int{}
	for _, k := range ks {
		counts[k.Mode]++
	}
	if counts[Floor] != 10 || counts[FloorStyled] != 14 || counts[FloorAndFloorStyled] != 7 {
		t.Errorf("mode counts = %v", counts)
	}
	if counts[Pride] != 0 {
		t.Error("pride must only be reachable through the egg")
	}

	ks[0] = Kind{Biome: biome.Olmec, Mode: Pride}
	if Kinds()[0] != (Kind{Biome: biome.Cave, Mode: Floor}) {
		t.Error("Kinds returned the shared backing slice")
	}
}

func TestChoose(t *testing.T) {
	tests := []struct {
		input   string
		egg     string
		size    int
		want    Kind
		index   int
		classic bool
	}{
		{"a", "", 6, Kind{biome.Jungle, FloorAndFloorStyled}, 25, false},
		{"b", "", 6, Kind{biome.Cave, Floor}, 0, false},
		{"abcd", "", 6, Kind{biome.Vlad, FloorStyled}, 17, false},
		{"a", spelunkicon.EggClassic, 6, Kind{biome.Jungle, FloorAndFloorStyled}, 25, true},
		{"a", spelunkicon.EggPride, 6, Kind{biome.Jungle, Pride}, 25, false},
		{"a", spelunkicon.EggPride, 5, Kind{biome.Jungle, FloorAndFloorStyled}, 25, false},
		{"a", "unknown", 6, Kind{biome.Jungle, FloorAndFloorStyled}, 25, false},
	}
	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.egg, func(t *testing.T) {
			icon := mustIcon(t, tt.input, tt.egg, tt.size)
			s := rng.New(icon.Hash)
			c := Choose(icon, s)

			if c.Kind != tt.want || c.Index != tt.index || c.Classic != tt.classic {
				t.Errorf("Choose = %+v, want %v index %d classic %v", c, tt.want, tt.index, tt.classic)
			}
			if got := s.Draws(); got != 2 {
				t.Errorf("draws = %d, want 2", got)
			}
		})
	}
}

func TestPlaceModes(t *testing.T) {
	icon := mustIcon(t, "a", "", 6)
	solid := 0
	for y := range icon.Grid {
		for x := range icon.Grid[y] {
			if !icon.Empty(x, y) {
				solid++
			}
		}
	}

	tests := []struct {
		mode        Mode
		wantFloor   bool
		wantStyled  bool
		wantNothing bool
	}{
		{Floor, true, false, false},
		{FloorStyled, false, true, false},
		{Pride, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			c := Choice{Kind: Kind{Biome: biome.Temple, Mode: tt.mode}}
			g := Place(c, icon, rng.New(icon.Hash))

			floor := g.Count(placement.Floor)
			styled := g.Count(placement.FloorStyled)
			if tt.wantNothing {
				if g.Count(placement.None) != g.Width*g.Height {
					t.Error("pride placed tiles")
				}
				return
			}
			if (floor > 0) != tt.wantFloor {
				t.Errorf("floor count = %d", floor)
			}
			if (styled > 0) != tt.wantStyled {
				t.Errorf("styled count = %d", styled)
			}
			if placed := g.Width*g.Height - g.Count(placement.None); placed < solid {
				t.Errorf("placed %d cells, want at least %d", placed, solid)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	store := atlas.NewPlaceholder(8, 8)
	for _, input := range []string{"a", "b", "abcd", "spelunky", "ana"} {
		for _, egg := range []string{"", spelunkicon.EggPride, spelunkicon.EggClassic} {
			icon := mustIcon(t, input, egg, 6)
			run := func() ([]byte, Choice) {
				dst := render.NewCanvas(icon, 8, 8)
				c, _ := Generate(dst, store, icon, rng.New(icon.Hash))
				return dst.Pix, c
			}
			p1, c1 := run()
			p2, c2 := run()
			if c1 != c2 {
				t.Errorf("%q/%q: choice changed between runs", input, egg)
			}
			if !bytes.Equal(p1, p2) {
				t.Errorf("%q/%q: pixels changed between runs", input, egg)
			}
		}
	}
}

func TestPaintEveryKind(t *testing.T) {
	store := atlas.NewPlaceholder(8, 8)
	for _, size := range []int{3, 6, 8} {
		icon := mustIcon(t, "spelunky", "", size)
		for i, k := range Kinds() {
			for _, classic := range []bool{false, true} {
				s := rng.New(icon.Hash)
				c := Choice{Kind: k, Index: i, Classic: classic}
				g := Place(c, icon, s)

				dst := render.NewCanvas(icon, 8, 8)
				paint(render.Frame{Dst: dst, Biome: k.Biome, Icon: icon, Rng: s, Grid: g}, store, c)
				if g.Count(placement.None) == g.Width*g.Height {
					t.Errorf("%v size %d: nothing placed", k, size)
				}
			}
		}
	}
}

func TestGeneratePride(t *testing.T) {
	store := atlas.NewPlaceholder(8, 8)
	icon := mustIcon(t, "a", spelunkicon.EggPride, 6)
	dst := render.NewCanvas(icon, 8, 8)

	c, _ := Generate(dst, store, icon, rng.New(icon.Hash))
	if c.Mode != Pride {
		t.Fatalf("mode = %v, want pride", c.Mode)
	}
	for y := 0; y < icon.Height; y++ {
		for x := 0; x < icon.Width; x++ {
			if dst.RGBAAt(x*8+4, y*8+4).A == 0 {
				t.Fatalf("cell (%d,%d) left empty", x, y)
			}
		}
	}
}

func TestModeString(t *testing.T) {
	if got := (Kind{biome.Cave, FloorStyled}).String(); got != "cave/floor_styled" {
		t.Errorf("Kind.String() = %q", got)
	}
	if got := Mode(9).String(); got != "Mode(9)" {
		t.Errorf("Mode(9).String() = %q", got)
	}
}
