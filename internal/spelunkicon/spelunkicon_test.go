package spelunkicon

import (
	"errors"
	"strings"
	"testing"
)

func rows(grid [][]bool) []string {
	out := make([]string, len(grid))
	for i, row := range grid {
		var b strings.Builder
		for _, empty := range row {
			if empty {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		out[i] = b.String()
	}
	return out
}

func TestFromInputHash(t *testing.T) {
	tests := []struct {
		input string
		want  uint32
	}{
		{"a", 0xe8b7be43},
		{"b", 0x71beeff9},
		{"abcd", 0xed82cd11},
	}

	for _, tt := range tests {
		icon, err := FromInput(tt.input, "", 6, 2)
		if err != nil {
			t.Fatalf("FromInput(%q) error: %v", tt.input, err)
		}
		if icon.Hash != tt.want {
			t.Errorf("FromInput(%q).Hash = %#x, want %#x", tt.input, icon.Hash, tt.want)
		}
	}
}

func TestGridForA(t *testing.T) {
	tests := []struct {
		height int
		want   []string
	}{
		{3, []string{"101", "111", "101"}},
		{4, []string{"1111", "1001", "1001", "0000"}},
		{5, []string{"11111", "10101", "10001", "00100", "10101"}},
		{6, []string{"111111", "010010", "001100", "011110", "011110", "110011"}},
		{7, []string{"1111111", "0101010", "0010100", "0110110", "0111110", "1100011", "1110111"}},
		{8, []string{"11100111", "10000001", "10111101", "01111110", "10111101", "11100111", "01000010", "00111100"}},
	}

	for _, tt := range tests {
		got := rows(GridFromHash(0xe8b7be43, tt.height))
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("height %d: got %v, want %v", tt.height, got, tt.want)
		}
	}
}

func TestGridTopBitsForA(t *testing.T) {
	if got := Bits(0xe8b7be43, 18); got != "111010001011011110" {
		t.Errorf("Bits = %q, want %q", got, "111010001011011110")
	}
}

func TestOddHeightUsesCenterBits(t *testing.T) {
	odd := GridFromHash(0xe8b7be43, 3)
	even := GridFromHash(0xe8b7be43, 4)

	for _, row := range odd {
		if len(row) != 3 {
			t.Fatalf("row length = %d, want 3", len(row))
		}
	}

	// Center column comes from bits 3..5 (0, 1, 0), not from the side bits.
	center := []bool{odd[0][1], odd[1][1], odd[2][1]}
	want := []bool{false, true, false}
	for i := range want {
		if center[i] != want[i] {
			t.Errorf("center[%d] = %v, want %v", i, center[i], want[i])
		}
	}

	// Height 4 rows of the same hash have no unmirrored column.
	if even[1][1] != even[1][2] {
		t.Error("even height should mirror the inner columns")
	}
}

func TestMirrorInvariant(t *testing.T) {
	inputs := []string{"a", "b", "abcd", "spelunky", "hello world", "0", "Z9"}
	for _, input := range inputs {
		for size := MinSize; size <= MaxSize; size++ {
			icon, err := FromInput(input, "", size, 2)
			if err != nil {
				t.Fatalf("FromInput error: %v", err)
			}
			if len(icon.Grid) != size {
				t.Fatalf("grid height = %d, want %d", len(icon.Grid), size)
			}
			for y, row := range icon.Grid {
				if len(row) != size {
					t.Fatalf("row %d width = %d, want %d", y, len(row), size)
				}
				for x := 0; x < size; x++ {
					if row[x] != row[size-1-x] {
						t.Errorf("%q size %d: row %d col %d not mirrored", input, size, y, x)
					}
				}
			}
		}
	}
}

func TestDifferentInputsDifferentGrids(t *testing.T) {
	a, _ := FromInput("a", "", 6, 2)
	b, _ := FromInput("b", "", 6, 2)
	if a.Hash == b.Hash {
		t.Fatal("hashes should differ")
	}
	if a.String() == b.String() {
		t.Error("grids for a and b should differ")
	}
}

func TestInvalidSize(t *testing.T) {
	for _, size := range []int{0, 1, 2, 9, 16, -1} {
		_, err := FromInput("a", "", size, 2)
		if !errors.Is(err, ErrInvalidSize) {
			t.Errorf("size %d: expected ErrInvalidSize, got %v", size, err)
		}
	}
}

func TestBitsNeeded(t *testing.T) {
	tests := []struct{ height, bits, side int }{
		{3, 6, 3},
		{4, 8, 8},
		{5, 15, 10},
		{6, 18, 18},
		{7, 28, 21},
		{8, 32, 32},
	}
	for _, tt := range tests {
		if got := BitsNeeded(tt.height); got != tt.bits {
			t.Errorf("BitsNeeded(%d) = %d, want %d", tt.height, got, tt.bits)
		}
		if got := SideBits(tt.height); got != tt.side {
			t.Errorf("SideBits(%d) = %d, want %d", tt.height, got, tt.side)
		}
	}
}

func TestString(t *testing.T) {
	icon, _ := FromInput("a", "", 3, 0)
	if got := icon.String(); got != "101\n111\n101\n" {
		t.Errorf("String() = %q", got)
	}
	if !icon.Empty(0, 0) || icon.Empty(1, 0) {
		t.Error("Empty() disagrees with the grid")
	}
}
