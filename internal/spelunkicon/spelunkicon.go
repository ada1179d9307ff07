// Package spelunkicon derives the per-request icon descriptor from an input
// string: its CRC32 hash and the mirrored occupancy grid.
package spelunkicon

import (
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

const (
	MinSize = 3
	MaxSize = 8
)

// Easter egg names accepted in the egg parameter.
const (
	EggPride   = "pride"
	EggClassic = "classic"
)

// ErrInvalidSize is returned for grid sizes outside MinSize..MaxSize.
var ErrInvalidSize = errors.New("grid size must be between 3 and 8")

// Spelunkicon describes one icon request.
type Spelunkicon struct {
	Input string
	Hash  uint32

	// Grid is indexed [row][col]. true marks an empty cell.
	Grid   [][]bool
	Width  int
	Height int

	MaxMisc uint8
	Egg     string
}

// FromInput hashes input and builds its size×size occupancy grid.
func FromInput(input, egg string, size int, maxMisc uint8) (*Spelunkicon, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	hash := crc32.ChecksumIEEE([]byte(input))
	return &Spelunkicon{
		Input:   input,
		Hash:    hash,
		Grid:    GridFromHash(hash, size),
		Width:   size,
		Height:  size,
		MaxMisc: maxMisc,
		Egg:     egg,
	}, nil
}

// BitsNeeded returns how many hash bits a grid of the given height consumes.
func BitsNeeded(height int) int {
	n := height * (height / 2)
	if height%2 == 1 {
		n += height
	}
	return n
}

// SideBits returns how many of those bits are mirrored side bits.
func SideBits(height int) int {
	return height * (height / 2)
}

// GridFromHash lays the most significant hash bits out as a grid mirrored
// about its vertical center. Odd heights take one unmirrored center bit per
// row from the tail of the consumed bits.
func GridFromHash(hash uint32, height int) [][]bool {
	half := height / 2
	n := BitsNeeded(height)

	bits := make([]bool, n)
	for i := range bits {
		bits[i] = hash&(1<<(31-i)) != 0
	}

	side := bits[:SideBits(height)]
	center := bits[n-height:]

	grid := make([][]bool, height)
	for row := range grid {
		rowSide := side[row*half : (row+1)*half]
		line := make([]bool, 0, height)
		line = append(line, rowSide...)
		if height%2 == 1 {
			line = append(line, center[row])
		}
		for i := len(rowSide) - 1; i >= 0; i-- {
			line = append(line, rowSide[i])
		}
		grid[row] = line
	}
	return grid
}

// Bits formats the n most significant bits of hash as a string of 0s and 1s.
func Bits(hash uint32, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n && i < 32; i++ {
		if hash&(1<<(31-i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Empty reports whether the cell at column x, row y is background.
func (s *Spelunkicon) Empty(x, y int) bool {
	return s.Grid[y][x]
}

// String renders the grid one row per line, 1 for empty cells.
func (s *Spelunkicon) String() string {
	var b strings.Builder
	for _, row := range s.Grid {
		for _, empty := range row {
			if empty {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
