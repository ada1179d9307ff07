// Package bruteforce searches short strings whose hash lays out a wanted
// occupancy grid.
package bruteforce

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
	"unicode/utf8"

	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

// Defaults used by the command line tool.
const (
	DefaultCorpus     = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultWordLength = 4
)

var (
	ErrInvalidSize   = errors.New("size must be between 3 and 8")
	ErrPatternLength = errors.New("pattern length does not match grid size")
	ErrPatternBits   = errors.New("pattern may only contain 0 and 1")
	ErrWordLength    = errors.New("word length must be between 1 and the corpus size")
)

// checkEvery is how many candidates pass between context checks.
const checkEvery = 1 << 14

// Match is one input whose hash fits the pattern.
type Match struct {
	Input string
	Hash  uint32
}

// Pattern returns the mirrored side bits a hash contributes to a grid of the
// given size, most significant first.
func Pattern(hash uint32, size int) string {
	n := spelunkicon.SideBits(size)
	var b strings.Builder
	for i := 0; i < n; i++ {
		if hash&(1<<(31-i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Search tries every ordered arrangement of wordLen distinct corpus runes and
// calls fn for each whose hash starts with pattern. It returns how many
// matched. A done ctx stops the search with ctx.Err().
func Search(ctx context.Context, pattern string, size int, corpus string, wordLen int, fn func(Match)) (int, error) {
	if size < spelunkicon.MinSize || size > spelunkicon.MaxSize {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if want := spelunkicon.SideBits(size); len(pattern) != want {
		return 0, fmt.Errorf("%w: size %d needs %d bits, got %d", ErrPatternLength, size, want, len(pattern))
	}
	if n := utf8.RuneCountInString(corpus); wordLen < 1 || wordLen > n {
		return 0, fmt.Errorf("%w: %d of %d", ErrWordLength, wordLen, n)
	}

	want, mask, err := parsePattern(pattern)
	if err != nil {
		return 0, err
	}

	found, tried := 0, 0
	err = permute(corpus, wordLen, func(word []byte) error {
		tried++
		if tried%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if h := crc32.ChecksumIEEE(word); h&mask == want {
			found++
			fn(Match{Input: string(word), Hash: h})
		}
		return nil
	})
	if err == nil {
		err = ctx.Err()
	}
	return found, err
}

// parsePattern turns a bit string into the wanted top bits and their mask.
func parsePattern(pattern string) (want, mask uint32, err error) {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '1':
			want |= 1 << (31 - i)
		case '0':
		default:
			return 0, 0, fmt.Errorf("%w: %q at %d", ErrPatternBits, pattern[i], i)
		}
	}
	mask = ^uint32(0) << (32 - len(pattern))
	return want, mask, nil
}

// permute calls fn with every ordered selection of n distinct runes from
// corpus, in lexicographic order of corpus positions. fn must not keep word.
func permute(corpus string, n int, fn func(word []byte) error) error {
	var runes [][]byte
	for _, r := range corpus {
		runes = append(runes, utf8.AppendRune(nil, r))
	}

	used := make([]bool, len(runes))
	buf := make([]byte, 0, n*utf8.UTFMax)

	var walk func(depth int) error
	walk = func(depth int) error {
		if depth == n {
			return fn(buf)
		}
		for i, r := range runes {
			if used[i] {
				continue
			}
			used[i] = true
			mark := len(buf)
			buf = append(buf, r...)
			if err := walk(depth + 1); err != nil {
				return err
			}
			buf = buf[:mark]
			used[i] = false
		}
		return nil
	}
	return walk(0)
}
