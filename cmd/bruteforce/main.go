// bruteforce finds short inputs whose hash produces a wanted occupancy grid.
//
// The pattern is the grid's mirrored side bits, row by row, most significant
// first: size*(size/2) characters of 0 and 1. -like takes the pattern from an
// existing input instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"hash/crc32"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/bruteforce"
)

func main() {
	pattern := flag.String("pattern", "", "Bit pattern to search for")
	like := flag.String("like", "", "Search for inputs with the same grid as this one")
	size := flag.Int("size", 6, "Grid size (3-8)")
	corpus := flag.String("corpus", bruteforce.DefaultCorpus, "Characters to build inputs from")
	wordLen := flag.Int("len", bruteforce.DefaultWordLength, "Input length")
	flag.Parse()

	if *like != "" {
		*pattern = bruteforce.Pattern(crc32.ChecksumIEEE([]byte(*like)), *size)
		fmt.Printf("Pattern for %q: %s\n", *like, *pattern)
	}
	if *pattern == "" {
		fmt.Fprintln(os.Stderr, "Error: -pattern or -like is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	n, err := bruteforce.Search(ctx, *pattern, *size, *corpus, *wordLen, func(m bruteforce.Match) {
		fmt.Printf("Found %s (0x%08x)\n", m.Input, m.Hash)
	})
	fmt.Printf("%d matches in %s\n", n, time.Since(start).Round(time.Millisecond))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
