// gridview shows how an input's hash becomes an occupancy grid and placed
// tiles, in the local terminal or over SSH.
//
// Usage:
//
//	gridview [-input spelunky] [-size 6]
//	gridview -ssh :2222 [-host-key data/gridview_host_key]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/spelunkicons/internal/gridview"
	"github.com/lawnchairsociety/spelunkicons/internal/logger"
)

func main() {
	input := flag.String("input", "spelunky", "Initial input")
	size := flag.Int("size", 6, "Initial grid size (3-8)")
	misc := flag.Int("misc", 2, "Initial misc attempts")
	egg := flag.String("egg", "", "Initial easter egg (pride or classic)")
	sshAddr := flag.String("ssh", "", "Serve the viewer over SSH on this address instead of the local terminal")
	hostKey := flag.String("host-key", "data/gridview_host_key", "PEM host key for -ssh (generated if absent)")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	flag.Parse()

	opts := gridview.Options{Input: *input, Size: *size, Misc: *misc, Egg: *egg}

	if *sshAddr != "" {
		logConfig, _ := logger.LoadConfig(*loggingConfig)
		if err := logger.Initialize(logConfig); err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := gridview.Serve(ctx, *sshAddr, *hostKey, opts); err != nil {
			log.Fatalf("Grid viewer error: %v", err)
		}
		return
	}

	// Logging stays off locally so it cannot scribble over the screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	gridview.New(screen, opts).Run()
}
