package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/spelunkicons/internal/atlas"
	"github.com/lawnchairsociety/spelunkicons/internal/config"
	"github.com/lawnchairsociety/spelunkicons/internal/database"
	"github.com/lawnchairsociety/spelunkicons/internal/generator"
	"github.com/lawnchairsociety/spelunkicons/internal/logger"
	"github.com/lawnchairsociety/spelunkicons/internal/server"
	"github.com/lawnchairsociety/spelunkicons/internal/spelunkicon"
)

func main() {
	// Parse command-line flags
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	addr := flag.String("addr", "", "Listen address (overrides http.address)")
	textures := flag.String("textures", "", "Texture directory (overrides atlas.dir; empty uses placeholder atlases)")
	renderInput := flag.String("render", "", "Render one icon for this input to -out and exit")
	out := flag.String("out", "icon.png", "Output file for -render")
	size := flag.Int("size", 0, "Grid size for -render (default: icons.default_size)")
	misc := flag.Int("misc", -1, "Misc attempts for -render (default: icons.default_misc)")
	egg := flag.String("egg", "", "Easter egg for -render (pride or classic)")
	px := flag.Int("px", 0, "Output size in pixels for -render (0 keeps the native size)")
	hashToken := flag.String("hash-token", "", "Print the bcrypt hash of an admin token for admin.token_hash and exit")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using default logging\n", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
		cfg = config.DefaultConfig()
	}
	if *addr != "" {
		cfg.HTTP.Address = *addr
	}
	if *textures != "" {
		cfg.Atlas.Dir = *textures
	}

	if *hashToken != "" {
		handleHashToken(cfg, *hashToken)
		return
	}

	store, err := loadAtlases(cfg.Atlas)
	if err != nil {
		log.Fatalf("Failed to load atlases: %v", err)
	}
	gen := generator.New(store)

	if *renderInput != "" {
		if *size == 0 {
			*size = cfg.Icons.DefaultSize
		}
		if *misc < 0 {
			*misc = cfg.Icons.DefaultMisc
		}
		if err := renderToFile(gen, *renderInput, *egg, *size, *misc, *px, *out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
		return
	}

	logger.Info("Starting spelunkicons server")

	srv := server.NewServer(cfg, gen)

	if cfg.Cache.Enabled {
		db, err := database.OpenWithConfig(cacheConfig(cfg.Cache))
		if err != nil {
			logger.Warning("Failed to open render cache, serving without it", "driver", cfg.Cache.Driver, "error", err)
		} else {
			defer db.Close()
			srv.SetCache(db)
			logger.Info("Render cache enabled", "driver", db.Dialect().DriverName())
		}
	}

	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}
	if !cfg.Admin.Enabled() {
		logger.Info("Admin endpoints disabled", "reason", "no admin.token_hash configured")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown did not finish cleanly", "error", err)
	}
	logger.Info("Server stopped")
}

// loadAtlases reads the texture directory, or draws placeholders when none is set.
func loadAtlases(cfg config.AtlasConfig) (atlas.Store, error) {
	if cfg.Dir == "" {
		logger.Warning("No texture directory configured, using placeholder atlases")
		return atlas.NewPlaceholder(cfg.TileWidth, cfg.TileHeight), nil
	}

	start := time.Now()
	store, err := atlas.LoadDir(cfg.Dir, cfg.TileWidth, cfg.TileHeight)
	if err != nil {
		return nil, err
	}
	logger.Info("Atlases loaded", "dir", cfg.Dir, "sheets", store.Len(), "duration", time.Since(start))
	return store, nil
}

// cacheConfig maps the YAML cache section onto the database package config.
func cacheConfig(c config.CacheConfig) database.Config {
	return database.Config{
		Driver:     c.Driver,
		SQLitePath: c.SQLitePath,
		Postgres: database.PostgresConfig{
			Host:            c.Postgres.Host,
			Port:            c.Postgres.Port,
			User:            c.Postgres.User,
			Password:        c.Postgres.Password,
			Database:        c.Postgres.Database,
			SSLMode:         c.Postgres.SSLMode,
			MaxOpenConns:    c.Postgres.MaxOpenConns,
			MaxIdleConns:    c.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(c.Postgres.ConnMaxLifetimeSeconds) * time.Second,
		},
	}
}

func renderToFile(gen *generator.Generator, input, egg string, size, misc, px int, path string) error {
	icon, err := spelunkicon.FromInput(input, egg, size, uint8(min(max(misc, 0), 255)))
	if err != nil {
		return err
	}
	png, err := gen.MakePNG(icon, px)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}

// handleHashToken checks an admin token against the configured rules and
// prints its bcrypt hash.
func handleHashToken(cfg *config.ServerConfig, token string) {
	if msg := cfg.Admin.ValidateToken(token); msg != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to hash token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
