// migrate-to-postgres copies the render cache from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/renders.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user spelunkicons \
//	    -pg-password spelunkicons \
//	    -pg-database spelunkicons
package main

import (
	"flag"
	"log"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/database"
)

func main() {
	// Parse command-line flags
	sqlitePath := flag.String("sqlite", "data/renders.db", "Path to SQLite render cache")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "spelunkicons", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "spelunkicons", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "spelunkicons", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Render cache migration: SQLite to PostgreSQL")
	log.Println("============================================")

	log.Printf("Opening SQLite cache: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite cache: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	// Opening runs the schema migrations on PostgreSQL
	log.Printf("Opening PostgreSQL cache: %s@%s:%d/%s", *pgUser, *pgHost, *pgPort, *pgDatabase)
	dst, err := database.OpenWithConfig(database.Config{Driver: "postgres", Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL cache: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	start := time.Now()
	count, err := src.CopyRenders(dst, *dryRun)
	if err != nil {
		log.Fatalf("Failed after %d renders: %v", count, err)
	}

	log.Println("============================================")
	log.Printf("Migration complete! Renders migrated: %d (%s)", count, time.Since(start).Round(time.Millisecond))
	if *dryRun {
		log.Println("(DRY RUN - No actual changes were made)")
	}
}
