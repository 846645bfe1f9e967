package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/JaimeStill/flowdeck/internal/config"
	"github.com/JaimeStill/flowdeck/pkg/database"
)

const (
	EnvDatabaseDSN = "DATABASE_DSN"
	EnvSeedOwner   = "SEED_OWNER"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	var (
		dsn       = flag.String("dsn", "", "Database connection string")
		all       = flag.Bool("all", false, "Run all seeders")
		workflows = flag.Bool("workflows", false, "Seed workflows")
		owner     = flag.String("owner", os.Getenv(EnvSeedOwner), "Owner subject for seeded workflows")
		count     = flag.Int("count", 0, "Additional generated workflows")
		file      = flag.String("file", "", "External seed file (overrides embedded)")
		list      = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range registered() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if !*all && !*workflows {
		fmt.Println("usage: seed [-dsn <connection-string>] [-all|-workflows] -owner <subject> [-count N] [-file <path>] [-list]")
		flag.PrintDefaults()
		return
	}

	if seeder, ok := lookup("workflows"); ok {
		ws := seeder.(*WorkflowSeeder)
		ws.SetOwner(*owner)
		ws.SetCount(*count)
		if *file != "" {
			ws.SetFile(*file)
		}
	}

	conn, err := resolveDSN(*dsn)
	if err != nil {
		log.Fatalf("database configuration: %v", err)
	}

	db, err := sql.Open("pgx", conn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	if *all {
		if err := seedAll(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")
		return
	}

	if err := seedOne(ctx, db, "workflows"); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	fmt.Println("workflows seeded successfully")
}

// resolveDSN prefers an explicit connection string and falls back to the
// service's DATABASE_* settings.
func resolveDSN(dsn string) (string, error) {
	if dsn == "" {
		dsn = os.Getenv(EnvDatabaseDSN)
	}
	if dsn != "" {
		return dsn, nil
	}

	var cfg database.Config
	if err := cfg.Finalize(config.DatabaseEnv()); err != nil {
		return "", fmt.Errorf("use -dsn, %s, or DATABASE_* variables: %w", EnvDatabaseDSN, err)
	}
	return cfg.Dsn(), nil
}
