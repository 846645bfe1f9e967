// Command migrate applies or reverts the embedded workflow schema.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/flowdeck/internal/config"
	"github.com/JaimeStill/flowdeck/migrations"
	"github.com/JaimeStill/flowdeck/pkg/database"
)

const usage = "usage: migrate up | down [steps] | version"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var cfg database.Config
	if err := cfg.Finalize(config.DatabaseEnv()); err != nil {
		log.Fatalf("database configuration: %v", err)
	}

	mg, err := database.NewMigrator(&cfg, migrations.FS)
	if err != nil {
		log.Fatalf("init migrator: %v", err)
	}
	defer mg.Close()

	if err := run(mg, flag.Args()); err != nil {
		log.Fatal(err)
	}
}

func run(mg *database.Migrator, args []string) error {
	switch args[0] {
	case "up":
		if err := mg.Up(); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	case "down":
		steps, err := parseSteps(args[1:])
		if err != nil {
			return err
		}
		if err := mg.Down(steps); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}

	v, dirty, err := mg.Version()
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version %d (dirty: %t)\n", v, dirty)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return n, nil
}
