// Package main seeds the workflows table with demo data for one owner.
// The workflows seeder is the only one shipped; the registry lets further
// seeders join the same all-or-nothing transaction under -all.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
)

// Seeder writes one set of rows inside the caller's transaction.
type Seeder interface {
	Name() string
	Description() string
	Seed(ctx context.Context, tx *sql.Tx) error
}

var registry = map[string]Seeder{}

// register is called from init in each seeder's file.
func register(s Seeder) {
	if _, dup := registry[s.Name()]; dup {
		panic(fmt.Sprintf("seeder %q registered twice", s.Name()))
	}
	registry[s.Name()] = s
}

func lookup(name string) (Seeder, bool) {
	s, ok := registry[name]
	return s, ok
}

// registered returns the seeders ordered by name, which is also the order
// seedAll runs them in.
func registered() []Seeder {
	names := slices.Sorted(maps.Keys(registry))
	out := make([]Seeder, len(names))
	for i, name := range names {
		out[i] = registry[name]
	}
	return out
}

func seedOne(ctx context.Context, db *sql.DB, name string) error {
	s, ok := lookup(name)
	if !ok {
		return fmt.Errorf("unknown seeder %q", name)
	}
	return inTx(ctx, db, []Seeder{s})
}

func seedAll(ctx context.Context, db *sql.DB) error {
	return inTx(ctx, db, registered())
}

// inTx commits only if every seeder succeeds.
func inTx(ctx context.Context, db *sql.DB, run []Seeder) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, s := range run {
		if err := s.Seed(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
