package database

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator applies versioned SQL migrations from an fs.FS.
// It opens its own connection so closing it never touches the application pool.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator prepares a migrator over the *.up.sql / *.down.sql files at the root of fsys.
func NewMigrator(cfg *Config, fsys fs.FS) (*Migrator, error) {
	src, err := iofs.New(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down reverts the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version reports the applied version. A fresh database reports 0.
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Up is a one-shot helper that migrates to the latest version and returns it.
func Up(cfg *Config, fsys fs.FS) (uint, error) {
	mg, err := NewMigrator(cfg, fsys)
	if err != nil {
		return 0, err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		return 0, err
	}
	v, _, err := mg.Version()
	return v, err
}

func migrationURL(cfg *Config) string {
	return strings.Replace(cfg.URL(), "postgres://", "pgx5://", 1)
}
