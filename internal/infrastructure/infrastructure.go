// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies domain systems require: lifecycle, logging, and
// the database when workflows are persisted.
package infrastructure

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/flowdeck/internal/config"
	"github.com/JaimeStill/flowdeck/migrations"
	"github.com/JaimeStill/flowdeck/pkg/database"
	"github.com/JaimeStill/flowdeck/pkg/lifecycle"
	"github.com/JaimeStill/flowdeck/pkg/logging"
)

// Infrastructure holds the core systems required by all domain modules.
// Database is nil when the service runs with the memory store.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger := logging.New(&cfg.Logging)
	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
	}

	if cfg.Store == config.StorePostgres {
		db, err := database.New(&cfg.Database, migrations.FS, logger)
		if err != nil {
			return nil, fmt.Errorf("database init failed: %w", err)
		}
		infra.Database = db
	} else {
		logger.Warn("memory store selected; workflows are not persisted")
	}

	return infra, nil
}

// Start initializes all infrastructure systems and registers them with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Database == nil {
		return nil
	}
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	return nil
}
