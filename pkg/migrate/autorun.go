package migrate

import (
	"context"
	"fmt"

	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/db/models"
	"github.com/petparadise/petparadise-api/pkg/logger"
)

// MaybeRun prepares the relational schema at startup. SQLite databases are
// always synced from the GORM models; postgres runs goose only in dev with
// auto-migrate enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	switch client.Driver() {
	case config.StoreDriverSQLite:
		ctx = logg.WithField(ctx, "driver", client.Driver())
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("sqlite automigrate: %w", err)
		}
		logg.Info(ctx, "sqlite schema synced")
		return nil

	case config.StoreDriverPostgres:
		if !cfg.App.IsDev() || !cfg.Store.AutoMigrate {
			return nil
		}
		sqlDB, err := client.SQL()
		if err != nil {
			return fmt.Errorf("extracting sql.DB: %w", err)
		}

		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": embeddedDir})
		logg.Info(ctx, "running Goose migrations (dev auto-run)")

		if err := Run(ctx, sqlDB, "up"); err != nil {
			return fmt.Errorf("running goose up: %w", err)
		}

		logg.Info(ctx, "Goose migrations completed")
		return nil
	}
	return nil
}
