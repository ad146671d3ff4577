// Package backend opens the configured store and hands out the repositories
// for it. Postgres and SQLite share the GORM repositories; Mongo has its own.
package backend

import (
	"context"
	"fmt"

	"github.com/petparadise/petparadise-api/internal/cart"
	"github.com/petparadise/petparadise-api/internal/pets"
	"github.com/petparadise/petparadise-api/internal/users"
	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/db"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/migrate"
	pkgmongo "github.com/petparadise/petparadise-api/pkg/mongo"
)

type pingCloser interface {
	Ping(ctx context.Context) error
	Close() error
}

// Backend bundles the repositories of one store.
type Backend struct {
	Driver string
	Users  users.Repository
	Pets   pets.Repository
	Carts  cart.Repository

	conn pingCloser
}

// Open connects to the store named by cfg.Store.Driver and prepares its schema:
// migrations for the SQL drivers, indexes for Mongo.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	driver := cfg.Store.NormalizedDriver()
	if cfg.Store.IsMongo() {
		client, err := pkgmongo.New(ctx, cfg.Store, logg)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ensuring mongo indexes: %w", err)
		}
		return &Backend{
			Driver: driver,
			Users:  users.NewMongoRepository(client),
			Pets:   pets.NewMongoRepository(client),
			Carts:  cart.NewMongoRepository(client),
			conn:   client,
		}, nil
	}

	client, err := db.New(ctx, cfg.Store, logg)
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return FromGorm(client), nil
}

// FromGorm wraps an already open relational client.
func FromGorm(client *db.Client) *Backend {
	conn := client.DB()
	return &Backend{
		Driver: client.Driver(),
		Users:  users.NewRepository(conn),
		Pets:   pets.NewRepository(conn),
		Carts:  cart.NewRepository(conn),
		conn:   client,
	}
}

// Ping checks the underlying connection; it backs the readiness check.
func (b *Backend) Ping(ctx context.Context) error {
	return b.conn.Ping(ctx)
}

func (b *Backend) Close() error {
	return b.conn.Close()
}
