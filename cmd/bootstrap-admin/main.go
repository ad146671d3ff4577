package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/petparadise/petparadise-api/internal/auth"
	"github.com/petparadise/petparadise-api/internal/backend"
	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/logger"
)

// bootstrap-admin seeds the first admin account. Running it again once any
// admin exists is a no-op.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "bootstrap-admin"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "bootstrap-admin",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := backend.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "store", err)
	defer store.Close()

	created, err := auth.EnsureAdmin(ctx, store.Users, cfg.Admin, cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "admin bootstrap failed", err)
		store.Close()
		os.Exit(1)
	}
	if created {
		fmt.Println("admin account created:", cfg.Admin.Email)
		return
	}
	fmt.Println("an admin account already exists; nothing to do")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
