package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/petparadise/petparadise-api/internal/users"
	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/enums"
	pkgerrors "github.com/petparadise/petparadise-api/pkg/errors"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/security"
)

// EnsureAdmin seeds the first admin account. It is a no-op when any admin
// already exists, so it is safe to run on every start.
func EnsureAdmin(ctx context.Context, repo users.Repository, adminCfg config.AdminConfig, passwordCfg config.PasswordConfig, logg *logger.Logger) (bool, error) {
	if repo == nil {
		return false, pkgerrors.New(pkgerrors.CodeInternal, "user repository required")
	}

	exists, err := repo.AdminExists(ctx)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeStore, err, "check admin")
	}
	if exists {
		return false, nil
	}

	email := users.NormalizeEmail(adminCfg.Email)
	if email == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "admin email is required")
	}
	if adminCfg.Password == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "admin password is required")
	}
	name := strings.TrimSpace(adminCfg.Name)
	if name == "" {
		name = "Admin"
	}

	hash, err := security.HashPassword(adminCfg.Password, passwordCfg)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := repo.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return false, pkgerrors.New(pkgerrors.CodeConflict, "admin email belongs to an existing non-admin user")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeStore, err, "create admin")
	}

	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"user_id": user.ID.String(),
			"email":   user.Email,
		}), "admin.bootstrapped")
	}
	return true, nil
}
