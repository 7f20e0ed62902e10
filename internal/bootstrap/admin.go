package bootstrap

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/ids"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
	"github.com/RushabhBarot/CityFix/internal/security"
)

// UserStore is the slice of the user repository the bootstrap needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// EnsureAdmin reconciles the default admin account before the service takes
// traffic. It is idempotent: the check-then-create races safely against
// other replicas because the store's unique email index is the authority.
func EnsureAdmin(ctx context.Context, users UserStore, cfg config.AdminConfig, log zerolog.Logger) error {
	_, err := users.FindByEmail(ctx, cfg.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:           ids.New(),
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		Active:       true,
	}

	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// Another replica created it first.
			return nil
		}
		return err
	}

	log.Info().Str("email", cfg.Email).Msg("default admin created")
	return nil
}
