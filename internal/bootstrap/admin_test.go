package bootstrap

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
	"github.com/RushabhBarot/CityFix/internal/security"
)

type fakeUserStore struct {
	byEmail map[string]models.User
	creates int
	// When set, the next Create fails with this error.
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	s.byEmail[user.Email] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func adminConfig() config.AdminConfig {
	return config.AdminConfig{
		Name:     "CityFix Admin",
		Email:    "admin@cityfix.com",
		Password: "Admin@123",
	}
}

func TestEnsureAdminCreatesAccount(t *testing.T) {
	store := newFakeUserStore()
	cfg := adminConfig()

	require.NoError(t, EnsureAdmin(context.Background(), store, cfg, zerolog.Nop()))

	admin, err := store.FindByEmail(context.Background(), cfg.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.Active)
	assert.NotEmpty(t, admin.ID)
	ok, err := security.VerifyPassword(cfg.Password, admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	store := newFakeUserStore()
	cfg := adminConfig()

	require.NoError(t, EnsureAdmin(context.Background(), store, cfg, zerolog.Nop()))
	require.NoError(t, EnsureAdmin(context.Background(), store, cfg, zerolog.Nop()))

	assert.Equal(t, 1, store.creates, "second run must not attempt a create")
}

func TestEnsureAdminToleratesCreateRace(t *testing.T) {
	store := newFakeUserStore()
	store.createErr = repository.ErrEmailTaken

	// Empty store, so the lookup misses, but the create conflicts as if
	// another replica won the race. That is a success.
	assert.NoError(t, EnsureAdmin(context.Background(), store, adminConfig(), zerolog.Nop()))
}
