package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
	"github.com/RushabhBarot/CityFix/internal/security"
)

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret:  "access-secret",
			JWTRefreshSecret: "refresh-secret",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    24 * time.Hour,
		},
	}
}

func newTestAuthService() (*AuthService, *memUserStore) {
	users := newMemUserStore()
	auth := NewAuthService(users, &memFileStore{}, testAppConfig(), zerolog.Nop())
	return auth, users
}

func department(d models.Department) *models.Department { return &d }

func TestRegisterCitizen(t *testing.T) {
	auth, _ := newTestAuthService()

	tokens, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)
	assert.True(t, tokens.User.Active, "citizens start active")

	claims, err := security.ParseAccessToken(tokens.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, []string{"USER"}, claims.Roles)

	subject, err := security.ParseRefreshToken(tokens.RefreshToken, "refresh-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestRegisterWorkerStartsInactive(t *testing.T) {
	auth, users := newTestAuthService()

	tokens, err := auth.Register(context.Background(), RegisterInput{
		Name:       "Wade",
		Email:      "wade@example.com",
		Password:   "password-123",
		Role:       models.RoleWorker,
		Department: department(models.DepartmentRoadMaintenance),
	})
	require.NoError(t, err)
	assert.False(t, tokens.User.Active, "workers await admin approval")

	stored, err := users.FindByEmail(context.Background(), "wade@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.Department)
	assert.Equal(t, models.DepartmentRoadMaintenance, *stored.Department)
}

func TestRegisterWorkerRequiresDepartment(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Wade",
		Email:    "wade@example.com",
		Password: "password-123",
		Role:     models.RoleWorker,
	})
	assert.ErrorIs(t, err, ErrDepartmentRequired)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	auth, _ := newTestAuthService()

	input := RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	}
	_, err := auth.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), input)
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLoginVerifiesStoredRecord(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	tokens, err := auth.Login(context.Background(), "alice@example.com", "password-123")
	require.NoError(t, err)

	claims, err := security.ParseAccessToken(tokens.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, tokens.User.Email, claims.Subject)
	assert.Equal(t, []string{string(tokens.User.Role)}, claims.Roles)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	// Unknown account and wrong password must produce the same error so
	// responses cannot be used to probe which emails exist.
	_, unknownErr := auth.Login(context.Background(), "nobody@example.com", "password-123")
	_, wrongErr := auth.Login(context.Background(), "alice@example.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongErr)
}

func TestRefreshIssuesAccessTokenAndEchoesRefreshToken(t *testing.T) {
	auth, _ := newTestAuthService()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)

	// No rotation: the same refresh token comes back.
	assert.Equal(t, registered.RefreshToken, refreshed.RefreshToken)

	claims, err := security.ParseAccessToken(refreshed.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
}

func TestRefreshPicksUpCurrentRole(t *testing.T) {
	auth, users := newTestAuthService()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	// Promote the user after the refresh token was issued. The refresh
	// token holds no role claim, so the next refresh reflects the change.
	users.mu.Lock()
	user := users.users[registered.User.ID]
	user.Role = models.RoleAdmin
	users.users[registered.User.ID] = user
	users.mu.Unlock()

	refreshed, err := auth.Refresh(context.Background(), registered.RefreshToken)
	require.NoError(t, err)

	claims, err := security.ParseAccessToken(refreshed.AccessToken, "access-secret")
	require.NoError(t, err)
	assert.Equal(t, []string{"ADMIN"}, claims.Roles)
}

func TestRefreshSucceedsForDeactivatedUser(t *testing.T) {
	// Active-ness is not re-checked at refresh; only existence is. A
	// deactivated account keeps refreshing until the token expires.
	auth, users := newTestAuthService()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	require.NoError(t, users.SetActive(context.Background(), registered.User.ID, false))

	_, err = auth.Refresh(context.Background(), registered.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshFailsForDeletedUser(t *testing.T) {
	auth, users := newTestAuthService()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	users.mu.Lock()
	delete(users.users, registered.User.ID)
	users.mu.Unlock()

	_, err = auth.Refresh(context.Background(), registered.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	auth, _ := newTestAuthService()

	registered, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)
	_ = registered

	expired, err := security.GenerateRefreshToken("refresh-secret", "alice@example.com", -time.Hour)
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), expired)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	auth, _ := newTestAuthService()

	_, err := auth.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password-123",
		Role:     models.RoleCitizen,
	})
	require.NoError(t, err)

	forged, err := security.GenerateRefreshToken("attacker-secret", "alice@example.com", time.Hour)
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), forged)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
