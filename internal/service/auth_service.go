package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/ids"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/repository"
	"github.com/RushabhBarot/CityFix/internal/security"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login responses cannot be used to enumerate accounts.
	// It also covers every refresh-token failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDepartmentRequired = errors.New("department required for worker registration")
)

type AuthService struct {
	users UserStore
	files FileStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users UserStore, files FileStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		files: files,
		cfg:   cfg,
		log:   log,
	}
}

type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Role         models.UserRole
	MobileNumber string
	Department   *models.Department
	Avatar       *Photo
	IDCard       *Photo
}

// SessionTokens is what every successful auth operation hands back.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

// Register creates the account and opens a session. Workers must name a
// department and start inactive until an admin approves them; citizens and
// admins are active immediately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (SessionTokens, error) {
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return SessionTokens{}, repository.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return SessionTokens{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		MobileNumber: input.MobileNumber,
		Active:       true,
	}

	if input.Role == models.RoleWorker {
		if input.Department == nil {
			return SessionTokens{}, ErrDepartmentRequired
		}
		user.Department = input.Department
		user.Active = false
	}

	if input.Avatar != nil {
		url, err := uploadPhoto(ctx, s.files, "avatars", *input.Avatar)
		if err != nil {
			return SessionTokens{}, err
		}
		user.AvatarURL = &url
	}
	if input.Role == models.RoleWorker && input.IDCard != nil {
		url, err := uploadPhoto(ctx, s.files, "id-cards", *input.IDCard)
		if err != nil {
			return SessionTokens{}, err
		}
		user.IDCardURL = &url
	}

	if err := s.users.Create(ctx, user); err != nil {
		return SessionTokens{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return s.issueTokens(user)
}

// Login verifies the password and opens a fresh session carrying the user's
// current role.
func (s *AuthService) Login(ctx context.Context, email string, password string) (SessionTokens, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return SessionTokens{}, ErrInvalidCredentials
		}
		return SessionTokens{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return SessionTokens{}, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// Refresh exchanges a refresh token for a new access token. The subject is
// read before verification so the user record, and with it the current
// role, is loaded fresh: a worker approved since the refresh token was
// issued gets WORKER claims on the very next refresh. The refresh token is
// returned unchanged; rotation is intentionally not performed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (SessionTokens, error) {
	subject, err := security.Subject(refreshToken)
	if err != nil {
		return SessionTokens{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return SessionTokens{}, ErrInvalidCredentials
		}
		return SessionTokens{}, err
	}

	verifiedSubject, err := security.ParseRefreshToken(refreshToken, s.cfg.Security.JWTRefreshSecret)
	if err != nil || verifiedSubject != user.Email {
		return SessionTokens{}, ErrInvalidCredentials
	}

	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.Email,
		[]string{string(user.Role)},
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("issue access token: %w", err)
	}

	return SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) issueTokens(user models.User) (SessionTokens, error) {
	accessToken, err := security.GenerateAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.Email,
		[]string{string(user.Role)},
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := security.GenerateRefreshToken(
		s.cfg.Security.JWTRefreshSecret,
		user.Email,
		s.cfg.Security.JWTRefreshTTL,
	)
	if err != nil {
		return SessionTokens{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
