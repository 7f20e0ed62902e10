package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures, distinguished so callers can report an
// expired session differently from a garbled or forged one.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)

// AccessClaims is the claim set of a short-lived access token. Roles ride
// inside the token so route guards never touch the database.
type AccessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the subject. Role is deliberately absent: it is
// re-resolved from the user store at refresh time, so a worker approval or
// role change takes effect on the next refresh without reissuing tokens.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken signs subject and roles into an HS512 JWT valid for ttl.
func GenerateAccessToken(secret string, subject string, roles []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// GenerateRefreshToken signs a long-lived token holding only the subject.
func GenerateRefreshToken(secret string, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken verifies signature and expiry and returns the claims.
func ParseAccessToken(tokenStr string, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns its subject.
func ParseRefreshToken(tokenStr string, secret string) (string, error) {
	claims := &RefreshClaims{}
	if err := parseInto(tokenStr, secret, claims); err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func parseInto(tokenStr string, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrTokenSignature
		default:
			return ErrTokenMalformed
		}
	}
	if !token.Valid {
		return ErrTokenMalformed
	}
	return nil
}

// Subject extracts the subject claim without verifying the token. It is used
// to look up the current user record before a refresh token is verified.
func Subject(tokenStr string) (string, error) {
	claims := &RefreshClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return "", ErrTokenMalformed
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
