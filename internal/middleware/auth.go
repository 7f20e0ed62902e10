package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RushabhBarot/CityFix/internal/config"
	"github.com/RushabhBarot/CityFix/internal/models"
	"github.com/RushabhBarot/CityFix/internal/security"
)

const claimsContextKey = "access_claims"

// Authenticate verifies the Bearer access token and stashes its claims in
// the request context. Role comes entirely from the token; the guard never
// touches the database. A claim carrying an unknown role value is treated
// the same as an invalid token, never downgraded to some default role.
func Authenticate(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTAccessSecret)
		if err != nil {
			code := "invalid_token"
			if err == security.ErrTokenExpired {
				code = "token_expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
			return
		}

		for _, role := range claims.Roles {
			if _, ok := models.ParseRole(role); !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown_role"})
				return
			}
		}

		c.Set(claimsContextKey, *claims)
		c.Next()
	}
}

// RequireRoles allows the request only when the token's role claim contains
// one of the given roles. A wrong role on a valid token is 403; a missing
// claim set means Authenticate never ran and is 401.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[string(role)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		for _, role := range claims.Roles {
			if _, allowed := roleSet[role]; allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// ClaimsFrom returns the verified access claims set by Authenticate.
func ClaimsFrom(c *gin.Context) (security.AccessClaims, bool) {
	val, exists := c.Get(claimsContextKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := val.(security.AccessClaims)
	return claims, ok
}
