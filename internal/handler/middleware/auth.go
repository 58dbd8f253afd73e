package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"cabin-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxActorKey = "actor"
	roleAdmin   = "admin"
)

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware guards the operator surface. Guests never authenticate;
// their endpoints are rate limited instead.
type AuthMiddleware struct {
	jwtSecret   []byte
	sweepSecret string
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:   []byte(cfg.Auth.JWTSecret),
		sweepSecret: cfg.Sweeper.Secret,
	}
}

// RequireAdmin accepts a bearer token signed with the shared secret whose
// role claim is admin. The token subject is recorded as the acting operator
// for the audit trail.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimSpace(authHeader[len("Bearer "):])

		claims := &adminClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			slog.Warn("admin token rejected", "error", errString(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}
		if claims.Role != roleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Set(ctxActorKey, claims.Subject)
		c.Next()
	}
}

// RequireSweepSecret guards the internal sweep trigger with a static header
// secret, compared in constant time.
func (m *AuthMiddleware) RequireSweepSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Sweep-Secret")
		if m.sweepSecret == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(m.sweepSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid sweep secret"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated operator identity, if any.
func GetActor(c *gin.Context) string {
	if actor, exists := c.Get(ctxActorKey); exists {
		if s, ok := actor.(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

func errString(err error) string {
	if err == nil {
		return "token invalid"
	}
	return err.Error()
}
