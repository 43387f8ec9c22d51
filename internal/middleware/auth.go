package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/quizgate/config"
	"github.com/lshigami/quizgate/internal/dto"
	"github.com/rs/zerolog/log"
)

const adminIDKey = "adminID"

// AdminClaims is what the identity provider puts in an admin token.
type AdminClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type AdminAuth struct {
	secret   []byte
	disabled bool
}

// NewAdminAuth builds the admin gate. Without JWT_SECRET the gate is open in
// debug mode and closed otherwise.
func NewAdminAuth(cfg *config.Config) *AdminAuth {
	if cfg.Auth.JWTSecret == "" {
		if cfg.Server.GinMode == gin.DebugMode {
			log.Warn().Msg("JWT_SECRET is not set. Admin routes are unauthenticated in debug mode.")
			return &AdminAuth{disabled: true}
		}
		log.Error().Msg("JWT_SECRET is not set. Admin routes will reject every request.")
	}
	return &AdminAuth{secret: []byte(cfg.Auth.JWTSecret)}
}

// SignAdminToken issues an HS256 token. Used by tests and local tooling.
func SignAdminToken(secret []byte, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (a *AdminAuth) parse(raw string) (*AdminClaims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("no signing secret configured")
	}
	claims := &AdminClaims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	if claims.Role != "" && claims.Role != "admin" {
		return nil, errors.New("not an admin token")
	}
	return claims, nil
}

// RequireAdmin rejects requests without a valid bearer token and stores the
// admin id on the gin context.
func (a *AdminAuth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.disabled {
			c.Set(adminIDKey, "dev-admin")
			c.Next()
			return
		}
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "missing bearer token"})
			return
		}
		claims, err := a.parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("Rejected admin token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "invalid token"})
			return
		}
		c.Set(adminIDKey, claims.Subject)
		c.Next()
	}
}

func AdminID(c *gin.Context) (string, bool) {
	v, ok := c.Get(adminIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
