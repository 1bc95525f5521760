package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/tasktracker/internal/actorctx"
	"github.com/geocoder89/tasktracker/internal/auth"
	"github.com/geocoder89/tasktracker/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// TokenCookieName is shared with the login handler that sets it.
const TokenCookieName = "token"

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type FailureRecorder interface {
	IncAuthFailure(reason string)
}

type AuthMiddleware struct {
	jwt     TokenVerifier
	users   UserLookup
	metrics FailureRecorder
}

func NewAuthMiddleware(jwt TokenVerifier, users UserLookup, metrics FailureRecorder) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users, metrics: metrics}
}

// RequireAuth resolves the caller from the token cookie or a bearer header
// (cookie first) and stores the identity on both the gin and request contexts.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			m.reject(c, http.StatusUnauthorized, "unauthenticated", "Authentication required")
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil {
			m.reject(c, http.StatusUnauthorized, "invalid_token", "Invalid token")
			return
		}

		cctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		u, err := m.users.GetByID(cctx, claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				m.reject(c, http.StatusUnauthorized, "user_not_found", "User not found")
				return
			}

			slog.Default().ErrorContext(c.Request.Context(), "auth user lookup failed", "err", err, "request_id", requestID(c))
			abortWithError(c, http.StatusInternalServerError, "internal_error", "Server error")
			return
		}

		id := actorctx.Identity{
			UserID:   u.ID,
			Email:    u.Email,
			FullName: u.FullName,
		}

		c.Set(ctxIdentityKey, id)
		c.Request = c.Request.WithContext(actorctx.WithIdentity(c.Request.Context(), id))

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, status int, code, message string) {
	if m.metrics != nil {
		m.metrics.IncAuthFailure(code)
	}
	abortWithError(c, status, code, message)
}

func tokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(TokenCookieName); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}

	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// Optional helpers so handlers don’t need to know the magic keys.

func IdentityFromContext(c *gin.Context) (actorctx.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if ok {
		if id, ok := v.(actorctx.Identity); ok && id.UserID != "" {
			return id, true
		}
	}
	return actorctx.IdentityFrom(c.Request.Context())
}

func UserIDFromContext(c *gin.Context) (string, bool) {
	id, ok := IdentityFromContext(c)
	return id.UserID, ok
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": requestID(c),
		},
	})
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(CtxRequestID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return c.GetHeader(requestIDHeader)
}
