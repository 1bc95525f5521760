package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/tasktracker/internal/config"
	"github.com/geocoder89/tasktracker/internal/domain/user"
	"github.com/geocoder89/tasktracker/internal/http/middlewares"
	"github.com/geocoder89/tasktracker/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, fullname, email, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID, email, fullname string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        TokenIssuer
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager TokenIssuer, cfg config.Config) *AuthHandler {
	RegisterValidators()

	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type RegisterRequest struct {
	FullName string `json:"fullname" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email,max=254"`
	// bcrypt rejects anything past 72 bytes
	Password string `json:"password" binding:"required,maxbytes=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)

	if req.FullName == "" || req.Email == "" {
		RespondBadRequest(ctx, codeMissingFields, "Please enter all the details")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "hash password failed", err)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)

	defer cancel()

	u, err := h.userWriter.Create(cctx, req.FullName, req.Email, hash)

	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			RespondBadRequest(ctx, "duplicate_user", "User already exists")
			return
		}

		RespondInternal(ctx, "create user failed", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User successfully created",
		"user":    u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondBadRequest(ctx, "user_not_found", "User not found")
			return
		}

		RespondInternal(ctx, "login lookup failed", err)
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			RespondBadRequest(ctx, "wrong_password", "Wrong password")
			return
		}

		RespondInternal(ctx, "password check failed", err)
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Email, foundUser.FullName)

	if err != nil {
		RespondInternal(ctx, "sign token failed", err)
		return
	}

	h.setTokenCookie(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"token":   token,
		"user":    foundUser,
	})
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearTokenCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User logged out successfully",
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthenticated", "Authentication required")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       id.UserID,
			"email":    id.Email,
			"fullname": id.FullName,
		},
	})
}

// Helper functions

func (h *AuthHandler) setTokenCookie(ctx *gin.Context, raw string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.TokenCookieName,
		raw,
		int(h.cfg.CookieTTL.Seconds()),
		"/",
		"",
		h.cfg.IsProd(),
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearTokenCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.TokenCookieName,
		"",
		-1,
		"/",
		"",
		h.cfg.IsProd(),
		true,
	)
}
