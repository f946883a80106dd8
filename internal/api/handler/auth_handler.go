package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler creates the AuthHandler.
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register creates an account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 11002, "email already registered")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Login authenticates a user.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, 11001, "invalid email or password")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// RefreshToken exchanges a refresh token for a new pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), &req)
	if err != nil {
		response.Unauthorized(c, 11003, "refresh token invalid or expired")
		return
	}
	response.OK(c, result)
}

// Logout revokes the current access token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Me returns the caller's profile.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11004, "user not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ChangePassword rotates the caller's password.
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.BadRequest(c, 11005, "current password does not match")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
