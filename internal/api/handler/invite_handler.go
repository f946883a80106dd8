package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// InviteHandler serves the session-invite endpoints.
type InviteHandler struct {
	inviteSvc service.InviteService
}

// NewInviteHandler creates the InviteHandler.
func NewInviteHandler(inviteSvc service.InviteService) *InviteHandler {
	return &InviteHandler{inviteSvc: inviteSvc}
}

// Create issues an invite for one of the caller's sessions.
// POST /api/v1/sessions/:id/invites
func (h *InviteHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.inviteSvc.Create(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 14001, "session not found")
		case errors.Is(err, service.ErrSessionTooSoon):
			response.BadRequest(c, 15002, "session starts too soon to invite")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Get backs the public invite page. No auth; rate-limited at the router.
// GET /api/v1/invites/:token
func (h *InviteHandler) Get(c *gin.Context) {
	result, err := h.inviteSvc.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			response.NotFound(c, 15001, "invite not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Accept claims the invite for the caller. already_used and expired are
// domain states carried in a 200 body, not errors.
// POST /api/v1/invites/:token/accept
func (h *InviteHandler) Accept(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.inviteSvc.Accept(c.Request.Context(), userID, c.Param("token"))
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			response.NotFound(c, 15001, "invite not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
