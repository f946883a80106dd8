package handler

import (
	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// SubscriptionHandler serves the subscription endpoints.
type SubscriptionHandler struct {
	subscriptionSvc service.SubscriptionService
}

// NewSubscriptionHandler creates the SubscriptionHandler.
func NewSubscriptionHandler(subscriptionSvc service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionSvc: subscriptionSvc}
}

// Status reports the caller's subscription, served from the per-user cache
// when fresh.
// GET /api/v1/subscription
func (h *SubscriptionHandler) Status(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.subscriptionSvc.Status(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Portal returns the customer portal redirect and invalidates the cached
// status, since the user may change their plan there.
// POST /api/v1/subscription/portal
func (h *SubscriptionHandler) Portal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.subscriptionSvc.PortalURL(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	if err := h.subscriptionSvc.Invalidate(c.Request.Context(), userID); err != nil {
		// stale cache self-heals at TTL; not worth failing the redirect
		_ = err
	}
	response.OK(c, result)
}
