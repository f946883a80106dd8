package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// SessionHandler serves the revision session and planner endpoints.
type SessionHandler struct {
	sessionSvc service.SessionService
	plannerSvc service.PlannerService
}

// NewSessionHandler creates the SessionHandler.
func NewSessionHandler(sessionSvc service.SessionService, plannerSvc service.PlannerService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc, plannerSvc: plannerSvc}
}

// Create plans a revision session.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.sessionSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			response.NotFound(c, 12001, "subject not found")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13002, "end must be after start")
		default:
			response.InternalError(c)
		}
		return
	}
	response.Created(c, result)
}

// Get returns one session.
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.sessionSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, 14001, "session not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List returns sessions filtered by ?subject_id=&from=&to=.
// GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.sessionSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update reschedules a session.
// PUT /api/v1/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.sessionSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, 14001, "session not found")
		case errors.Is(err, service.ErrSubjectNotFound):
			response.NotFound(c, 12001, "subject not found")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13002, "end must be after start")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// UpdateStatus marks a session planned, done or skipped.
// PUT /api/v1/sessions/:id/status
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.sessionSvc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, 14001, "session not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Delete removes a session.
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.sessionSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.NotFound(c, 14001, "session not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// GeneratePlan regenerates the revision plan.
// POST /api/v1/planner/generate
func (h *SessionHandler) GeneratePlan(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.plannerSvc.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveSubjects):
			response.BadRequest(c, 14002, "no active subjects to plan for")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13002, "end must be after start")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}
