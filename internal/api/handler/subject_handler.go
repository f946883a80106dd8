package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	pkgerrors "skoolife/backend/pkg/errors"
	"skoolife/backend/pkg/response"
)

// SubjectHandler serves the subject endpoints.
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler creates the SubjectHandler.
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// Create creates a subject.
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.subjectSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Get returns one subject.
// GET /api/v1/subjects/:id
func (h *SubjectHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.subjectSvc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			response.NotFound(c, 12001, "subject not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// List returns the caller's subjects; ?status=active,archived filters.
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var statuses []string
	if raw := c.Query("status"); raw != "" {
		statuses = strings.Split(raw, ",")
	}
	result, err := h.subjectSvc.List(c.Request.Context(), userID, statuses)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update patches a subject; the write is version-guarded.
// PUT /api/v1/subjects/:id
func (h *SubjectHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.subjectSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubjectNotFound):
			response.NotFound(c, 12001, "subject not found")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Conflict(c, 12002, "subject was modified concurrently, reload and retry")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// UpdateStatus archives, terminates or reactivates a subject.
// PUT /api/v1/subjects/:id/status
func (h *SubjectHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateSubjectStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.subjectSvc.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.Status); err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			response.NotFound(c, 12001, "subject not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Delete removes a subject and its revision sessions.
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.subjectSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			response.NotFound(c, 12001, "subject not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
