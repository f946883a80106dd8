package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// PomodoroHandler serves the pomodoro endpoints.
type PomodoroHandler struct {
	pomodoroSvc service.PomodoroService
}

// NewPomodoroHandler creates the PomodoroHandler.
func NewPomodoroHandler(pomodoroSvc service.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{pomodoroSvc: pomodoroSvc}
}

// Record stores a completed focus run.
// POST /api/v1/pomodoro/runs
func (h *PomodoroHandler) Record(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RecordPomodoroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.pomodoroSvc.Record(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotFound) {
			response.NotFound(c, 12001, "subject not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Stats aggregates focus time over a window.
// GET /api/v1/pomodoro/stats
func (h *PomodoroHandler) Stats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.PomodoroStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.pomodoroSvc.Stats(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
