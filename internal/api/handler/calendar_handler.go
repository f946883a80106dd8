package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/editflow"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// CalendarHandler serves the calendar event endpoints.
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler creates the CalendarHandler.
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// Create creates a standalone event.
// POST /api/v1/events
func (h *CalendarHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.calendarSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			response.BadRequest(c, 13002, "end must be after start")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// CreateRecurring creates a weekly series.
// POST /api/v1/events/recurring
func (h *CalendarHandler) CreateRecurring(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.calendarSvc.CreateRecurring(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			response.BadRequest(c, 13002, "end must be after start")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List returns events, optionally bounded by ?from=&to= dates.
// GET /api/v1/events
func (h *CalendarHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.calendarSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update edits one occurrence or an entire series.
// A recurring occurrence without an explicit scope gets 409 with the
// scope-required code; the client then re-submits with scope chosen.
// PUT /api/v1/events/:id
func (h *CalendarHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.calendarSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 13001, "event not found")
		case errors.Is(err, service.ErrInvalidTimeRange):
			response.BadRequest(c, 13002, "end must be after start")
		case errors.Is(err, editflow.ErrScopeRequired):
			response.Conflict(c, 13003, "recurring occurrence: choose scope single or series")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Delete removes one occurrence or an entire series, by ?scope=.
// DELETE /api/v1/events/:id
func (h *CalendarHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.DeleteEventRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.calendarSvc.Delete(c.Request.Context(), userID, c.Param("id"), req.Scope)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 13001, "event not found")
		case errors.Is(err, editflow.ErrScopeRequired):
			response.Conflict(c, 13003, "recurring occurrence: choose scope single or series")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}
