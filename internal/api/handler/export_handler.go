package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// ExportHandler serves calendar export and timetable import.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates the ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// CalendarICS downloads the caller's calendar as iCalendar.
// GET /api/v1/export/calendar.ics
func (h *ExportHandler) CalendarICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.CalendarICS(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// ImportTimetable creates blocking events from an uploaded ICS feed.
// POST /api/v1/import/timetable
func (h *ExportHandler) ImportTimetable(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "missing file field")
		return
	}
	src, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	created, err := h.exportSvc.ImportTimetable(c.Request.Context(), userID, src)
	if err != nil {
		response.BadRequest(c, 20001, "could not parse timetable")
		return
	}
	response.OK(c, gin.H{"created": created})
}
