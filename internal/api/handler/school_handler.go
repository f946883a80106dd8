package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
)

// SchoolHandler serves the B2B portal endpoints.
type SchoolHandler struct {
	schoolSvc service.SchoolService
	exportSvc service.ExportService
}

// NewSchoolHandler creates the SchoolHandler.
func NewSchoolHandler(schoolSvc service.SchoolService, exportSvc service.ExportService) *SchoolHandler {
	return &SchoolHandler{schoolSvc: schoolSvc, exportSvc: exportSvc}
}

// Create creates a school; the caller becomes its admin.
// POST /api/v1/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.schoolSvc.CreateSchool(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Get returns a school the caller belongs to.
// GET /api/v1/schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.schoolSvc.GetSchool(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateCohort adds a cohort.
// POST /api/v1/schools/:id/cohorts
func (h *SchoolHandler) CreateCohort(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.schoolSvc.CreateCohort(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.Created(c, result)
}

// ListCohorts lists a school's cohorts.
// GET /api/v1/schools/:id/cohorts
func (h *SchoolHandler) ListCohorts(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.schoolSvc.ListCohorts(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// CreateClass adds a class under a cohort.
// POST /api/v1/schools/:id/classes
func (h *SchoolHandler) CreateClass(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.schoolSvc.CreateClass(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.Created(c, result)
}

// ListClasses lists a school's classes.
// GET /api/v1/schools/:id/classes
func (h *SchoolHandler) ListClasses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.schoolSvc.ListClasses(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMembers returns the paginated member roster.
// GET /api/v1/schools/:id/members
func (h *SchoolHandler) ListMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	members, total, err := h.schoolSvc.ListMembers(c.Request.Context(), userID, c.Param("id"), &page)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OKPage(c, members, total, page.GetPage(), page.GetPageSize())
}

// RemoveMember unenrolls a member.
// DELETE /api/v1/schools/:id/members/:member_id
func (h *SchoolHandler) RemoveMember(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.schoolSvc.RemoveMember(c.Request.Context(), userID, c.Param("id"), c.Param("member_id")); err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, nil)
}

// CreateAccessCode issues an enrollment code.
// POST /api/v1/schools/:id/access-codes
func (h *SchoolHandler) CreateAccessCode(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.schoolSvc.CreateAccessCode(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.Created(c, result)
}

// RedeemAccessCode joins the caller to a school through a code.
// POST /api/v1/schools/access-codes/redeem
func (h *SchoolHandler) RedeemAccessCode(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RedeemAccessCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.schoolSvc.RedeemAccessCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccessCodeInvalid):
			response.BadRequest(c, 18003, "access code invalid")
		case errors.Is(err, service.ErrAlreadyMember):
			response.Conflict(c, 18004, "already a member of this school")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ImportMembers enrolls members from an uploaded email list
// (.csv/.txt/.xlsx/.xls).
// POST /api/v1/schools/:id/members/import
func (h *SchoolHandler) ImportMembers(c *gin.Context) {
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

	result, err := h.schoolSvc.ImportMembers(c.Request.Context(), userID, c.Param("id"), fh.Filename, src)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// Analytics returns per-school usage metrics.
// GET /api/v1/schools/:id/analytics
func (h *SchoolHandler) Analytics(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.schoolSvc.Analytics(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, result)
}

// AnalyticsExport downloads the usage metrics as an Excel workbook.
// GET /api/v1/schools/:id/analytics/export
func (h *SchoolHandler) AnalyticsExport(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	schoolID := c.Param("id")

	analytics, err := h.schoolSvc.Analytics(c.Request.Context(), userID, schoolID)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	school, err := h.schoolSvc.GetSchool(c.Request.Context(), userID, schoolID)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.AnalyticsXLSX(school.Name, analytics)
	if err != nil {
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Disposition", `attachment; filename*=UTF-8''`+encodedFilename)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

func (h *SchoolHandler) handleSchoolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 18001, "school not found")
	case errors.Is(err, service.ErrNotSchoolAdmin):
		response.Forbidden(c, 18002, "school admin required")
	default:
		response.InternalError(c)
	}
}
