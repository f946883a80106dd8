package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/service"
	"skoolife/backend/pkg/response"
	"skoolife/backend/pkg/storage"
)

// FileHandler serves the study-file endpoints.
type FileHandler struct {
	fileSvc service.FileService
}

// NewFileHandler creates the FileHandler.
func NewFileHandler(fileSvc service.FileService) *FileHandler {
	return &FileHandler{fileSvc: fileSvc}
}

// Upload stores a file from a multipart form. Optional form field "folder"
// files it under an implicit folder.
// POST /api/v1/files
func (h *FileHandler) Upload(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "missing file field")
		return
	}
	var folder *string
	if v := c.PostForm("folder"); v != "" {
		folder = &v
	}

	src, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := h.fileSvc.Upload(c.Request.Context(), userID, fh.Filename, contentType, fh.Size, src, folder)
	if err != nil {
		if errors.Is(err, service.ErrFileTooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 16002, "file exceeds the upload size limit")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List returns files in a folder; no ?folder= means the root.
// GET /api/v1/files
func (h *FileHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.FileListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}
	var folder *string
	if req.Folder != "" {
		folder = &req.Folder
	}

	result, err := h.fileSvc.List(c.Request.Context(), userID, folder)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// ListFolders returns the caller's implicit folders.
// GET /api/v1/files/folders
func (h *FileHandler) ListFolders(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	result, err := h.fileSvc.ListFolders(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// RenameFolder renames an implicit folder across all its files.
// PUT /api/v1/files/folders/:name
func (h *FileHandler) RenameFolder(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	if err := h.fileSvc.RenameFolder(c.Request.Context(), userID, c.Param("name"), req.NewName); err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			response.NotFound(c, 16003, "folder not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Delete removes a file row and its stored object.
// DELETE /api/v1/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	if err := h.fileSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			response.NotFound(c, 16001, "file not found")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Download streams a file through a signed URL. No JWT: the signature in the
// query string is the credential.
// GET /api/v1/files/:id/download?exp=&sig=
func (h *FileHandler) Download(c *gin.Context) {
	exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	rc, file, err := h.fileSvc.Download(c.Request.Context(), c.Param("id"), exp, c.Query("sig"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrSignatureExpired):
			response.Error(c, http.StatusForbidden, 16004, "download link expired")
		case errors.Is(err, storage.ErrSignatureInvalid):
			response.Error(c, http.StatusForbidden, 16005, "download link invalid")
		case errors.Is(err, service.ErrFileNotFound), errors.Is(err, storage.ErrObjectNotFound):
			response.NotFound(c, 16001, "file not found")
		default:
			response.InternalError(c)
		}
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.DataFromReader(http.StatusOK, file.FileSize, file.FileType, rc, nil)
}
