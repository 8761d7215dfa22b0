// Package http provides the file endpoints. Every handler takes the storage
// namespace from the authenticated session and never from the request.
package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/linkvault/internal/auth/domain"
	authHttp "github.com/allisson/linkvault/internal/auth/http"
	"github.com/allisson/linkvault/internal/httputil"
	storageDomain "github.com/allisson/linkvault/internal/storage/domain"
	"github.com/allisson/linkvault/internal/storage/http/dto"
	storageUseCase "github.com/allisson/linkvault/internal/storage/usecase"
	customValidation "github.com/allisson/linkvault/internal/validation"
)

// multipartOverhead is the room left for multipart headers and the other form
// fields on top of the upload size limit.
const multipartOverhead = 64 << 10

// FileHandler serves the per-subject file endpoints.
type FileHandler struct {
	fileUseCase    storageUseCase.FileUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewFileHandler creates a FileHandler. maxUploadBytes <= 0 leaves the request
// body unbounded; the use case still applies its own limit.
func NewFileHandler(
	fileUseCase storageUseCase.FileUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *FileHandler {
	return &FileHandler{
		fileUseCase:    fileUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadHandler stores the multipart "file" part under the optional "dir".
// POST /v1/files/upload - Requires SessionMiddleware.
// Returns 201 Created with the stored entry.
func (h *FileHandler) UploadHandler(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httputil.HandleErrorGin(c, storageDomain.ErrFileTooLarge, h.logger)
			return
		}
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req := dto.UploadFileRequest{Dir: c.PostForm("dir"), FileName: fileHeader.Filename}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		httputil.HandleErrorGin(c, storageDomain.ErrFileTooLarge, h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	entry, err := h.fileUseCase.Upload(c.Request.Context(), subject, &storageDomain.Upload{
		Dir:      req.Dir,
		FileName: req.FileName,
		Content:  content,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFileToResponse(entry))
}

// ListHandler lists a directory of the caller's namespace.
// GET /v1/files/list?dir=&offset=0&limit=100 - Requires SessionMiddleware.
func (h *FileHandler) ListHandler(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}

	var req dto.ListFilesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.fileUseCase.List(c.Request.Context(), subject, req.Dir)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFilesToListResponse(req.Dir, page(entries, offset, limit)))
}

// DownloadHandler streams a file of the caller's namespace as an attachment.
// GET /v1/files/download?path= - Requires SessionMiddleware.
func (h *FileHandler) DownloadHandler(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}

	req, ok := h.bindPath(c)
	if !ok {
		return
	}

	entry, content, err := h.fileUseCase.Download(c.Request.Context(), subject, req.Path)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": entry.Name}))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// DeleteHandler removes a file of the caller's namespace.
// DELETE /v1/files/delete?path= - Requires SessionMiddleware.
// Returns 204 No Content.
func (h *FileHandler) DeleteHandler(c *gin.Context) {
	subject, ok := h.subject(c)
	if !ok {
		return
	}

	req, ok := h.bindPath(c)
	if !ok {
		return
	}

	if err := h.fileUseCase.Delete(c.Request.Context(), subject, req.Path); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *FileHandler) subject(c *gin.Context) (string, bool) {
	subject, ok := authHttp.GetSubject(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrUnauthenticated, h.logger)
		return "", false
	}
	return subject, true
}

func (h *FileHandler) bindPath(c *gin.Context) (dto.FilePathRequest, bool) {
	var req dto.FilePathRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return req, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return req, false
	}
	return req, true
}

// page returns entries[offset:offset+limit], clamped to the slice bounds.
func page(entries []storageDomain.FileEntry, offset, limit int) []storageDomain.FileEntry {
	if offset >= len(entries) {
		return nil
	}
	end := min(offset+limit, len(entries))
	return entries[offset:end]
}
