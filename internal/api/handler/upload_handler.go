package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/utkandevrim/ac/internal/service"
	"github.com/utkandevrim/ac/pkg/response"
	"github.com/utkandevrim/ac/pkg/storage"
)

// UploadHandler standalone image uploads.
type UploadHandler struct {
	uploadSvc service.UploadService
}

// NewUploadHandler creates an UploadHandler.
func NewUploadHandler(uploadSvc service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Upload stores the multipart "file" and returns its public URL (admin).
// POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	f, name, ok := openFormFile(c)
	if !ok {
		return
	}
	defer f.Close()

	result, err := h.uploadSvc.Upload(c.Request.Context(), name, f, caller)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, result)
}

// openFormFile opens the "file" part. On failure the response is written.
func openFormFile(c *gin.Context) (multipart.File, string, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			bindError(c, err)
		} else {
			handleError(c, storage.ErrNoFile)
		}
		return nil, "", false
	}

	f, err := fh.Open()
	if err != nil {
		handleError(c, err)
		return nil, "", false
	}
	return f, fh.Filename, true
}
