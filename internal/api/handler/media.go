package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/captionrelay/internal/domain"
	"github.com/timmy/captionrelay/internal/service"
)

// MediaService is the part of service.MediaService the media handler uses.
type MediaService interface {
	Upload(ctx context.Context, r io.Reader, originalName string) (*service.UploadResult, error)
	Recaption(ctx context.Context, imageURL string) (string, error)
}

// MediaHandler handles upload and recaption endpoints.
type MediaHandler struct {
	media MediaService
}

// NewMediaHandler creates a new media handler.
// Parameters:
//   - media: upload and recaption pipelines.
//
// Returns:
//   - *MediaHandler: initialized handler.
func NewMediaHandler(media MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

// RecaptionRequest is the body of POST /generate_new_caption.
type RecaptionRequest struct {
	ImageURL string `json:"image_url" form:"image_url"`
}

// Upload handles POST /upload.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *MediaHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(service.CaptionFileField)
	if err != nil {
		respondError(c, domain.NewValidationError("handler.upload", service.MsgNoFileUploaded), MsgUploadFailed)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, domain.NewError(domain.KindIO, "handler.upload", err), MsgUploadFailed)
		return
	}
	defer file.Close()

	result, err := h.media.Upload(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		respondError(c, err, MsgUploadFailed)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateNewCaption handles POST /generate_new_caption. image_url is read
// from a JSON or form body, then from the query string.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *MediaHandler) GenerateNewCaption(c *gin.Context) {
	var req RecaptionRequest
	if c.Request.ContentLength != 0 {
		_ = c.ShouldBind(&req)
	}
	if req.ImageURL == "" {
		req.ImageURL = c.Query("image_url")
	}

	caption, err := h.media.Recaption(c.Request.Context(), req.ImageURL)
	if err != nil {
		respondError(c, err, MsgRecaptionFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"caption": caption})
}
