package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/timmy/captionrelay/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// UploadLister lists stored file records.
type UploadLister interface {
	ListUploads(ctx context.Context, limit, offset int) ([]domain.StoredFile, int64, error)
}

// UploadsHandler serves the stored file catalog.
type UploadsHandler struct {
	lister UploadLister
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(lister UploadLister) *UploadsHandler {
	return &UploadsHandler{lister: lister}
}

// ListUploadsResponse is the body of GET /api/v1/uploads.
type ListUploadsResponse struct {
	Results []domain.StoredFile `json:"results"`
	Total   int64               `json:"total"`
	Limit   int                 `json:"limit"`
	Offset  int                 `json:"offset"`
}

// ListUploads handles GET /api/v1/uploads.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *UploadsHandler) ListUploads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	results, total, err := h.lister.ListUploads(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, MsgListFailed)
		return
	}
	if results == nil {
		results = []domain.StoredFile{}
	}

	c.JSON(http.StatusOK, ListUploadsResponse{
		Results: results,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	})
}
