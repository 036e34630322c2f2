package images

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ocr-backend/internal/imageproc"
	"ocr-backend/internal/shared/server/middleware"
	"ocr-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// MaxUploadBytes caps the request body of /upload; 0 means unlimited.
	MaxUploadBytes int64
	// UploadMiddleware runs before the upload handler, e.g. a rate limiter.
	UploadMiddleware []gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches upload, fetch and history routes. extra runs on
// the upload route after UploadMiddleware and applies to this registration only.
func (h *Handler) RegisterRoutes(rg gin.IRoutes, extra ...gin.HandlerFunc) {
	upload := make([]gin.HandlerFunc, 0, len(h.UploadMiddleware)+len(extra)+1)
	upload = append(upload, h.UploadMiddleware...)
	upload = append(upload, extra...)
	upload = append(upload, h.upload)
	rg.POST("/upload", upload...)
	rg.GET("/fetch/:id", h.fetch)
	rg.GET("/history", h.history)
}

func (h *Handler) upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds size limit", gin.H{"limit_bytes": tooLarge.Limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, "missing_file", ErrMissingFile.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "missing_file", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), middleware.RequestIDFromContext(c), file)
	if err != nil {
		switch {
		case errors.Is(err, imageproc.ErrInvalidImage):
			respond.Error(c, http.StatusBadRequest, "invalid_image", "file is not a decodable image", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process upload", nil)
		}
		return
	}

	c.Set("fileId", res.FileID)
	respond.OK(c, uploadResponse{Text: res.Text, FileID: res.FileID})
}

func (h *Handler) fetch(c *gin.Context) {
	id := c.Param("id")
	c.Set("fileId", id)

	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch record", nil)
		}
		return
	}

	respond.OK(c, toRecordResponse(rec))
}

func (h *Handler) history(c *gin.Context) {
	limit := HistoryLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > HistoryLimit {
		limit = HistoryLimit
	}

	recs, err := h.Svc.History(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list history", nil)
		return
	}

	respond.OK(c, toHistoryResponse(recs))
}
