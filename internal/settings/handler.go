package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ocr-backend/internal/shared/server/respond"
	"ocr-backend/internal/shared/telemetry"
)

// Handler exposes the settings store over HTTP.
type Handler struct {
	Store *Store
}

// NewHandler constructs a Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches settings routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/settings", h.get)
	rg.PUT("/settings", h.update)
}

func (h *Handler) get(c *gin.Context) {
	respond.OK(c, h.Store.Get())
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_settings", "invalid settings body", nil)
		return
	}

	updated := h.Store.Update(patch)
	telemetry.Info("settings.updated", map[string]any{
		"request_id": c.GetString("requestId"),
		"psm":        updated.PSM,
		"oem":        updated.OEM,
		"lang":       updated.Lang,
		"noop":       patch.Empty(),
	})
	respond.OK(c, updated)
}
