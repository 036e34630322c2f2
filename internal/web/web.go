// Package web serves the landing page.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"ocr-backend/internal/settings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Handler renders the landing page with the current OCR settings.
type Handler struct {
	Settings *settings.Store
}

// NewHandler constructs a Handler.
func NewHandler(store *settings.Store) *Handler {
	return &Handler{Settings: store}
}

// RegisterRoutes installs the templates on r and serves GET /.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())
	r.GET("/", h.index)
}

func (h *Handler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Settings": h.Settings.Get(),
	})
}
