package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ocr-backend/internal/images"
	"ocr-backend/internal/settings"
	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/metrics"
	"ocr-backend/internal/shared/server/middleware"
	"ocr-backend/internal/shared/server/respond"
	"ocr-backend/internal/web"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps holds handler dependencies for the router.
type RouterDeps struct {
	Config          config.Config
	ImagesHandler   *images.Handler
	SettingsHandler *settings.Handler
	WebHandler      *web.Handler
	// DB is optional; nil means records live in memory.
	DB Pinger
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", metrics.Handler())

	if deps.WebHandler != nil {
		deps.WebHandler.RegisterRoutes(r)
	}
	if deps.ImagesHandler != nil {
		limiter := middleware.NewRateLimiter(nil)
		rule := middleware.RateLimitRule{
			Rate:  deps.Config.UploadRatePerSec,
			Burst: deps.Config.UploadRateBurst,
		}
		deps.ImagesHandler.RegisterRoutes(r, middleware.RateLimit(rule, limiter))
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.RegisterRoutes(r)
	}

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"ok": true, "database": "memory"}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "unavailable", "database unreachable", nil)
				return
			}
			status["database"] = "ok"
		}
		respond.OK(c, status)
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
