package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"ocr-backend/internal/images"
	"ocr-backend/internal/ocr"
	"ocr-backend/internal/queue"
	"ocr-backend/internal/settings"
	"ocr-backend/internal/shared/config"
	"ocr-backend/internal/shared/server"
	"ocr-backend/internal/shared/storage/db"
	"ocr-backend/internal/shared/storage/object"
	localstore "ocr-backend/internal/shared/storage/object/local"
	s3store "ocr-backend/internal/shared/storage/object/s3"
	"ocr-backend/internal/shared/telemetry"
	"ocr-backend/internal/web"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *db.DB
	Store           object.ObjectStore
	Queue           queue.Client
	Engine          ocr.Engine
	Settings        *settings.Store
	ImagesRepo      images.Repo
	ImagesService   *images.Service
	ImagesHandler   *images.Handler
	SettingsHandler *settings.Handler
	WebHandler      *web.Handler
}

// Options overrides pieces of the default wiring.
type Options struct {
	// Engine replaces the Tesseract engine, mainly for tests.
	Engine ocr.Engine
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(cfg, Options{})
}

// BuildWithOptions is Build with overrides.
func BuildWithOptions(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.UploadDir) == "" {
		cfg.UploadDir = "uploads"
	}
	telemetry.Configure(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	conn, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := NewObjectStore(ctx, cfg)
	if err != nil {
		closeDB(conn)
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		closeDB(conn)
		return nil, err
	}

	engine := opts.Engine
	if engine == nil {
		engine = ocr.NewTesseractEngine(cfg.TessdataPrefix)
	}

	app := &App{
		Config:   cfg,
		DB:       conn,
		Store:    store,
		Queue:    queueClient,
		Engine:   engine,
		Settings: settings.NewStore(settings.Resolve(cfg.OCRPSM, cfg.OCROEM, cfg.OCRLang)),
	}
	buildServices(app)

	deps := server.RouterDeps{
		Config:          app.Config,
		ImagesHandler:   app.ImagesHandler,
		SettingsHandler: app.SettingsHandler,
		WebHandler:      app.WebHandler,
	}
	if app.DB != nil {
		deps.DB = app.DB
	}
	app.Router = server.NewRouter(deps)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          cfg.Env,
		"object_store": cfg.ObjectStoreType,
		"database":     describeDB(app.DB),
		"settings":     app.Settings.Get().String(),
		"events":       app.Queue != nil,
	})
	return app, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.ImagesRepo = images.NewSQLRepo(app.DB)
	} else {
		app.ImagesRepo = images.NewMemoryRepo()
	}
	app.ImagesService = &images.Service{
		Store:    app.Store,
		Repo:     app.ImagesRepo,
		Engine:   app.Engine,
		Settings: app.Settings,
		Events:   app.Queue,
	}
	app.ImagesHandler = images.NewHandler(app.ImagesService, app.Config.MaxUploadBytes)
	app.SettingsHandler = settings.NewHandler(app.Settings)
	app.WebHandler = web.NewHandler(app.Settings)
}

var connectDB = db.Connect

// buildDB connects and migrates. Dev-like environments fall back to memory
// when the database is missing or unreachable.
func buildDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	conn, err := connectDB(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		if err = db.RunMigrations(ctx, conn); err != nil {
			_ = conn.Close()
			conn = nil
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db_memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

// NewObjectStore opens the file store selected by OBJECT_STORE.
func NewObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.UploadEventsURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.UploadEventsURL)
}

func closeDB(conn *db.DB) {
	if conn != nil {
		_ = conn.Close()
	}
}

func describeDB(conn *db.DB) string {
	if conn == nil {
		return "memory"
	}
	return string(conn.Dialect)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
