package api

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/timmy/captionrelay/internal/api/handler"
	"github.com/timmy/captionrelay/internal/api/middleware"
	"github.com/timmy/captionrelay/internal/config"
	"github.com/timmy/captionrelay/internal/metrics"
	"github.com/timmy/captionrelay/internal/storage"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Media handler.MediaService
	// Uploads serves GET /api/v1/uploads; the route is not registered when nil.
	Uploads handler.UploadLister
	Metrics *metrics.Recorder
	// Gatherer backs the metrics endpoint; it is not registered when nil.
	Gatherer prometheus.Gatherer
}

// SetupRouter configures the Gin router with all routes.
// Parameters:
//   - cfg: loaded configuration.
//   - deps: services and instrumentation.
//
// Returns:
//   - *gin.Engine: configured router.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	if cfg.Server.MultipartMemoryMB > 0 {
		r.MaxMultipartMemory = cfg.Server.MultipartMemoryMB << 20
	}

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler()
	mediaHandler := handler.NewMediaHandler(deps.Media)

	r.GET("/up", healthHandler.Health)
	r.GET("/health", healthHandler.Health)

	r.POST("/upload", mediaHandler.Upload)
	r.POST("/generate_new_caption", mediaHandler.GenerateNewCaption)

	r.Static(strings.TrimSuffix(storage.NormalizeURLPrefix(cfg.Storage.URLPrefix), "/"), cfg.Storage.Dir)

	if cfg.Metrics.Enabled && deps.Gatherer != nil {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	if deps.Uploads != nil {
		v1 := r.Group("/api/v1")
		{
			v1.GET("/uploads", handler.NewUploadsHandler(deps.Uploads).ListUploads)
		}
	}

	return r
}
