package api

import (
	"net/http"
	"places-autocomplete/internal/api/handlers"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/platform/validator"
	"places-autocomplete/internal/services"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	StaticDir       string
	CORSOrigins     []string
	FetchRatePerSec float64
	FetchBurst      int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig, sessions *services.SessionService, log *logger.Logger) http.Handler {
	binding.Validator = validator.NewBinding()

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(log))

	if len(cfg.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:  []string{"Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	sessionHandler := &handlers.SessionHandler{Sessions: sessions, Log: log}
	selectionHandler := &handlers.SelectionHandler{Sessions: sessions, Log: log}

	limit := rate.Limit(cfg.FetchRatePerSec)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.FetchBurst
	if burst < 1 {
		burst = 1
	}
	fetchLimiter := newIPRateLimiter(limit, burst, log)

	engine.GET("/health", handlers.Health)

	v1 := engine.Group("/api/v1")
	{
		s := v1.Group("/sessions")
		s.POST("", sessionHandler.Create)
		s.GET("/:id", sessionHandler.Get)
		s.DELETE("/:id", sessionHandler.Delete)
		s.PUT("/:id/input", sessionHandler.UpdateInput)
		s.POST("/:id/suggestions", fetchLimiter.middleware(), sessionHandler.FetchSuggestions)
		s.DELETE("/:id/suggestions", sessionHandler.ClearSuggestions)
		s.POST("/:id/selection", sessionHandler.Select)
		s.GET("/:id/coordinates", sessionHandler.Coordinates)

		v1.GET("/selections", selectionHandler.List)
	}

	if cfg.StaticDir != "" {
		engine.NoRoute(staticFallback(cfg.StaticDir))
	}

	return engine
}
