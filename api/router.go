package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// ServiceVersion is reported by /health.
const ServiceVersion = "3.0.0"

// RouterConfig collects the handlers; a nil handler leaves its routes unmounted.
type RouterConfig struct {
	Predict  *PredictHandler
	Patterns *PatternHandler
	UserData *UserDataHandler

	// MCP is mounted under /mcp/ when set.
	MCP http.Handler

	RateLimiter *RateLimiter
	Logger      *utils.Logger
}

// NewRouter 创建路由
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = utils.NewNopLogger()
	}

	r := gin.New()
	r.Use(Recovery(log))
	r.Use(RequestLogger(log))
	r.Use(CORS())

	r.GET("/health", Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := r.Group("/")
	limited.Use(RateLimit(cfg.RateLimiter, log))
	{
		if cfg.Predict != nil {
			limited.POST("/predict", cfg.Predict.Predict)
		}
		limited.POST("/parse-resume", ParseResume)

		if cfg.Patterns != nil {
			limited.POST("/api/patterns/upload", cfg.Patterns.Upload)
			limited.GET("/api/patterns/search", cfg.Patterns.Search)
			limited.GET("/api/patterns/stats", cfg.Patterns.Stats)
			limited.GET("/api/patterns/sync", cfg.Patterns.Sync)
		}

		if cfg.UserData != nil {
			limited.POST("/api/user-data/save", cfg.UserData.Save)
			limited.GET("/api/user-data/:email", cfg.UserData.Get)
		}

		if cfg.MCP != nil {
			limited.Any("/mcp/*path", gin.WrapH(cfg.MCP))
		}
	}

	return r
}

// Health GET /health - static service descriptor
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ai-service",
		"version": ServiceVersion,
		"endpoints": gin.H{
			"ai":       "/predict",
			"patterns": "/api/patterns/*",
			"users":    "/api/user-data/*",
			"resume":   "/parse-resume",
		},
	})
}
