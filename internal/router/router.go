package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/prawko/practice-backend/internal/config"
	"github.com/prawko/practice-backend/internal/handler"
	"github.com/prawko/practice-backend/internal/middleware"
	"github.com/prawko/practice-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Practice *handler.PracticeHandler
	Review   *handler.ReviewHandler
}

// SetupRouter configures the Gin engine: CORS, request IDs, compression,
// static media and the API routes.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally (the history payload grows large).
	router.Use(middleware.Brotli())

	// Serve prepared question media statically with aggressive caching (1 year):
	// the files are content-stable, they only change when the workbook does.
	mediaGroup := router.Group("/media")
	mediaGroup.Use(middleware.CacheControl(31536000))
	{
		mediaGroup.Static("/", cfg.MediaDir)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for mutating routes (answer submissions dominate; a full
	// paper is 32 of them, so the budget is generous).
	writeLimiter := middleware.NewRateLimiter(120, time.Minute)

	api := router.Group("/api/v1")
	{
		api.GET("/active-session", handlers.Practice.GetActiveExam)
		api.GET("/exams/:id", handlers.Review.GetExam)
		api.GET("/exams/:id/questions/:index", handlers.Review.GetQuestion)
		api.GET("/history", handlers.Review.GetHistory)
		api.GET("/stats", handlers.Review.GetStats)

		writes := api.Group("")
		writes.Use(writeLimiter.Middleware())
		{
			writes.POST("/exams", handlers.Practice.StartExam)
			writes.POST("/exams/:id/answers", handlers.Practice.SubmitAnswer)
			writes.POST("/exams/:id/finalize", handlers.Practice.FinalizeExam)
			writes.POST("/exams/:id/redo", handlers.Practice.RedoExam)
		}
	}

	return router
}
