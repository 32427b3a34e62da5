package router

import (
	"github.com/gin-gonic/gin"

	"remitex/internal/handler"
	"remitex/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	parseH *handler.ParseHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")

	parse := v1.Group("/parse")
	parse.POST("", parseH.Parse)
	parse.POST("/summary", parseH.Summary)
	parse.POST("/export", parseH.Export)

	return r
}
