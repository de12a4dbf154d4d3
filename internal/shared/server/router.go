package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/analyses"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

// RouterDeps lists the handlers mounted on the engine.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(r)
	}
	return r
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
