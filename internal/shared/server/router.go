package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creditreport-backend/internal/reports"
	"creditreport-backend/internal/shared/config"
	"creditreport-backend/internal/shared/metrics"
	"creditreport-backend/internal/shared/server/middleware"
	"creditreport-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config  config.Config
	Reports *reports.Handler
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
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor:     rateLimitGroup,
			Rules: map[string]middleware.RateLimitRule{
				// Processing fans out to OCR and three model calls; keep it slow.
				"PROCESS": {Rate: 0.5, Burst: 3},
				"DEFAULT": {Rate: 5, Burst: 20},
			},
		}),
	)

	// Function-style route matching the original deployment.
	if deps.Reports != nil {
		r.POST("/process-credit-report", deps.Reports.Process)
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.Reports != nil {
		deps.Reports.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost {
		switch c.FullPath() {
		case "/process-credit-report", "/api/v1/credit-reports/process":
			return "PROCESS"
		}
	}
	return "DEFAULT"
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
