package handler

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/middleware"
	"github.com/xxxsen/greenhabit/internal/pkg/errcode"
	"github.com/xxxsen/greenhabit/internal/pkg/response"
)

const metricsPath = "/metrics"

type RouterDeps struct {
	Auth          *AuthHandler
	Habits        *HabitHandler
	Summary       *SummaryHandler
	Health        *HealthHandler
	Authenticator middleware.TokenAuthenticator

	// Metrics is optional; /metrics is only served when it is set.
	Metrics        *metrics.Prometheus
	CORSAllowlist  []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.CORS(deps.CORSAllowlist))
	// promhttp negotiates its own compression.
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))
	router.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, errcode.NotFound, "route not found")
	})

	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Healthz)
	}
	if deps.Metrics != nil {
		router.GET(metricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	limit := middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst)
	router.POST("/signup", limit, deps.Auth.Signup)
	router.POST("/login", limit, deps.Auth.Login)

	authGroup := router.Group("")
	authGroup.Use(middleware.JWTAuth(deps.Authenticator))
	authGroup.POST("/habits", deps.Habits.Create)
	authGroup.GET("/habits", deps.Habits.List)
	authGroup.POST("/track", deps.Habits.Track)
	authGroup.GET("/summary", deps.Summary.Summary)

	return router
}
