package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) routes(limiter *rateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(
		requestIDMiddleware(),
		s.loggingMiddleware(),
		s.metricsMiddleware(),
		s.recoveryMiddleware(),
	)

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.GET("/openapi.yaml", handleOpenAPI)

	authGroup := r.Group("/auth")
	if limiter != nil {
		authGroup.Use(s.rateLimitMiddleware(limiter))
	}
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)

	api := r.Group("/api", s.authMiddleware())
	api.GET("/products", s.handleProducts)
	api.POST("/transactions", s.handleCreateTransaction)
	api.GET("/history", s.handleHistory)
	api.GET("/report", s.handleReport)

	r.NoRoute(func(c *gin.Context) {
		abortWithMessage(c, http.StatusNotFound, "route not found")
	})

	return r
}
