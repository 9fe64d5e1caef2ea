package handler

import (
	"github.com/gin-gonic/gin"

	"animehub/internal/logger"
	"animehub/internal/microservices/http-api/middleware"
)

// NewRouter wires the public API: /health plus the /api/v1 aggregate and search routes.
func NewRouter(svc AggregateService, log *logger.Logger) *gin.Engine {
	if log == nil {
		log = logger.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	r.GET("/health", Health)
	v1 := r.Group("/api/v1")
	NewAggregateHandler(svc).RegisterRoutes(v1)
	return r
}
