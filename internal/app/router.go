package app

import (
	"github.com/gin-gonic/gin"

	"github.com/udaanlabs/pathshala-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		ClassGroupHandler: handlers.ClassGroup,
		SessionHandler:    handlers.Session,
		ContinuityHandler: handlers.Continuity,
		ContentHandler:    handlers.Content,
		CurriculumHandler: handlers.Curriculum,
		TracingEnabled:    cfg.OtelEnabled,
	})
}
