package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/udaanlabs/pathshala-backend/internal/handlers"
	"github.com/udaanlabs/pathshala-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler       *handlers.AuthHandler
	AuthMiddleware    *middleware.AuthMiddleware
	ClassGroupHandler *handlers.ClassGroupHandler
	SessionHandler    *handlers.SessionHandler
	ContinuityHandler *handlers.ContinuityHandler
	ContentHandler    *handlers.ContentHandler
	CurriculumHandler *handlers.CurriculumHandler
	TracingEnabled    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("pathshala-backend"))
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Class groups and their session sequences
	api.POST("/class-groups", cfg.ClassGroupHandler.Create)
	api.GET("/class-groups", cfg.ClassGroupHandler.List)
	api.POST("/class-groups/generate-all", cfg.ClassGroupHandler.GenerateAll)
	api.GET("/class-groups/:id", cfg.ClassGroupHandler.Get)
	api.PATCH("/class-groups/:id/active", cfg.ClassGroupHandler.SetActive)
	api.GET("/class-groups/:id/progress", cfg.ClassGroupHandler.Progress)
	api.GET("/class-groups/:id/integrity", cfg.ClassGroupHandler.Integrity)
	api.POST("/class-groups/:id/repair", cfg.ClassGroupHandler.Repair)
	api.POST("/class-groups/:id/generate", cfg.ClassGroupHandler.Generate)
	api.GET("/class-groups/:id/next-session", cfg.SessionHandler.NextPending)

	// Continuity
	api.GET("/class-groups/:id/next-session-for/:facilitatorID", cfg.ContinuityHandler.NextSessionFor)
	api.POST("/class-groups/:id/assign", cfg.ContinuityHandler.Assign)
	api.GET("/class-groups/:id/timeline", cfg.ContinuityHandler.Timeline)

	// Session occurrences
	api.POST("/sessions/:slotID/conduct", cfg.SessionHandler.Conduct)
	api.POST("/sessions/:slotID/holiday", cfg.SessionHandler.MarkHoliday)
	api.POST("/sessions/:slotID/cancel", cfg.SessionHandler.Cancel)

	// Content resolution
	api.GET("/content/:language/:day", cfg.ContentHandler.Resolve)
	api.POST("/content/invalidate", cfg.ContentHandler.Invalidate)

	// Curriculum authoring
	api.POST("/curriculum/days", cfg.CurriculumHandler.Create)
	api.GET("/curriculum/days", cfg.CurriculumHandler.ListByLanguage)
	api.GET("/curriculum/days/:id", cfg.CurriculumHandler.Get)
	api.PUT("/curriculum/days/:id", cfg.CurriculumHandler.Update)
	api.POST("/curriculum/days/:id/status", cfg.CurriculumHandler.SetStatus)

	return router
}
