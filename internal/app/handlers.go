package app

import (
	"github.com/udaanlabs/pathshala-backend/internal/handlers"
	"github.com/udaanlabs/pathshala-backend/internal/logger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	ClassGroup *handlers.ClassGroupHandler
	Session    *handlers.SessionHandler
	Continuity *handlers.ContinuityHandler
	Content    *handlers.ContentHandler
	Curriculum *handlers.CurriculumHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:       handlers.NewAuthHandler(services.Auth),
		ClassGroup: handlers.NewClassGroupHandler(services.ClassGroup, services.Sequence, services.Seeder),
		Session:    handlers.NewSessionHandler(services.Status, services.Sequence),
		Continuity: handlers.NewContinuityHandler(services.Continuity),
		Content:    handlers.NewContentHandler(services.Content),
		Curriculum: handlers.NewCurriculumHandler(services.Curriculum),
	}
}
