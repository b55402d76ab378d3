package app

import (
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
)

type Repos struct {
	User          repos.UserRepo
	ClassGroup    repos.ClassGroupRepo
	SessionSlot   repos.SessionSlotRepo
	Occurrence    repos.OccurrenceRepo
	CurriculumDay repos.CurriculumDayRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		ClassGroup:    repos.NewClassGroupRepo(db, log),
		SessionSlot:   repos.NewSessionSlotRepo(db, log),
		Occurrence:    repos.NewOccurrenceRepo(db, log),
		CurriculumDay: repos.NewCurriculumDayRepo(db, log),
	}
}
