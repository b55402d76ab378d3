package app

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	ClassGroup services.ClassGroupService
	Sequence   services.SequenceService
	Status     services.StatusService
	Seeder     services.SeederService
	Continuity services.ContinuityService
	Content    services.ContentService
	Curriculum services.CurriculumService
	Clock      services.Clock
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Services{}, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	clock := services.NewClock(loc)

	static, err := services.NewStaticContentSource(log, cfg.StaticContentManifest)
	if err != nil {
		return Services{}, fmt.Errorf("init static content source: %w", err)
	}

	authService := services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	sequenceService := services.NewSequenceService(db, log, reposet.SessionSlot, reposet.Occurrence, clock, cfg.TotalSessions)
	statusService := services.NewStatusService(db, log, reposet.SessionSlot, reposet.Occurrence, clock)
	seederService := services.NewSeederService(db, log, reposet.SessionSlot, cfg.TotalSessions)
	continuityService := services.NewContinuityService(db, log, reposet.SessionSlot, reposet.Occurrence, sequenceService, cfg.TotalSessions)
	contentService := services.NewContentService(db, log, reposet.CurriculumDay, static, clients.Cache, clock)
	curriculumService := services.NewCurriculumService(db, log, reposet.CurriculumDay, contentService)
	classGroupService := services.NewClassGroupService(db, log, reposet.ClassGroup, reposet.SessionSlot, cfg.TotalSessions)

	return Services{
		Auth:       authService,
		ClassGroup: classGroupService,
		Sequence:   sequenceService,
		Status:     statusService,
		Seeder:     seederService,
		Continuity: continuityService,
		Content:    contentService,
		Curriculum: curriculumService,
		Clock:      clock,
	}, nil
}
