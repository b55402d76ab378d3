package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CurriculumStatus string

const (
	CurriculumDraft     CurriculumStatus = "draft"
	CurriculumPublished CurriculumStatus = "published"
	CurriculumArchived  CurriculumStatus = "archived"
)

// CurriculumDay is the centrally authored content for one (day, language)
// pair. The static fallback dataset covers days with no published row.
type CurriculumDay struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DayNumber int              `gorm:"column:day_number;not null;index:idx_day_language,unique" json:"day_number"`
	Language  string           `gorm:"column:language;not null;index:idx_day_language,unique" json:"language"`
	Status    CurriculumStatus `gorm:"column:status;not null;default:'draft'" json:"status"`

	Title   string         `gorm:"column:title;not null;default:''" json:"title"`
	Summary string         `gorm:"column:summary;not null;default:''" json:"summary"`
	Blocks  datatypes.JSON `gorm:"type:jsonb;column:blocks" json:"blocks,omitempty"`

	ActiveForFacilitators bool `gorm:"column:active_for_facilitators;not null;default:true" json:"active_for_facilitators"`
	ForceFallback         bool `gorm:"column:force_fallback;not null;default:false" json:"force_fallback"`
	UsageCount            int  `gorm:"column:usage_count;not null;default:0" json:"usage_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CurriculumDay) TableName() string { return "curriculum_day" }
