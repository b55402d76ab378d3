package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTotalSessions is the length of the fixed curriculum sequence a
// class group is seeded with.
const DefaultTotalSessions = 150

type SessionSlot struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClassGroupID uuid.UUID      `gorm:"type:uuid;not null;index:idx_class_ordinal,unique,where:is_active" json:"class_group_id"`
	ClassGroup   *ClassGroup    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClassGroupID;references:ID" json:"class_group,omitempty"`
	Ordinal      int            `gorm:"column:ordinal;not null;index:idx_class_ordinal,unique,where:is_active" json:"ordinal"`
	// Position mirrors Ordinal for display ordering. Legacy imports let the
	// two drift apart, so integrity checks treat a mismatch as a warning.
	Position    int            `gorm:"column:position;not null;default:0" json:"position"`
	Title       *string        `gorm:"column:title" json:"title,omitempty"`
	Description *string        `gorm:"column:description" json:"description,omitempty"`
	GroupKey    *string        `gorm:"column:group_key;index" json:"group_key,omitempty"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SessionSlot) TableName() string { return "session_slot" }
