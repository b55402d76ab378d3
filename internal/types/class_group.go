package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassGroup struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SchoolName string         `gorm:"column:school_name;not null" json:"school_name"`
	Grade      string         `gorm:"column:grade;not null" json:"grade"`
	Section    string         `gorm:"column:section;not null;default:''" json:"section"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ClassGroup) TableName() string { return "class_group" }
