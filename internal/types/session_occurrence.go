package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OccurrenceState string

const (
	// StatePending is never stored; a slot with no occurrence row for a
	// date is pending by definition.
	StatePending   OccurrenceState = "pending"
	StateConducted OccurrenceState = "conducted"
	StateHoliday   OccurrenceState = "holiday"
	StateCancelled OccurrenceState = "cancelled"
)

func (s OccurrenceState) Terminal() bool {
	return s == StateConducted || s == StateCancelled
}

// Cancellation reason codes form a closed set. Human-readable labels live
// in the presentation layer.
const (
	ReasonTeacherUnavailable = "teacher_unavailable"
	ReasonSchoolClosed       = "school_closed"
	ReasonEmergency          = "emergency"
	ReasonOther              = "other"
)

var cancellationReasons = map[string]struct{}{
	ReasonTeacherUnavailable: {},
	ReasonSchoolClosed:       {},
	ReasonEmergency:          {},
	ReasonOther:              {},
}

func ValidCancellationReason(code string) bool {
	_, ok := cancellationReasons[code]
	return ok
}

type SessionOccurrence struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SlotID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_slot_date,unique" json:"slot_id"`
	Slot          *SessionSlot    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SlotID;references:ID" json:"slot,omitempty"`
	ClassGroupID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"class_group_id"`
	Date          time.Time       `gorm:"type:date;not null;index:idx_slot_date,unique" json:"date"`
	FacilitatorID *uuid.UUID      `gorm:"type:uuid;index" json:"facilitator_id,omitempty"`
	State         OccurrenceState `gorm:"column:state;not null" json:"state"`

	CancellationReason *string        `gorm:"column:cancellation_reason" json:"cancellation_reason,omitempty"`
	RescheduleAllowed  bool           `gorm:"column:reschedule_allowed;not null;default:false" json:"reschedule_allowed"`
	Remarks            *string        `gorm:"column:remarks" json:"remarks,omitempty"`
	DurationMinutes    *int           `gorm:"column:duration_minutes" json:"duration_minutes,omitempty"`
	Metadata           datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SessionOccurrence) TableName() string { return "session_occurrence" }
