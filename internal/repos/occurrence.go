package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type OccurrenceRepo interface {
	GetBySlotAndDate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error)
	// GetBySlotAndDateForUpdate takes a row lock so a concurrent state
	// transition against the same (slot, date) pair serializes.
	GetBySlotAndDateForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error)
	GetByClassGroupAndDate(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, date time.Time) (*types.SessionOccurrence, error)
	// GetLatestBySlotForUpdate locks the slot's newest occurrence across
	// all dates; the state machine derives its from state here so a
	// terminal slot stays terminal on later dates.
	GetLatestBySlotForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID) (*types.SessionOccurrence, error)
	GetLatestByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (*types.SessionOccurrence, error)
	ListByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionOccurrence, error)
	ExistsForFacilitator(ctx context.Context, tx *gorm.DB, classGroupID, facilitatorID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.SessionOccurrence) error
}

type occurrenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOccurrenceRepo(db *gorm.DB, baseLog *logger.Logger) OccurrenceRepo {
	repoLog := baseLog.With("repo", "OccurrenceRepo")
	return &occurrenceRepo{db: db, log: repoLog}
}

func (r *occurrenceRepo) GetBySlotAndDate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	return r.getBySlotAndDate(ctx, tx, slotID, date, false)
}

func (r *occurrenceRepo) GetBySlotAndDateForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	return r.getBySlotAndDate(ctx, tx, slotID, date, true)
}

func (r *occurrenceRepo) getBySlotAndDate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID, date time.Time, lock bool) (*types.SessionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("slot_id = ? AND date = ?", slotID, date)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var result types.SessionOccurrence
	err := q.First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *occurrenceRepo) GetByClassGroupAndDate(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, date time.Time) (*types.SessionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SessionOccurrence
	err := transaction.WithContext(ctx).
		Where("class_group_id = ? AND date = ?", classGroupID, date).
		Order("updated_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *occurrenceRepo) GetLatestBySlotForUpdate(ctx context.Context, tx *gorm.DB, slotID uuid.UUID) (*types.SessionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SessionOccurrence
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("slot_id = ?", slotID).
		Order("date DESC, updated_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *occurrenceRepo) GetLatestByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (*types.SessionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SessionOccurrence
	err := transaction.WithContext(ctx).
		Where("class_group_id = ?", classGroupID).
		Order("date DESC, updated_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *occurrenceRepo) ListByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionOccurrence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SessionOccurrence
	if classGroupID == uuid.Nil {
		return results, nil
	}

	// Ascending by date so a fold over the list leaves the newest
	// occurrence per slot in place.
	if err := transaction.WithContext(ctx).
		Where("class_group_id = ?", classGroupID).
		Order("date ASC, updated_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *occurrenceRepo) ExistsForFacilitator(ctx context.Context, tx *gorm.DB, classGroupID, facilitatorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SessionOccurrence{}).
		Where("class_group_id = ? AND facilitator_id = ?", classGroupID, facilitatorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *occurrenceRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.SessionOccurrence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	// Optimistic upsert on the natural (slot_id, date) uniqueness; a
	// same-day correction overwrites, a new date inserts.
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slot_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"facilitator_id", "state", "cancellation_reason",
				"reschedule_allowed", "remarks", "duration_minutes",
				"metadata", "updated_at",
			}),
		}).
		Create(row).Error
}
