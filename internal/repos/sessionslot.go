package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type SessionSlotRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.SessionSlot) ([]*types.SessionSlot, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SessionSlot, error)
	GetActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionSlot, error)
	GetByClassGroupAndOrdinal(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, ordinal int) (*types.SessionSlot, error)
	CountActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (int64, error)
	DeactivateByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type sessionSlotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionSlotRepo(db *gorm.DB, baseLog *logger.Logger) SessionSlotRepo {
	repoLog := baseLog.With("repo", "SessionSlotRepo")
	return &sessionSlotRepo{db: db, log: repoLog}
}

func (r *sessionSlotRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.SessionSlot) ([]*types.SessionSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.SessionSlot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionSlotRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SessionSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SessionSlot
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sessionSlotRepo) GetActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) ([]*types.SessionSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.SessionSlot
	if classGroupID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("class_group_id = ? AND is_active = ?", classGroupID, true).
		Order("ordinal ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *sessionSlotRepo) GetByClassGroupAndOrdinal(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID, ordinal int) (*types.SessionSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.SessionSlot
	err := transaction.WithContext(ctx).
		Where("class_group_id = ? AND ordinal = ? AND is_active = ?", classGroupID, ordinal, true).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *sessionSlotRepo) CountActiveByClassGroup(ctx context.Context, tx *gorm.DB, classGroupID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SessionSlot{}).
		Where("class_group_id = ? AND is_active = ?", classGroupID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *sessionSlotRepo) DeactivateByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.SessionSlot{}).
		Where("id IN ?", ids).
		Update("is_active", false).Error
}
