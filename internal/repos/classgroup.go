package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type ClassGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ClassGroup) (*types.ClassGroup, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClassGroup, error)
	List(ctx context.Context, tx *gorm.DB, onlyActive bool) ([]*types.ClassGroup, error)
	SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error
}

type classGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassGroupRepo(db *gorm.DB, baseLog *logger.Logger) ClassGroupRepo {
	repoLog := baseLog.With("repo", "ClassGroupRepo")
	return &classGroupRepo{db: db, log: repoLog}
}

func (r *classGroupRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ClassGroup) (*types.ClassGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *classGroupRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClassGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ClassGroup
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *classGroupRepo) List(ctx context.Context, tx *gorm.DB, onlyActive bool) ([]*types.ClassGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClassGroup
	q := transaction.WithContext(ctx).Order("school_name ASC, grade ASC, section ASC")
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *classGroupRepo) SetActive(ctx context.Context, tx *gorm.DB, id uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ClassGroup{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}
