package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

type CurriculumDayRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) (*types.CurriculumDay, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CurriculumDay, error)
	GetByDayAndLanguage(ctx context.Context, tx *gorm.DB, day int, language string) (*types.CurriculumDay, error)
	GetPublished(ctx context.Context, tx *gorm.DB, day int, language string) (*types.CurriculumDay, error)
	ListByLanguage(ctx context.Context, tx *gorm.DB, language string) ([]*types.CurriculumDay, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type curriculumDayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCurriculumDayRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumDayRepo {
	repoLog := baseLog.With("repo", "CurriculumDayRepo")
	return &curriculumDayRepo{db: db, log: repoLog}
}

func (r *curriculumDayRepo) Create(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) (*types.CurriculumDay, error) {
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

func (r *curriculumDayRepo) Update(ctx context.Context, tx *gorm.DB, row *types.CurriculumDay) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	return transaction.WithContext(ctx).Save(row).Error
}

func (r *curriculumDayRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CurriculumDay, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CurriculumDay
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *curriculumDayRepo) GetByDayAndLanguage(ctx context.Context, tx *gorm.DB, day int, language string) (*types.CurriculumDay, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CurriculumDay
	err := transaction.WithContext(ctx).
		Where("day_number = ? AND language = ?", day, language).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *curriculumDayRepo) GetPublished(ctx context.Context, tx *gorm.DB, day int, language string) (*types.CurriculumDay, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.CurriculumDay
	err := transaction.WithContext(ctx).
		Where("day_number = ? AND language = ? AND status = ?", day, language, types.CurriculumPublished).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *curriculumDayRepo) ListByLanguage(ctx context.Context, tx *gorm.DB, language string) ([]*types.CurriculumDay, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CurriculumDay
	if err := transaction.WithContext(ctx).
		Where("language = ?", language).
		Order("day_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *curriculumDayRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.CurriculumDay{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
