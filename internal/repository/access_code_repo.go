package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// AccessCodeRepository is the access-code data-access interface.
type AccessCodeRepository interface {
	Create(ctx context.Context, code *model.AccessCode) error
	GetByCode(ctx context.Context, code string) (*model.AccessCode, error)
	ListBySchool(ctx context.Context, schoolID string) ([]model.AccessCode, error)
	// Redeem atomically consumes one use: the increment only matches while
	// uses_count < max_uses and the code has not expired, so concurrent
	// redeemers can never push uses_count past max_uses. Returns
	// claimed=false when the guard did not match.
	Redeem(ctx context.Context, code string, now time.Time) (claimed bool, err error)
}

type accessCodeRepo struct {
	db *gorm.DB
}

// NewAccessCodeRepo creates the GORM-backed AccessCodeRepository.
func NewAccessCodeRepo(db *gorm.DB) AccessCodeRepository {
	return &accessCodeRepo{db: db}
}

func (r *accessCodeRepo) Create(ctx context.Context, code *model.AccessCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *accessCodeRepo) GetByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	var ac model.AccessCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&ac).Error
	if err != nil {
		return nil, err
	}
	return &ac, nil
}

func (r *accessCodeRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.AccessCode, error) {
	var codes []model.AccessCode
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

func (r *accessCodeRepo) Redeem(ctx context.Context, code string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AccessCode{}).
		Where("code = ? AND uses_count < max_uses AND expires_at > ?", code, now).
		Updates(map[string]interface{}{
			"uses_count": gorm.Expr("uses_count + 1"),
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
