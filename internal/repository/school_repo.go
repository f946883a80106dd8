package repository

import (
	"context"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// SchoolRepository is the school (tenant) data-access interface.
type SchoolRepository interface {
	// Create inserts the school and its first admin member in one
	// transaction; a tenant must never exist without an admin.
	Create(ctx context.Context, school *model.School, adminUserID string) error
	GetByID(ctx context.Context, id string) (*model.School, error)
}

type schoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepo creates the GORM-backed SchoolRepository.
func NewSchoolRepo(db *gorm.DB) SchoolRepository {
	return &schoolRepo{db: db}
}

func (r *schoolRepo) Create(ctx context.Context, school *model.School, adminUserID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(school).Error; err != nil {
			return err
		}
		member := &model.SchoolMember{
			SchoolID: school.SchoolID,
			UserID:   adminUserID,
			Role:     model.SchoolRoleAdmin,
		}
		return tx.Create(member).Error
	})
}

func (r *schoolRepo) GetByID(ctx context.Context, id string) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).
		Where("school_id = ?", id).
		First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

// ── cohorts ──

// CohortRepository is the cohort data-access interface.
type CohortRepository interface {
	Create(ctx context.Context, cohort *model.Cohort) error
	GetByID(ctx context.Context, id string) (*model.Cohort, error)
	ListBySchool(ctx context.Context, schoolID string) ([]model.Cohort, error)
	Delete(ctx context.Context, id string) error
}

type cohortRepo struct {
	db *gorm.DB
}

// NewCohortRepo creates the GORM-backed CohortRepository.
func NewCohortRepo(db *gorm.DB) CohortRepository {
	return &cohortRepo{db: db}
}

func (r *cohortRepo) Create(ctx context.Context, cohort *model.Cohort) error {
	return r.db.WithContext(ctx).Create(cohort).Error
}

func (r *cohortRepo) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	var cohort model.Cohort
	err := r.db.WithContext(ctx).Where("cohort_id = ?", id).First(&cohort).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

func (r *cohortRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.Cohort, error) {
	var cohorts []model.Cohort
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("name ASC").
		Find(&cohorts).Error
	return cohorts, err
}

func (r *cohortRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("cohort_id = ?", id).Delete(&model.Cohort{}).Error
}

// ── classes ──

// ClassRepository is the class data-access interface.
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	ListBySchool(ctx context.Context, schoolID string) ([]model.Class, error)
	Delete(ctx context.Context, id string) error
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo creates the GORM-backed ClassRepository.
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).Where("class_id = ?", id).First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) ListBySchool(ctx context.Context, schoolID string) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("class_id = ?", id).Delete(&model.Class{}).Error
}

// ── members ──

// SchoolMemberRepository is the membership data-access interface.
type SchoolMemberRepository interface {
	Create(ctx context.Context, member *model.SchoolMember) error
	GetBySchoolAndUser(ctx context.Context, schoolID, userID string) (*model.SchoolMember, error)
	ListBySchool(ctx context.Context, schoolID string, offset, limit int) ([]model.SchoolMember, int64, error)
	CountByRole(ctx context.Context, schoolID string) (map[string]int64, error)
	UserIDsBySchool(ctx context.Context, schoolID string) ([]string, error)
	Delete(ctx context.Context, memberID string) error
}

type schoolMemberRepo struct {
	db *gorm.DB
}

// NewSchoolMemberRepo creates the GORM-backed SchoolMemberRepository.
func NewSchoolMemberRepo(db *gorm.DB) SchoolMemberRepository {
	return &schoolMemberRepo{db: db}
}

func (r *schoolMemberRepo) Create(ctx context.Context, member *model.SchoolMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *schoolMemberRepo) GetBySchoolAndUser(ctx context.Context, schoolID, userID string) (*model.SchoolMember, error) {
	var member model.SchoolMember
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND user_id = ?", schoolID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *schoolMemberRepo) ListBySchool(ctx context.Context, schoolID string, offset, limit int) ([]model.SchoolMember, int64, error) {
	var members []model.SchoolMember
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SchoolMember{}).Where("school_id = ?", schoolID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("User").
		Offset(offset).Limit(limit).
		Order("created_at ASC").
		Find(&members).Error
	return members, total, err
}

func (r *schoolMemberRepo) CountByRole(ctx context.Context, schoolID string) (map[string]int64, error) {
	type roleCount struct {
		Role  string `gorm:"column:role"`
		Count int64  `gorm:"column:count"`
	}
	var rows []roleCount
	err := r.db.WithContext(ctx).
		Model(&model.SchoolMember{}).
		Select("role, COUNT(*) AS count").
		Where("school_id = ?", schoolID).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *schoolMemberRepo) UserIDsBySchool(ctx context.Context, schoolID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.SchoolMember{}).
		Where("school_id = ?", schoolID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *schoolMemberRepo) Delete(ctx context.Context, memberID string) error {
	return r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&model.SchoolMember{}).Error
}
