package repository

import (
	"context"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
	pkgerrors "skoolife/backend/pkg/errors"
)

// SubjectRepository is the subject data-access interface.
type SubjectRepository interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	ListByUser(ctx context.Context, userID string, statuses []string) ([]model.Subject, error)
	// Update writes all mutable columns guarded by the current version;
	// a stale version yields ErrOptimisticLock.
	Update(ctx context.Context, subject *model.Subject) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	CountActiveBySchoolUsers(ctx context.Context, userIDs []string) (int64, error)
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo creates the GORM-backed SubjectRepository.
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) Create(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ListByUser(ctx context.Context, userID string, statuses []string) ([]model.Subject, error) {
	var subjects []model.Subject
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) Update(ctx context.Context, subject *model.Subject) error {
	oldVersion := subject.Version
	result := r.db.WithContext(ctx).
		Model(subject).
		Where("subject_id = ? AND version = ?", subject.SubjectID, oldVersion).
		Updates(map[string]interface{}{
			"name":         subject.Name,
			"color":        subject.Color,
			"exam_date":    subject.ExamDate,
			"exam_type":    subject.ExamType,
			"target_hours": subject.TargetHours,
			"exam_weight":  subject.ExamWeight,
			"notes":        subject.Notes,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	subject.Version = oldVersion + 1
	return nil
}

func (r *subjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Where("subject_id = ?", id).
		Update("status", status).Error
}

// Delete removes the subject; revision sessions cascade at the database.
func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		Delete(&model.Subject{}).Error
}

func (r *subjectRepo) CountActiveBySchoolUsers(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Subject{}).
		Where("user_id IN ? AND status = ?", userIDs, model.SubjectStatusActive).
		Count(&n).Error
	return n, err
}
