package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// SessionListFilters narrows a revision-session listing.
type SessionListFilters struct {
	SubjectID string
	From      *time.Time
	To        *time.Time
}

// RevisionSessionRepository is the revision-session data-access interface.
type RevisionSessionRepository interface {
	Create(ctx context.Context, session *model.RevisionSession) error
	BatchCreate(ctx context.Context, sessions []model.RevisionSession) error
	GetByID(ctx context.Context, id string) (*model.RevisionSession, error)
	ListByUser(ctx context.Context, userID string, filters *SessionListFilters) ([]model.RevisionSession, error)
	Update(ctx context.Context, session *model.RevisionSession) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// DeleteFuturePlanned wipes planned sessions dated on/after `from`,
	// leaving done/skipped history untouched. Returns rows removed.
	DeleteFuturePlanned(ctx context.Context, userID string, from time.Time) (int64, error)
	CountByUsers(ctx context.Context, userIDs []string) (total, done int64, err error)
}

type revisionSessionRepo struct {
	db *gorm.DB
}

// NewRevisionSessionRepo creates the GORM-backed RevisionSessionRepository.
func NewRevisionSessionRepo(db *gorm.DB) RevisionSessionRepository {
	return &revisionSessionRepo{db: db}
}

func (r *revisionSessionRepo) Create(ctx context.Context, session *model.RevisionSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *revisionSessionRepo) BatchCreate(ctx context.Context, sessions []model.RevisionSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&sessions).Error
}

func (r *revisionSessionRepo) GetByID(ctx context.Context, id string) (*model.RevisionSession, error) {
	var session model.RevisionSession
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *revisionSessionRepo) ListByUser(ctx context.Context, userID string, filters *SessionListFilters) ([]model.RevisionSession, error) {
	var sessions []model.RevisionSession
	q := r.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID)
	if filters != nil {
		if filters.SubjectID != "" {
			q = q.Where("subject_id = ?", filters.SubjectID)
		}
		if filters.From != nil {
			q = q.Where("date >= ?", *filters.From)
		}
		if filters.To != nil {
			q = q.Where("date <= ?", *filters.To)
		}
	}
	err := q.Order("date ASC, start_time ASC").Find(&sessions).Error
	return sessions, err
}

func (r *revisionSessionRepo) Update(ctx context.Context, session *model.RevisionSession) error {
	return r.db.WithContext(ctx).
		Model(&model.RevisionSession{}).
		Where("session_id = ?", session.SessionID).
		Updates(map[string]interface{}{
			"subject_id": session.SubjectID,
			"start_time": session.StartTime,
			"end_time":   session.EndTime,
			"updated_at": time.Now(),
		}).Error
}

func (r *revisionSessionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.RevisionSession{}).
		Where("session_id = ?", id).
		Update("status", status).Error
}

func (r *revisionSessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", id).
		Delete(&model.RevisionSession{}).Error
}

func (r *revisionSessionRepo) DeleteFuturePlanned(ctx context.Context, userID string, from time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND date >= ?", userID, model.SessionStatusPlanned, from).
		Delete(&model.RevisionSession{})
	return result.RowsAffected, result.Error
}

func (r *revisionSessionRepo) CountByUsers(ctx context.Context, userIDs []string) (int64, int64, error) {
	if len(userIDs) == 0 {
		return 0, 0, nil
	}
	var total, done int64
	if err := r.db.WithContext(ctx).
		Model(&model.RevisionSession{}).
		Where("user_id IN ?", userIDs).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&model.RevisionSession{}).
		Where("user_id IN ? AND status = ?", userIDs, model.SessionStatusDone).
		Count(&done).Error; err != nil {
		return 0, 0, err
	}
	return total, done, nil
}
