package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// SessionInviteRepository is the invite data-access interface.
type SessionInviteRepository interface {
	Create(ctx context.Context, invite *model.SessionInvite) error
	GetByToken(ctx context.Context, token string) (*model.SessionInvite, error)
	// Accept performs the single-use conditional update: it sets
	// accepted_by/accepted_at only while accepted_by is still NULL. The
	// store evaluates the guard atomically against the current row, so of
	// N racing acceptors exactly one can match. Returns claimed=false when
	// the race was lost (zero rows affected).
	Accept(ctx context.Context, inviteID, userID string, at time.Time) (claimed bool, err error)
	ListBySession(ctx context.Context, sessionID string) ([]model.SessionInvite, error)
}

type sessionInviteRepo struct {
	db *gorm.DB
}

// NewSessionInviteRepo creates the GORM-backed SessionInviteRepository.
func NewSessionInviteRepo(db *gorm.DB) SessionInviteRepository {
	return &sessionInviteRepo{db: db}
}

func (r *sessionInviteRepo) Create(ctx context.Context, invite *model.SessionInvite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *sessionInviteRepo) GetByToken(ctx context.Context, token string) (*model.SessionInvite, error) {
	var invite model.SessionInvite
	err := r.db.WithContext(ctx).
		Preload("Session").
		Preload("Session.Subject").
		Where("unique_token = ?", token).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *sessionInviteRepo) Accept(ctx context.Context, inviteID, userID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SessionInvite{}).
		Where("invite_id = ? AND accepted_by IS NULL", inviteID).
		Updates(map[string]interface{}{
			"accepted_by": userID,
			"accepted_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *sessionInviteRepo) ListBySession(ctx context.Context, sessionID string) ([]model.SessionInvite, error) {
	var invites []model.SessionInvite
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}
