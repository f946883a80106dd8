package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skoolife/backend/config"
	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	// ErrSessionTooSoon means the session starts within the invite validity
	// margin, so an invite would be born expired.
	ErrSessionTooSoon = errors.New("session starts too soon to invite")
)

// Acceptance outcomes. already_used and expired are states, not errors.
const (
	OutcomeAccepted    = "accepted"
	OutcomeAlreadyUsed = "already_used"
	OutcomeExpired     = "expired"
)

// Invites stop being acceptable this long before the session starts.
const inviteValidityMargin = 24 * time.Hour

// InviteService is the session-invite business interface.
type InviteService interface {
	Create(ctx context.Context, userID, sessionID string, req *dto.CreateInviteRequest) (*dto.InviteResponse, error)
	// GetByToken backs the public invite page; no auth required.
	GetByToken(ctx context.Context, token string) (*dto.InviteDetailResponse, error)
	// Accept claims the invite for userID. The invite is single-use: of N
	// concurrent acceptors exactly one gets OutcomeAccepted. Re-acceptance by
	// the holder is idempotent.
	Accept(ctx context.Context, userID, token string) (*dto.AcceptInviteResponse, error)
}

type inviteService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInviteService creates the InviteService.
func NewInviteService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) InviteService {
	return &inviteService{cfg: cfg, repo: repo, logger: logger}
}

func (s *inviteService) Create(ctx context.Context, userID, sessionID string, req *dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	session, err := s.repo.Session.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	expiresAt := session.StartAt().Add(-inviteValidityMargin)
	if !expiresAt.After(time.Now()) {
		return nil, ErrSessionTooSoon
	}

	invite := &model.SessionInvite{
		SessionID:      sessionID,
		InvitedBy:      userID,
		UniqueToken:    strings.ReplaceAll(uuid.New().String(), "-", ""),
		ExpiresAt:      expiresAt,
		MeetingFormat:  req.MeetingFormat,
		MeetingAddress: req.MeetingAddress,
		MeetingLink:    req.MeetingLink,
	}
	if err := s.repo.Invite.Create(ctx, invite); err != nil {
		s.logger.Error("create invite failed", zap.Error(err))
		return nil, err
	}

	return &dto.InviteResponse{
		ID:        invite.InviteID,
		Token:     invite.UniqueToken,
		InviteURL: fmt.Sprintf("%s/invite/%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), invite.UniqueToken),
		ExpiresAt: invite.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *inviteService) GetByToken(ctx context.Context, token string) (*dto.InviteDetailResponse, error) {
	invite, err := s.repo.Invite.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	status := "pending"
	switch {
	case invite.AcceptedBy != nil:
		status = "accepted"
	case time.Now().After(invite.ExpiresAt):
		status = "expired"
	}

	inviterName := ""
	if inviter, err := s.repo.User.GetByID(ctx, invite.InvitedBy); err == nil {
		inviterName = inviter.Name
	}

	resp := &dto.InviteDetailResponse{
		Status:         status,
		ExpiresAt:      invite.ExpiresAt.Format(time.RFC3339),
		InvitedByName:  inviterName,
		MeetingFormat:  invite.MeetingFormat,
		MeetingAddress: invite.MeetingAddress,
		MeetingLink:    invite.MeetingLink,
	}
	if invite.Session != nil {
		resp.Session = toSessionResponse(invite.Session)
	}
	return resp, nil
}

func (s *inviteService) Accept(ctx context.Context, userID, token string) (*dto.AcceptInviteResponse, error) {
	invite, err := s.repo.Invite.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	// expiry is checked before any mutation is even attempted
	if time.Now().After(invite.ExpiresAt) {
		return s.outcome(invite, OutcomeExpired), nil
	}

	// re-acceptance by the current holder is idempotent
	if invite.AcceptedBy != nil {
		if *invite.AcceptedBy == userID {
			return s.outcome(invite, OutcomeAccepted), nil
		}
		return s.outcome(invite, OutcomeAlreadyUsed), nil
	}

	claimed, err := s.repo.Invite.Accept(ctx, invite.InviteID, userID, time.Now())
	if err != nil {
		s.logger.Error("accept invite failed",
			zap.String("invite_id", invite.InviteID), zap.Error(err))
		return nil, err
	}
	if !claimed {
		// lost the race to another acceptor
		return s.outcome(invite, OutcomeAlreadyUsed), nil
	}
	return s.outcome(invite, OutcomeAccepted), nil
}

func (s *inviteService) outcome(invite *model.SessionInvite, outcome string) *dto.AcceptInviteResponse {
	resp := &dto.AcceptInviteResponse{Outcome: outcome}
	if outcome == OutcomeAccepted {
		resp.InviterID = invite.InvitedBy
		if invite.Session != nil {
			resp.Session = toSessionResponse(invite.Session)
		}
	}
	return resp
}
