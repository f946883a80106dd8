package service

import (
	"go.uber.org/zap"

	"skoolife/backend/config"
	"skoolife/backend/internal/repository"
	"skoolife/backend/pkg/jwt"
	"skoolife/backend/pkg/redis"
	"skoolife/backend/pkg/storage"
)

// Service aggregates every business-logic interface.
type Service struct {
	Auth         AuthService
	Subject      SubjectService
	Calendar     CalendarService
	Session      SessionService
	Planner      PlannerService
	Invite       InviteService
	File         FileService
	Pomodoro     PomodoroService
	School       SchoolService
	Subscription SubscriptionService
	Export       ExportService
}

// NewService builds the aggregate.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store *storage.Store,
	billing BillingProvider,
	logger *zap.Logger,
) *Service {
	// a nil *redis.Client must not end up as a non-nil cache interface
	var subCache SubscriptionCache
	if rdb != nil {
		subCache = rdb
	}
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Subject:      NewSubjectService(repo, logger),
		Calendar:     NewCalendarService(repo, logger),
		Session:      NewSessionService(repo, logger),
		Planner:      NewPlannerService(repo, logger),
		Invite:       NewInviteService(cfg, repo, logger),
		File:         NewFileService(cfg, repo, store, logger),
		Pomodoro:     NewPomodoroService(repo, logger),
		School:       NewSchoolService(repo, logger),
		Subscription: NewSubscriptionService(cfg, billing, subCache, logger),
		Export:       NewExportService(repo, logger),
	}
}
