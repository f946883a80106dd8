package handler

import "skoolife/backend/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth         *AuthHandler
	Subject      *SubjectHandler
	Calendar     *CalendarHandler
	Session      *SessionHandler
	Invite       *InviteHandler
	File         *FileHandler
	Pomodoro     *PomodoroHandler
	School       *SchoolHandler
	Subscription *SubscriptionHandler
	Export       *ExportHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Subject:      NewSubjectHandler(svc.Subject),
		Calendar:     NewCalendarHandler(svc.Calendar),
		Session:      NewSessionHandler(svc.Session, svc.Planner),
		Invite:       NewInviteHandler(svc.Invite),
		File:         NewFileHandler(svc.File),
		Pomodoro:     NewPomodoroHandler(svc.Pomodoro),
		School:       NewSchoolHandler(svc.School, svc.Export),
		Subscription: NewSubscriptionHandler(svc.Subscription),
		Export:       NewExportHandler(svc.Export),
	}
}
