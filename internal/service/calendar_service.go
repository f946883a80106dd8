package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/editflow"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/recurrence"
	"skoolife/backend/internal/repository"
)

var (
	ErrEventNotFound    = errors.New("calendar event not found")
	ErrInvalidTimeRange = errors.New("end must be after start")
)

// CalendarService is the calendar business interface.
type CalendarService interface {
	Create(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	// CreateRecurring expands a weekly rule into occurrences sharing one
	// recurrence group id.
	CreateRecurring(ctx context.Context, userID string, req *dto.CreateRecurringEventRequest) ([]dto.EventResponse, error)
	List(ctx context.Context, userID string, req *dto.EventListRequest) ([]dto.EventResponse, error)
	// Update mutates one occurrence or a whole series depending on scope.
	// Recurring occurrences without a scope are rejected with
	// editflow.ErrScopeRequired. A series edit reports per-sibling counts.
	Update(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*dto.FanOutResponse, error)
	Delete(ctx context.Context, userID, eventID, scope string) (*dto.FanOutResponse, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService creates the CalendarService.
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) Create(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	start, end, err := parseEventWindow(req.StartDatetime, req.EndDatetime)
	if err != nil {
		return nil, err
	}

	event := &model.CalendarEvent{
		UserID:        userID,
		Title:         req.Title,
		EventType:     eventTypeOrDefault(req.EventType),
		StartDatetime: start,
		EndDatetime:   end,
		IsBlocking:    req.IsBlocking,
	}
	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}
	return toEventResponse(event), nil
}

func (s *calendarService) CreateRecurring(ctx context.Context, userID string, req *dto.CreateRecurringEventRequest) ([]dto.EventResponse, error) {
	start, end, err := parseEventWindow(req.StartDatetime, req.EndDatetime)
	if err != nil {
		return nil, err
	}
	until, err := time.Parse("2006-01-02", req.Until)
	if err != nil {
		return nil, err
	}

	groupID := uuid.New().String()
	occurrences := recurrence.ExpandWeekly(start, end, until)

	events := make([]model.CalendarEvent, 0, len(occurrences))
	for _, occ := range occurrences {
		events = append(events, model.CalendarEvent{
			UserID:            userID,
			Title:             req.Title,
			EventType:         eventTypeOrDefault(req.EventType),
			StartDatetime:     occ.Start,
			EndDatetime:       occ.End,
			IsBlocking:        req.IsBlocking,
			RecurrenceGroupID: &groupID,
		})
	}
	if err := s.repo.Event.BatchCreate(ctx, events); err != nil {
		s.logger.Error("create recurring series failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toEventResponse(&events[i]))
	}
	return out, nil
}

func (s *calendarService) List(ctx context.Context, userID string, req *dto.EventListRequest) ([]dto.EventResponse, error) {
	var from, to *time.Time
	if req.From != "" {
		d, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, err
		}
		from = &d
	}
	if req.To != "" {
		d, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, err
		}
		// inclusive end date
		d = d.AddDate(0, 0, 1)
		to = &d
	}

	events, err := s.repo.Event.ListByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toEventResponse(&events[i]))
	}
	return out, nil
}

func (s *calendarService) Update(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*dto.FanOutResponse, error) {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	startTOD, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		return nil, err
	}
	endTOD, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		return nil, err
	}
	if !endTOD.After(startTOD) {
		return nil, ErrInvalidTimeRange
	}

	scope, err := resolveScope(editflow.BeginEdit(event.IsRecurring()), req.Scope)
	if err != nil {
		return nil, err
	}

	content := repository.EventContentUpdate{
		Title:      req.Title,
		EventType:  eventTypeOrDefault(req.EventType),
		IsBlocking: req.IsBlocking,
	}

	if scope == editflow.ScopeSingle {
		date := event.StartDatetime
		if req.Date != nil {
			date, err = time.Parse("2006-01-02", *req.Date)
			if err != nil {
				return nil, err
			}
		}
		start := recurrence.OnDate(date, startTOD.Hour(), startTOD.Minute())
		end := recurrence.OnDate(date, endTOD.Hour(), endTOD.Minute())
		if err := s.repo.Event.UpdateOccurrence(ctx, event.EventID, content, start, end); err != nil {
			return nil, err
		}
		return &dto.FanOutResponse{Updated: 1}, nil
	}

	// series scope: a failed sibling fetch aborts before any write
	siblings, err := s.repo.Event.ListByGroup(ctx, *event.RecurrenceGroupID)
	if err != nil {
		s.logger.Error("list recurrence group failed",
			zap.String("group_id", *event.RecurrenceGroupID), zap.Error(err))
		return nil, err
	}

	// each sibling keeps its own date and takes the new time of day; the
	// writes are independent, so they run concurrently and all settle before
	// the report is built. Failed siblings stay as they were: no rollback.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		updated int
		failed  int
	)
	for i := range siblings {
		sibling := siblings[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := recurrence.OnDate(sibling.StartDatetime, startTOD.Hour(), startTOD.Minute())
			end := recurrence.OnDate(sibling.StartDatetime, endTOD.Hour(), endTOD.Minute())
			err := s.repo.Event.UpdateOccurrence(ctx, sibling.EventID, content, start, end)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.Error("series fan-out: sibling update failed",
					zap.String("event_id", sibling.EventID), zap.Error(err))
				return
			}
			updated++
		}()
	}
	wg.Wait()

	return &dto.FanOutResponse{Updated: updated, Failed: failed}, nil
}

func (s *calendarService) Delete(ctx context.Context, userID, eventID, scope string) (*dto.FanOutResponse, error) {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveScope(editflow.BeginDelete(event.IsRecurring()), scope)
	if err != nil {
		return nil, err
	}

	if resolved == editflow.ScopeSingle {
		if err := s.repo.Event.Delete(ctx, event.EventID); err != nil {
			return nil, err
		}
		return &dto.FanOutResponse{Updated: 1}, nil
	}

	siblings, err := s.repo.Event.ListByGroup(ctx, *event.RecurrenceGroupID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Event.DeleteByGroup(ctx, *event.RecurrenceGroupID); err != nil {
		return nil, err
	}
	return &dto.FanOutResponse{Updated: len(siblings)}, nil
}

// resolveScope drives the edit flow: no scope on a recurring occurrence parks
// in confirmation and surfaces editflow.ErrScopeRequired.
func resolveScope(state editflow.State, scope string) (string, error) {
	if scope != "" {
		next, err := editflow.Transition(state, editflow.ChooseScope{Scope: scope})
		if err == nil {
			state = next
		}
		// a scope on a standalone event is a no-op: the flow is already
		// resolved to single
	}
	res, err := editflow.Resolve(state)
	if err != nil {
		return "", err
	}
	return res.Scope, nil
}

func (s *calendarService) ownedEvent(ctx context.Context, userID, eventID string) (*model.CalendarEvent, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.UserID != userID {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func parseEventWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidTimeRange
	}
	return start, end, nil
}

func eventTypeOrDefault(eventType string) string {
	if eventType == "" {
		return model.EventTypeOther
	}
	return eventType
}

func toEventResponse(event *model.CalendarEvent) *dto.EventResponse {
	return &dto.EventResponse{
		ID:                event.EventID,
		Title:             event.Title,
		EventType:         event.EventType,
		StartDatetime:     event.StartDatetime.Format(time.RFC3339),
		EndDatetime:       event.EndDatetime.Format(time.RFC3339),
		IsBlocking:        event.IsBlocking,
		RecurrenceGroupID: event.RecurrenceGroupID,
	}
}
