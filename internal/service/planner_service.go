package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/recurrence"
	"skoolife/backend/internal/repository"
)

var ErrNoActiveSubjects = errors.New("no active subjects to plan for")

// Planner defaults.
const (
	plannerDefaultStart   = "17:00"
	plannerDefaultEnd     = "20:00"
	plannerDefaultSlotMin = 60
	plannerDefaultDays    = 14
)

// PlannerService generates revision plans.
type PlannerService interface {
	// Generate wipes future planned sessions and refills free slots between
	// tomorrow and the planning horizon, weighting subjects by exam_weight.
	// Done and skipped sessions are never touched.
	Generate(ctx context.Context, userID string, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error)
}

type plannerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlannerService creates the PlannerService.
func NewPlannerService(repo *repository.Repository, logger *zap.Logger) PlannerService {
	return &plannerService{repo: repo, logger: logger}
}

func (s *plannerService) Generate(ctx context.Context, userID string, req *dto.GeneratePlanRequest) (*dto.GeneratePlanResponse, error) {
	subjects, err := s.repo.Subject.ListByUser(ctx, userID, []string{model.SubjectStatusActive})
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, ErrNoActiveSubjects
	}

	dayStart, dayEnd, slotMinutes, err := plannerWindow(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	to := planningHorizon(from, subjects)

	removed, err := s.repo.Session.DeleteFuturePlanned(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	blocking, err := s.blockingEvents(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	kept, err := s.repo.Session.ListByUser(ctx, userID, &repository.SessionListFilters{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	slots := buildFreeSlots(from, to, dayStart, dayEnd, slotMinutes, req.IncludeWeekend, blocking, kept)
	quotas := allocateByWeight(subjects, len(slots))

	sessions := assignSlots(userID, slots, subjects, quotas)
	if err := s.repo.Session.BatchCreate(ctx, sessions); err != nil {
		s.logger.Error("persist generated plan failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *toSessionResponse(&sessions[i]))
	}
	s.logger.Info("plan generated",
		zap.String("user_id", userID),
		zap.Int("created", len(sessions)),
		zap.Int64("removed", removed))

	return &dto.GeneratePlanResponse{
		Created:  len(sessions),
		Removed:  int(removed),
		Sessions: out,
	}, nil
}

func plannerWindow(req *dto.GeneratePlanRequest) (time.Time, time.Time, int, error) {
	startRaw := req.DailyStartTime
	if startRaw == "" {
		startRaw = plannerDefaultStart
	}
	endRaw := req.DailyEndTime
	if endRaw == "" {
		endRaw = plannerDefaultEnd
	}
	start, err := time.Parse("15:04", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	end, err := time.Parse("15:04", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, 0, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, 0, ErrInvalidTimeRange
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = plannerDefaultSlotMin
	}
	return start, end, slotMinutes, nil
}

// planningHorizon ends at the latest exam date, with a default window when no
// subject carries one.
func planningHorizon(from time.Time, subjects []model.Subject) time.Time {
	to := from.AddDate(0, 0, plannerDefaultDays-1)
	for i := range subjects {
		if d := subjects[i].ExamDate; d != nil && d.After(to) {
			to = *d
		}
	}
	return to
}

func (s *plannerService) blockingEvents(ctx context.Context, userID string, from, to time.Time) ([]model.CalendarEvent, error) {
	end := to.AddDate(0, 0, 1)
	events, err := s.repo.Event.ListByUser(ctx, userID, &from, &end)
	if err != nil {
		return nil, err
	}
	blocking := events[:0]
	for _, e := range events {
		if e.IsBlocking {
			blocking = append(blocking, e)
		}
	}
	return blocking, nil
}

type planSlot struct {
	date       time.Time
	start, end time.Time // absolute
}

// buildFreeSlots walks each planning day and keeps the slots that clash with
// neither a blocking event nor a kept session.
func buildFreeSlots(from, to, dayStart, dayEnd time.Time, slotMinutes int, includeWeekend bool, blocking []model.CalendarEvent, kept []model.RevisionSession) []planSlot {
	var slots []planSlot
	step := time.Duration(slotMinutes) * time.Minute

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if !includeWeekend && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
			continue
		}
		dayOpen := recurrence.OnDate(day, dayStart.Hour(), dayStart.Minute())
		dayClose := recurrence.OnDate(day, dayEnd.Hour(), dayEnd.Minute())

		for start := dayOpen; !start.Add(step).After(dayClose); start = start.Add(step) {
			end := start.Add(step)
			if slotConflicts(start, end, blocking, kept) {
				continue
			}
			slots = append(slots, planSlot{date: day, start: start, end: end})
		}
	}
	return slots
}

func slotConflicts(start, end time.Time, blocking []model.CalendarEvent, kept []model.RevisionSession) bool {
	for i := range blocking {
		if recurrence.Overlaps(start, end, blocking[i].StartDatetime, blocking[i].EndDatetime) {
			return true
		}
	}
	for i := range kept {
		s := &kept[i]
		sessStart := s.StartAt()
		sessEnd := s.Date
		if t, err := time.Parse("15:04", s.EndTime); err == nil {
			sessEnd = recurrence.OnDate(s.Date, t.Hour(), t.Minute())
		}
		if sameDate(s.Date, start) && recurrence.Overlaps(start, end, sessStart, sessEnd) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// allocateByWeight splits n slots across subjects proportionally to
// exam_weight using largest-remainder rounding; deterministic for a given
// input order.
func allocateByWeight(subjects []model.Subject, n int) map[string]int {
	quotas := make(map[string]int, len(subjects))
	if n == 0 {
		return quotas
	}

	totalWeight := 0
	for i := range subjects {
		totalWeight += subjects[i].ExamWeight
	}
	if totalWeight == 0 {
		return quotas
	}

	type share struct {
		id        string
		remainder int // numerator of the fractional part, scale totalWeight
	}
	assigned := 0
	shares := make([]share, 0, len(subjects))
	for i := range subjects {
		exact := n * subjects[i].ExamWeight
		q := exact / totalWeight
		quotas[subjects[i].SubjectID] = q
		assigned += q
		shares = append(shares, share{id: subjects[i].SubjectID, remainder: exact % totalWeight})
	}

	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].remainder > shares[b].remainder
	})
	for i := 0; assigned < n; i++ {
		quotas[shares[i%len(shares)].id]++
		assigned++
	}
	return quotas
}

// assignSlots fills slots chronologically. For each slot the eligible subject
// with the most remaining quota wins; a subject with an exam date is only
// eligible for slots strictly before it.
func assignSlots(userID string, slots []planSlot, subjects []model.Subject, quotas map[string]int) []model.RevisionSession {
	remaining := make(map[string]int, len(quotas))
	for id, q := range quotas {
		remaining[id] = q
	}

	var sessions []model.RevisionSession
	for _, slot := range slots {
		best := -1
		for i := range subjects {
			sub := &subjects[i]
			if remaining[sub.SubjectID] == 0 {
				continue
			}
			if sub.ExamDate != nil && !slot.date.Before(*sub.ExamDate) {
				continue
			}
			if best == -1 || remaining[sub.SubjectID] > remaining[subjects[best].SubjectID] {
				best = i
			}
		}
		if best == -1 {
			continue
		}
		sub := &subjects[best]
		remaining[sub.SubjectID]--
		sessions = append(sessions, model.RevisionSession{
			UserID:    userID,
			SubjectID: sub.SubjectID,
			Date:      slot.date,
			StartTime: slot.start.Format("15:04"),
			EndTime:   slot.end.Format("15:04"),
			Status:    model.SessionStatusPlanned,
		})
	}
	return sessions
}
