package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"skoolife/backend/internal/model"
)

// EventContentUpdate carries the uniform fields of a series-scoped edit.
// Start/end are recomputed per occurrence from its own date, so they are
// passed per call, not here.
type EventContentUpdate struct {
	Title      string
	EventType  string
	IsBlocking bool
}

// CalendarEventRepository is the calendar data-access interface.
type CalendarEventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent) error
	BatchCreate(ctx context.Context, events []model.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.CalendarEvent, error)
	// ListByGroup returns every occurrence sharing a recurrence group id.
	ListByGroup(ctx context.Context, groupID string) ([]model.CalendarEvent, error)
	// UpdateOccurrence rewrites one occurrence's content and time window.
	UpdateOccurrence(ctx context.Context, id string, content EventContentUpdate, start, end time.Time) error
	Delete(ctx context.Context, id string) error
	// DeleteByGroup removes an entire series in one batched delete.
	DeleteByGroup(ctx context.Context, groupID string) error
}

type calendarEventRepo struct {
	db *gorm.DB
}

// NewCalendarEventRepo creates the GORM-backed CalendarEventRepository.
func NewCalendarEventRepo(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepo{db: db}
}

func (r *calendarEventRepo) Create(ctx context.Context, event *model.CalendarEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *calendarEventRepo) BatchCreate(ctx context.Context, events []model.CalendarEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *calendarEventRepo) GetByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *calendarEventRepo) ListByUser(ctx context.Context, userID string, from, to *time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("start_datetime >= ?", *from)
	}
	if to != nil {
		q = q.Where("start_datetime < ?", *to)
	}
	err := q.Order("start_datetime ASC").Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) ListByGroup(ctx context.Context, groupID string) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Order("start_datetime ASC").
		Find(&events).Error
	return events, err
}

func (r *calendarEventRepo) UpdateOccurrence(ctx context.Context, id string, content EventContentUpdate, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.CalendarEvent{}).
		Where("event_id = ?", id).
		Updates(map[string]interface{}{
			"title":          content.Title,
			"event_type":     content.EventType,
			"is_blocking":    content.IsBlocking,
			"start_datetime": start,
			"end_datetime":   end,
			"updated_at":     time.Now(),
		}).Error
}

func (r *calendarEventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.CalendarEvent{}).Error
}

func (r *calendarEventRepo) DeleteByGroup(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).
		Where("recurrence_group_id = ?", groupID).
		Delete(&model.CalendarEvent{}).Error
}
