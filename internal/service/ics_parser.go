package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"skoolife/backend/internal/model"
	"skoolife/backend/internal/recurrence"
)

// Timetable ICS imports are size-capped before parsing.
const icsMaxFileSize = 5 * 1024 * 1024 // 5MB

// ParseTimetableICS turns an iCalendar feed (RFC 5545) into blocking calendar
// events. Each VEVENT becomes one event; a weekly RRULE is expanded into
// occurrences sharing a recurrence group id, capped by the recurrence engine.
// Non-weekly rules degrade to the first occurrence only.
func ParseTimetableICS(r io.Reader, userID string) ([]model.CalendarEvent, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	var events []model.CalendarEvent
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		title := strings.TrimSpace(summary.Value)

		dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart)
		if err != nil {
			continue
		}
		dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd)
		if err != nil {
			// DTEND is optional; a class without one gets a nominal hour
			dtEnd = dtStart.Add(time.Hour)
		}

		until, weekly := parseWeeklyRule(evt, dtStart)
		if !weekly {
			events = append(events, model.CalendarEvent{
				UserID:        userID,
				Title:         title,
				EventType:     model.EventTypeCourse,
				StartDatetime: dtStart,
				EndDatetime:   dtEnd,
				IsBlocking:    true,
			})
			continue
		}

		groupID := uuid.New().String()
		for _, occ := range recurrence.ExpandWeekly(dtStart, dtEnd, until) {
			gid := groupID
			events = append(events, model.CalendarEvent{
				UserID:            userID,
				Title:             title,
				EventType:         model.EventTypeCourse,
				StartDatetime:     occ.Start,
				EndDatetime:       occ.End,
				IsBlocking:        true,
				RecurrenceGroupID: &gid,
			})
		}
	}
	return events, nil
}

// parseWeeklyRule reads the event's RRULE. weekly=false for missing or
// non-weekly rules. The until date falls back to COUNT weeks, or the
// engine's cap when the rule is open-ended.
func parseWeeklyRule(evt *ics.VEvent, dtStart time.Time) (until time.Time, weekly bool) {
	prop := evt.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return time.Time{}, false
	}

	freq := ""
	count := 0
	for _, part := range strings.Split(prop.Value, ";") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToUpper(kv[0]) {
		case "FREQ":
			freq = strings.ToUpper(kv[1])
		case "COUNT":
			fmt.Sscanf(kv[1], "%d", &count)
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", kv[1])
			if err != nil {
				t, err = time.Parse("20060102", kv[1])
			}
			if err == nil {
				until = t
			}
		}
	}
	if freq != "WEEKLY" {
		return time.Time{}, false
	}

	if until.IsZero() {
		weeks := recurrence.MaxOccurrences
		if count > 0 && count < weeks {
			weeks = count
		}
		until = dtStart.AddDate(0, 0, 7*(weeks-1))
	}
	return until, true
}

// parseICSDateTime reads a date-time property, honoring a TZID parameter.
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.ToUpper(k) == "TZID" && len(v) > 0 {
			tzid = v[0]
		}
	}

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		t, err := time.Parse(layout, val)
		if err != nil {
			continue
		}
		if strings.HasSuffix(layout, "Z") {
			return t, nil
		}
		loc := time.UTC
		if tzid != "" {
			if tzLoc, err := time.LoadLocation(tzid); err == nil {
				loc = tzLoc
			}
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", val)
}
