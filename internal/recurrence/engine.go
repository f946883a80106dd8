// Package recurrence expands weekly recurrence rules into concrete
// occurrence intervals and checks intervals for overlap.
package recurrence

import "time"

// MaxOccurrences caps a single expansion; a rule that would exceed it is
// truncated rather than rejected.
const MaxOccurrences = 52

// Occurrence is one concrete expansion of a recurrence rule.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// ExpandWeekly generates weekly occurrences from the first interval up to and
// including the last date whose occurrence starts on or before until
// (inclusive, date precision). The first occurrence is always included even
// when until precedes it.
func ExpandWeekly(start, end time.Time, until time.Time) []Occurrence {
	occurrences := []Occurrence{{Start: start, End: end}}
	limit := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, 0, start.Location())

	for i := 1; i < MaxOccurrences; i++ {
		next := start.AddDate(0, 0, 7*i)
		if next.After(limit) {
			break
		}
		occurrences = append(occurrences, Occurrence{
			Start: next,
			End:   end.AddDate(0, 0, 7*i),
		})
	}
	return occurrences
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OnDate recombines a date with a time of day, keeping the date's location.
func OnDate(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}
