package slot

import (
	"errors"
	"time"

	"fitting-scheduler/internal/domain/availability"
)

var ErrInvalidRange = errors.New("range end must not be before range start")

// Candidate is a slot start produced by expanding a template over one day.
// Candidates carry no identity; persistence decides which of them are new.
type Candidate struct {
	StartsAt    time.Time
	DurationMin int
}

// ExpandRange walks each calendar day in [rangeStart, rangeEnd] and partitions
// the matching template's window into fixed-duration increments. Candidates
// that do not lie strictly in the future are dropped here; deduplication
// against already persisted slots happens at the storage layer so that
// re-running over an overlapping range stays idempotent.
func ExpandRange(templates []*availability.Template, rangeStart, rangeEnd time.Time, durationMin int, now time.Time) ([]Candidate, error) {
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if rangeEnd.Before(rangeStart) {
		return nil, ErrInvalidRange
	}

	byDay := make(map[time.Weekday]*availability.Template, len(templates))
	for _, t := range templates {
		byDay[t.DayOfWeek()] = t
	}

	var out []Candidate
	day := truncateToDay(rangeStart)
	last := truncateToDay(rangeEnd)
	for !day.After(last) {
		tpl, ok := byDay[day.Weekday()]
		if ok && tpl.AppliesTo(day) {
			out = append(out, expandDay(tpl, day, durationMin, now)...)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out, nil
}

func expandDay(tpl *availability.Template, day time.Time, durationMin int, now time.Time) []Candidate {
	windowStart, windowEnd := tpl.WindowOn(day)
	step := time.Duration(durationMin) * time.Minute

	var out []Candidate
	for start := windowStart; !start.Add(step).After(windowEnd); start = start.Add(step) {
		if !start.After(now) {
			continue
		}
		out = append(out, Candidate{StartsAt: start.UTC(), DurationMin: durationMin})
	}
	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
