package availability

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDayOfWeek = errors.New("day of week must be between 0 and 6")
	ErrInvalidWindow    = errors.New("start time must be before end time")
	ErrWindowOutOfDay   = errors.New("window must fit within a single day")
)

const minutesPerDay = 24 * 60

// Template is a recurring weekly working-hours rule for one owner.
// At most one active template exists per (owner, dayOfWeek); the repository's
// partial unique index backs that invariant. Times are minutes from midnight.
type Template struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	dayOfWeek time.Weekday
	enabled   bool
	startMin  int
	endMin    int
	createdAt time.Time
	updatedAt time.Time
}

func NewTemplate(ownerID uuid.UUID, dayOfWeek int, enabled bool, startMin, endMin int) (*Template, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}
	if startMin < 0 || endMin > minutesPerDay {
		return nil, ErrWindowOutOfDay
	}
	// A disabled template may hold any window; it is never expanded.
	if enabled && startMin >= endMin {
		return nil, ErrInvalidWindow
	}
	return &Template{
		id:        uuid.New(),
		ownerID:   ownerID,
		dayOfWeek: time.Weekday(dayOfWeek),
		enabled:   enabled,
		startMin:  startMin,
		endMin:    endMin,
	}, nil
}

func ReconstructTemplate(id, ownerID uuid.UUID, dayOfWeek int, enabled bool, startMin, endMin int, createdAt, updatedAt time.Time) *Template {
	return &Template{
		id:        id,
		ownerID:   ownerID,
		dayOfWeek: time.Weekday(dayOfWeek),
		enabled:   enabled,
		startMin:  startMin,
		endMin:    endMin,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *Template) ID() uuid.UUID           { return t.id }
func (t *Template) OwnerID() uuid.UUID      { return t.ownerID }
func (t *Template) DayOfWeek() time.Weekday { return t.dayOfWeek }
func (t *Template) Enabled() bool           { return t.enabled }
func (t *Template) StartMinute() int        { return t.startMin }
func (t *Template) EndMinute() int          { return t.endMin }
func (t *Template) CreatedAt() time.Time    { return t.createdAt }
func (t *Template) UpdatedAt() time.Time    { return t.updatedAt }

// WindowOn anchors the template's [start, end) window to a concrete calendar
// day. The day's time components are ignored.
func (t *Template) WindowOn(day time.Time) (time.Time, time.Time) {
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(t.startMin) * time.Minute),
		midnight.Add(time.Duration(t.endMin) * time.Minute)
}

// AppliesTo reports whether the template expands on the given day.
func (t *Template) AppliesTo(day time.Time) bool {
	return t.enabled && day.Weekday() == t.dayOfWeek
}
