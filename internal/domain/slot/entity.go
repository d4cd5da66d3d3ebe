package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStartInPast     = errors.New("slot start must be in the future")
	ErrInvalidDuration = errors.New("slot duration must be positive")
	ErrSlotBooked      = errors.New("slot is booked")
)

// Slot is a single concrete bookable time instance for an owner.
// (ownerID, startsAt) is unique; autoConfirm is a policy snapshot taken at
// creation and never retroactively changed. A booked slot is immutable and
// is kept forever as historical record.
type Slot struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	startsAt    time.Time
	durationMin int
	booked      bool
	autoConfirm bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewSlot(ownerID uuid.UUID, startsAt time.Time, durationMin int, autoConfirm bool, now time.Time) (*Slot, error) {
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}
	if !startsAt.After(now) {
		return nil, ErrStartInPast
	}
	return &Slot{
		id:          uuid.New(),
		ownerID:     ownerID,
		startsAt:    startsAt.UTC(),
		durationMin: durationMin,
		booked:      false,
		autoConfirm: autoConfirm,
	}, nil
}

func ReconstructSlot(id, ownerID uuid.UUID, startsAt time.Time, durationMin int, booked, autoConfirm bool, createdAt, updatedAt time.Time) *Slot {
	return &Slot{
		id:          id,
		ownerID:     ownerID,
		startsAt:    startsAt,
		durationMin: durationMin,
		booked:      booked,
		autoConfirm: autoConfirm,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Slot) ID() uuid.UUID        { return s.id }
func (s *Slot) OwnerID() uuid.UUID   { return s.ownerID }
func (s *Slot) StartsAt() time.Time  { return s.startsAt }
func (s *Slot) DurationMin() int     { return s.durationMin }
func (s *Slot) IsBooked() bool       { return s.booked }
func (s *Slot) AutoConfirm() bool    { return s.autoConfirm }
func (s *Slot) CreatedAt() time.Time { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time { return s.updatedAt }

func (s *Slot) EndsAt() time.Time {
	return s.startsAt.Add(time.Duration(s.durationMin) * time.Minute)
}

func (s *Slot) IsReservableAt(now time.Time) bool {
	return !s.booked && s.startsAt.After(now)
}

// EnsureMutable guards edits and deletes: a booked slot is frozen.
func (s *Slot) EnsureMutable() error {
	if s.booked {
		return ErrSlotBooked
	}
	return nil
}
