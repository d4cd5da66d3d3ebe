package schedule

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid schedule status")
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Schedule is a customer's booking against a slot. Schedules are created only
// by the booking engine, mutated only through Transition/MoveToSlot, and never
// physically deleted: CANCELLED is terminal, not removal.
type Schedule struct {
	id         uuid.UUID
	slotID     uuid.UUID
	customerID uuid.UUID
	status     Status
	products   json.RawMessage
	createdAt  time.Time
	updatedAt  time.Time
}

// NewSchedule starts every booking in SCHEDULED; the slot's auto-confirm flag
// only gates a downstream approval notification, never the initial status.
func NewSchedule(slotID, customerID uuid.UUID, products json.RawMessage) *Schedule {
	return &Schedule{
		id:         uuid.New(),
		slotID:     slotID,
		customerID: customerID,
		status:     StatusScheduled,
		products:   products,
	}
}

func ReconstructSchedule(id, slotID, customerID uuid.UUID, status Status, products json.RawMessage, createdAt, updatedAt time.Time) *Schedule {
	return &Schedule{
		id:         id,
		slotID:     slotID,
		customerID: customerID,
		status:     status,
		products:   products,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (s *Schedule) ID() uuid.UUID             { return s.id }
func (s *Schedule) SlotID() uuid.UUID         { return s.slotID }
func (s *Schedule) CustomerID() uuid.UUID     { return s.customerID }
func (s *Schedule) Status() Status            { return s.status }
func (s *Schedule) Products() json.RawMessage { return s.products }
func (s *Schedule) CreatedAt() time.Time      { return s.createdAt }
func (s *Schedule) UpdatedAt() time.Time      { return s.updatedAt }

func (s *Schedule) IsActive() bool {
	return s.status != StatusCancelled
}

// Transition applies a status change after checking the machine's edges.
// Authorization is evaluated separately via Authorize.
func (s *Schedule) Transition(to Status) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if s.status.IsTerminal() || !CanTransition(s.status, to) {
		return ErrInvalidTransition
	}
	s.status = to
	return nil
}

// MoveToSlot repoints an active schedule at a different slot. The caller is
// responsible for releasing the old slot and acquiring the new one atomically.
func (s *Schedule) MoveToSlot(newSlotID uuid.UUID) error {
	if s.status.IsTerminal() {
		return ErrInvalidTransition
	}
	s.slotID = newSlotID
	return nil
}
