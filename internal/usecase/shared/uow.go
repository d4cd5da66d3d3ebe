package shared

import (
	"context"
	"time"

	"fitting-scheduler/internal/domain/availability"
	"fitting-scheduler/internal/domain/owner"
	"fitting-scheduler/internal/domain/schedule"
	"fitting-scheduler/internal/domain/slot"

	"github.com/google/uuid"
)

// UnitOfWork is the per-operation transaction boundary. Write use cases run
// inside Within; Reads serves validation reads outside any transaction.
type UnitOfWork interface {
	// Within: full transaction for write operations with bounded retry on
	// serialization failures and deadlocks.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: direct access to command reads using implicit transactions.
	Reads() CommandReads
}

// Tx exposes repositories bound to the running transaction.
type Tx interface {
	Settings() SettingsRepository
	Templates() TemplateRepository
	Slots() SlotRepository
	Schedules() ScheduleRepository
	Reads() CommandReads
}

type SettingsRepository interface {
	Upsert(ctx context.Context, s *owner.Settings) error
}

type TemplateRepository interface {
	Create(ctx context.Context, t *availability.Template) (uuid.UUID, error)
	Update(ctx context.Context, t *availability.Template) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type SlotRepository interface {
	// Insert persists a new slot; returns false when (owner, startsAt) is
	// already taken. Existing rows are never touched, which is what makes
	// materialization idempotent.
	Insert(ctx context.Context, s *slot.Slot) (bool, error)
	// Acquire flips is_booked false→true as a compare-and-set; returns false
	// when the slot was already booked by a concurrent writer.
	Acquire(ctx context.Context, id uuid.UUID) (bool, error)
	// Release flips is_booked back to false.
	Release(ctx context.Context, id uuid.UUID) error
	// UpdateUnbooked edits time/policy of a slot only while it is unbooked;
	// returns false when the slot was booked in the meantime.
	UpdateUnbooked(ctx context.Context, id uuid.UUID, startsAt time.Time, autoConfirm bool) (bool, error)
	// DeleteUnbooked removes a slot only while it is unbooked.
	DeleteUnbooked(ctx context.Context, id uuid.UUID) (bool, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *schedule.Schedule) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status schedule.Status) error
	MoveToSlot(ctx context.Context, id, newSlotID uuid.UUID) error
}

// CommandReads are the minimal snapshots write use cases need for
// validation and authorization.
type CommandReads interface {
	SettingsByOwner(ctx context.Context, ownerID uuid.UUID) (*SettingsSnapshot, error)
	ActiveTemplates(ctx context.Context, ownerID uuid.UUID) ([]*availability.Template, error)
	TemplateByID(ctx context.Context, id uuid.UUID) (*availability.Template, error)
	SlotByID(ctx context.Context, id uuid.UUID) (*SlotSnapshot, error)
	ScheduleByID(ctx context.Context, id uuid.UUID) (*ScheduleSnapshot, error)
}

type SettingsSnapshot struct {
	OwnerID            uuid.UUID
	AppointmentMinutes int
	AutoConfirm        bool
}

type SlotSnapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	StartsAt    time.Time
	DurationMin int
	IsBooked    bool
	AutoConfirm bool
}

type ScheduleSnapshot struct {
	ID         uuid.UUID
	SlotID     uuid.UUID
	CustomerID uuid.UUID
	Status     schedule.Status
}
