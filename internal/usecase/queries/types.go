package queries

import (
	"encoding/json"
	"time"

	"fitting-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrAccessDenied is returned when the actor may not read the requested view.
var ErrAccessDenied = errs.New("access denied")

// Read models (DTO for read side)
type SettingsView struct {
	OwnerID                uuid.UUID `json:"owner_id"`
	AppointmentDurationMin int       `json:"appointment_duration_min"`
	AutoConfirm            bool      `json:"auto_confirm"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

type TemplateView struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	DayOfWeek int       `json:"day_of_week"`
	Enabled   bool      `json:"enabled"`
	StartMin  int       `json:"start_min"`
	EndMin    int       `json:"end_min"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SlotView struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	DurationMin int       `json:"duration_min"`
	IsBooked    bool      `json:"is_booked"`
	AutoConfirm bool      `json:"auto_confirm"`
	CreatedAt   time.Time `json:"created_at"`
}

type ScheduleView struct {
	ID          uuid.UUID       `json:"id"`
	SlotID      uuid.UUID       `json:"slot_id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	StartsAt    time.Time       `json:"starts_at"`
	DurationMin int             `json:"duration_min"`
	Status      string          `json:"status"`
	Products    json.RawMessage `json:"products"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ScheduleListItem struct {
	ID         uuid.UUID `json:"id"`
	SlotID     uuid.UUID `json:"slot_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	StartsAt   time.Time `json:"starts_at"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
