package owner

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDuration = errors.New("appointment duration out of range")
)

const (
	MinAppointmentMinutes = 5
	MaxAppointmentMinutes = 480
)

// Settings is the owner-level booking policy. AppointmentMinutes drives how
// templates are partitioned into slots; AutoConfirm is snapshotted onto each
// slot at creation time and never applied retroactively.
type Settings struct {
	ownerID            uuid.UUID
	appointmentMinutes int
	autoConfirm        bool
	createdAt          time.Time
	updatedAt          time.Time
}

func NewSettings(ownerID uuid.UUID, appointmentMinutes int, autoConfirm bool) (*Settings, error) {
	if appointmentMinutes < MinAppointmentMinutes || appointmentMinutes > MaxAppointmentMinutes {
		return nil, ErrInvalidDuration
	}
	return &Settings{
		ownerID:            ownerID,
		appointmentMinutes: appointmentMinutes,
		autoConfirm:        autoConfirm,
	}, nil
}

func ReconstructSettings(ownerID uuid.UUID, appointmentMinutes int, autoConfirm bool, createdAt, updatedAt time.Time) *Settings {
	return &Settings{
		ownerID:            ownerID,
		appointmentMinutes: appointmentMinutes,
		autoConfirm:        autoConfirm,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (s *Settings) OwnerID() uuid.UUID      { return s.ownerID }
func (s *Settings) AppointmentMinutes() int { return s.appointmentMinutes }
func (s *Settings) AutoConfirm() bool       { return s.autoConfirm }
func (s *Settings) CreatedAt() time.Time    { return s.createdAt }
func (s *Settings) UpdatedAt() time.Time    { return s.updatedAt }

func (s *Settings) AppointmentDuration() time.Duration {
	return time.Duration(s.appointmentMinutes) * time.Minute
}
