package response

import (
	"time"

	"fitting-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SettingsResponse struct {
	OwnerID                uuid.UUID `json:"ownerId"`
	AppointmentDurationMin int       `json:"appointmentDurationMin"`
	AutoConfirm            bool      `json:"autoConfirm"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

type TemplateResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"ownerId"`
	DayOfWeek int       `json:"dayOfWeek"`
	Enabled   bool      `json:"enabled"`
	StartMin  int       `json:"startMin"`
	EndMin    int       `json:"endMin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MaterializeResponse struct {
	CreatedCount int      `json:"createdCount"`
	FailedDays   []string `json:"failedDays,omitempty"`
}

func FromSettingsView(v *queries.SettingsView) *SettingsResponse {
	var resp SettingsResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromTemplateView(v *queries.TemplateView) *TemplateResponse {
	var resp TemplateResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromTemplateViews(vs []*queries.TemplateView) []*TemplateResponse {
	result := make([]*TemplateResponse, len(vs))
	for i, v := range vs {
		result[i] = FromTemplateView(v)
	}
	return result
}
