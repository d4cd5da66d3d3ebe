package response

import (
	"encoding/json"
	"time"

	"fitting-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ScheduleResponse struct {
	ID          uuid.UUID       `json:"id"`
	SlotID      uuid.UUID       `json:"slotId"`
	OwnerID     uuid.UUID       `json:"ownerId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	StartsAt    time.Time       `json:"startsAt"`
	DurationMin int             `json:"durationMin"`
	Status      string          `json:"status"`
	Products    json.RawMessage `json:"products"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ScheduleListResponse struct {
	ID         uuid.UUID `json:"id"`
	SlotID     uuid.UUID `json:"slotId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	CustomerID uuid.UUID `json:"customerId"`
	StartsAt   time.Time `json:"startsAt"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromScheduleView(v *queries.ScheduleView) *ScheduleResponse {
	var resp ScheduleResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromScheduleListItem(v *queries.ScheduleListItem) *ScheduleListResponse {
	var resp ScheduleListResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromScheduleListItems(vs []*queries.ScheduleListItem) []*ScheduleListResponse {
	result := make([]*ScheduleListResponse, len(vs))
	for i, v := range vs {
		result[i] = FromScheduleListItem(v)
	}
	return result
}
