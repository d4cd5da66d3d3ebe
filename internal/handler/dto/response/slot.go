package response

import (
	"time"

	"fitting-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	DurationMin int       `json:"durationMin"`
	IsBooked    bool      `json:"isBooked"`
	AutoConfirm bool      `json:"autoConfirm"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	var resp SlotResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromSlotViews(vs []*queries.SlotView) []*SlotResponse {
	result := make([]*SlotResponse, len(vs))
	for i, v := range vs {
		result[i] = FromSlotView(v)
	}
	return result
}
