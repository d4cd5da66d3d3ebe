package request

import "time"

type CreateSlotRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	// AutoConfirm overrides the owner default when present.
	AutoConfirm *bool `json:"auto_confirm,omitempty"`
}

type UpdateSlotRequest struct {
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	AutoConfirm *bool     `json:"auto_confirm,omitempty"`
}
