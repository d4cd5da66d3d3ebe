package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type ReserveRequest struct {
	SlotID uuid.UUID `json:"slot_id" binding:"required"`
	// Products is an opaque list the fitting concerns; stored as-is.
	Products json.RawMessage `json:"products,omitempty"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=IN_PROGRESS COMPLETED CANCELLED"`
}

type RescheduleRequest struct {
	NewSlotID uuid.UUID `json:"new_slot_id" binding:"required"`
}
