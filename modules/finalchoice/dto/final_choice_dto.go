package dto

import (
	"time"

	"modutime/modules/finalchoice/entity"

	"github.com/google/uuid"
)

type ConfirmRequest struct {
	SlotID uuid.UUID `json:"slot_id"`
}

type FinalChoiceResponse struct {
	ID          uuid.UUID  `json:"id"`
	EventID     uuid.UUID  `json:"event_id"`
	SlotID      uuid.UUID  `json:"slot_id"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	ConfirmedBy *uuid.UUID `json:"confirmed_by,omitempty"`
	ConfirmedAt time.Time  `json:"confirmed_at"`
}

func ToFinalChoiceResponse(c *entity.FinalChoice, startAt, endAt time.Time) *FinalChoiceResponse {
	return &FinalChoiceResponse{
		ID:          c.ID,
		EventID:     c.EventID,
		SlotID:      c.SlotID,
		StartAt:     startAt,
		EndAt:       endAt,
		ConfirmedBy: c.ConfirmedBy,
		ConfirmedAt: c.CreatedAt,
	}
}
