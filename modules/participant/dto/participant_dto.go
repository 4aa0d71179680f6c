package dto

import (
	"time"

	"modutime/modules/participant/entity"

	"github.com/google/uuid"
)

type RegisterParticipantRequest struct {
	Nickname string  `json:"nickname"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

type ParticipantResponse struct {
	ID           uuid.UUID `json:"id"`
	EventID      uuid.UUID `json:"event_id"`
	Nickname     string    `json:"nickname"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	IsRegistered bool      `json:"is_registered"`
	CreatedAt    time.Time `json:"created_at"`
}

type SubmitAvailabilityRequest struct {
	SlotIDs []uuid.UUID `json:"slot_ids"`
}

type AvailabilityResponse struct {
	ParticipantID uuid.UUID   `json:"participant_id"`
	EventID       uuid.UUID   `json:"event_id"`
	SlotIDs       []uuid.UUID `json:"slot_ids"`
	SlotCount     int         `json:"slot_count"`
}

func ToParticipantResponse(p *entity.Participant) *ParticipantResponse {
	return &ParticipantResponse{
		ID:           p.ID,
		EventID:      p.EventID,
		Nickname:     p.Nickname,
		Email:        p.Email,
		Phone:        p.Phone,
		IsRegistered: p.IsRegistered(),
		CreatedAt:    p.CreatedAt,
	}
}
