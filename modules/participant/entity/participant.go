package entity

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one person on an event's roster. Anonymous participants
// (no linked user) can later be linked to an account when the contact
// matches, never duplicated.
type Participant struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	EventID   uuid.UUID  `db:"event_id" json:"event_id"`
	UserID    *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
	Nickname  string     `db:"nickname" json:"nickname"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// IsRegistered reports whether the participant is linked to an account.
func (p *Participant) IsRegistered() bool {
	return p.UserID != nil
}

// Availability is a participant's mark for a single slot. Absence of a row
// is not "unavailable": only rows with is_available=true count toward
// aggregation.
type Availability struct {
	ParticipantID uuid.UUID `db:"participant_id" json:"participant_id"`
	SlotID        uuid.UUID `db:"slot_id" json:"slot_id"`
	IsAvailable   bool      `db:"is_available" json:"is_available"`
}
