package entity

import (
	"time"

	"github.com/google/uuid"
)

// FinalChoice is the single confirmed slot of an event. The
// unique_event_final_choice constraint guarantees at most one row per event
// no matter how many confirms race.
type FinalChoice struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	EventID     uuid.UUID  `db:"event_id" json:"event_id"`
	SlotID      uuid.UUID  `db:"slot_id" json:"slot_id"`
	ConfirmedBy *uuid.UUID `db:"confirmed_by" json:"confirmed_by,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
