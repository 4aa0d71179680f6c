package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is one discrete 30-minute interval of an event, stored as
// absolute UTC instants. Slots are created in bulk at event creation and
// never mutated afterwards.
type TimeSlot struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventID   uuid.UUID `db:"event_id" json:"event_id"`
	StartAt   time.Time `db:"start_at" json:"start_at"`
	EndAt     time.Time `db:"end_at" json:"end_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SlotWindow is a plain time range, the slot generator's output before
// persistence assigns ids.
type SlotWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
