package dto

import (
	"time"

	"github.com/google/uuid"
)

// CalendarExportResponse carries everything a client needs to add the
// confirmed slot to an external calendar. The time and URL fields are only
// populated once the event has a final choice.
type CalendarExportResponse struct {
	EventID           uuid.UUID  `json:"event_id"`
	Title             string     `json:"title"`
	HasFinalChoice    bool       `json:"has_final_choice"`
	StartAt           *time.Time `json:"start_at,omitempty"`
	EndAt             *time.Time `json:"end_at,omitempty"`
	Timezone          string     `json:"timezone"`
	LocalStart        string     `json:"local_start,omitempty"`
	LocalEnd          string     `json:"local_end,omitempty"`
	GoogleCalendarURL string     `json:"google_calendar_url,omitempty"`
	ICSURL            string     `json:"ics_url,omitempty"`
	Message           string     `json:"message"`
}
