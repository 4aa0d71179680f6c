package entity

import (
	"time"

	"github.com/google/uuid"
)

// Event is a scheduling poll: a date range plus a daily time-of-day window
// that gets discretized into 30-minute slots at creation time.
type Event struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	CreatedBy   *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	DateStart   time.Time  `db:"date_start" json:"date_start"`
	DateEnd     time.Time  `db:"date_end" json:"date_end"`
	TimeStart   string     `db:"time_start" json:"time_start"`
	TimeEnd     string     `db:"time_end" json:"time_end"`
	Timezone    string     `db:"timezone" json:"timezone"`
	DeadlineAt  *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	IsDeleted   bool       `db:"is_deleted" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// IsClosed reports whether the submission deadline has passed.
func (e *Event) IsClosed(now time.Time) bool {
	if e.DeadlineAt == nil {
		return false
	}
	return now.After(*e.DeadlineAt)
}

// Location resolves the event's IANA timezone.
func (e *Event) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}
