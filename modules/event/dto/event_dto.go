package dto

import (
	"time"

	"modutime/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DateStart   string     `json:"date_start"`
	DateEnd     string     `json:"date_end"`
	TimeStart   string     `json:"time_start"`
	TimeEnd     string     `json:"time_end"`
	Timezone    string     `json:"timezone"`
	DeadlineAt  *time.Time `json:"deadline_at,omitempty"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DateStart   *string    `json:"date_start,omitempty"`
	DateEnd     *string    `json:"date_end,omitempty"`
	TimeStart   *string    `json:"time_start,omitempty"`
	TimeEnd     *string    `json:"time_end,omitempty"`
	Timezone    *string    `json:"timezone,omitempty"`
	DeadlineAt  *time.Time `json:"deadline_at,omitempty"`
}

type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DateStart   string     `json:"date_start"`
	DateEnd     string     `json:"date_end"`
	TimeStart   string     `json:"time_start"`
	TimeEnd     string     `json:"time_end"`
	Timezone    string     `json:"timezone"`
	DeadlineAt  *time.Time `json:"deadline_at,omitempty"`
	IsClosed    bool       `json:"is_closed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type SlotResponse struct {
	ID      uuid.UUID `json:"id"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type ParticipantRefResponse struct {
	ID       uuid.UUID `json:"participant_id"`
	Nickname string    `json:"nickname"`
}

type SlotStatResponse struct {
	ID           uuid.UUID                `json:"id"`
	StartAt      time.Time                `json:"start_at"`
	EndAt        time.Time                `json:"end_at"`
	Count        int                      `json:"count"`
	Percentage   float64                  `json:"percentage"`
	Participants []ParticipantRefResponse `json:"participants"`
	AllAvailable bool                     `json:"all_available"`
}

type DashboardStatsResponse struct {
	TotalParticipants     int     `json:"total_participants"`
	SubmittedParticipants int     `json:"submitted_participants"`
	PendingParticipants   int     `json:"pending_participants"`
	SubmissionRate        float64 `json:"submission_rate"`
	TotalTimeSlots        int     `json:"total_time_slots"`
}

type EventDetailResponse struct {
	Event            EventResponse      `json:"event"`
	Slots            []SlotStatResponse `json:"slots"`
	ParticipantCount int                `json:"participant_count"`
}

type ShareInfoResponse struct {
	Slug     string `json:"slug"`
	ShareURL string `json:"share_url"`
}

type SummaryResponse struct {
	EventID uuid.UUID          `json:"event_id"`
	Slots   []SlotStatResponse `json:"slots"`
}

type RecommendResponse struct {
	EventID uuid.UUID          `json:"event_id"`
	Slots   []SlotStatResponse `json:"slots"`
	Message string             `json:"message"`
}

type DashboardResponse struct {
	EventID     uuid.UUID              `json:"event_id"`
	Stats       DashboardStatsResponse `json:"stats"`
	MostPopular *SlotStatResponse      `json:"most_popular_slot,omitempty"`
}

const dateLayout = "2006-01-02"

func ToEventResponse(e *entity.Event, now time.Time) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Slug:        e.Slug,
		Title:       e.Title,
		Description: e.Description,
		DateStart:   e.DateStart.Format(dateLayout),
		DateEnd:     e.DateEnd.Format(dateLayout),
		TimeStart:   e.TimeStart,
		TimeEnd:     e.TimeEnd,
		Timezone:    e.Timezone,
		DeadlineAt:  e.DeadlineAt,
		IsClosed:    e.IsClosed(now),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToSlotResponse(s *entity.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:      s.ID,
		StartAt: s.StartAt,
		EndAt:   s.EndAt,
	}
}
