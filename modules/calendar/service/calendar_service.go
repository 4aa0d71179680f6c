package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"modutime/core/errors"
	"modutime/modules/calendar/dto"
	evententity "modutime/modules/event/entity"
	eventrepo "modutime/modules/event/repository"
	fcrepo "modutime/modules/finalchoice/repository"

	"github.com/google/uuid"
)

const (
	googleRenderURL = "https://calendar.google.com/calendar/render"
	icsTimeLayout   = "20060102T150405Z"
	localLayout     = "2006-01-02 15:04"
)

// CalendarService builds export artifacts for an event's confirmed slot.
type CalendarService struct {
	eventRepo       eventrepo.EventRepositoryInterface
	finalChoiceRepo fcrepo.FinalChoiceRepositoryInterface
	baseURL         string
}

func NewCalendarService(eventRepo eventrepo.EventRepositoryInterface, finalChoiceRepo fcrepo.FinalChoiceRepositoryInterface, baseURL string) *CalendarService {
	return &CalendarService{
		eventRepo:       eventRepo,
		finalChoiceRepo: finalChoiceRepo,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

// Export returns the add-to-calendar links for the confirmed slot. Before a
// final choice exists the response carries has_final_choice=false and no
// links, so clients can render the pending state without a second call.
func (s *CalendarService) Export(ctx context.Context, eventID uuid.UUID) (*dto.CalendarExportResponse, *errors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	choice, err := s.finalChoiceRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get final choice", err)
	}
	if choice == nil {
		return &dto.CalendarExportResponse{
			EventID:  event.ID,
			Title:    event.Title,
			Timezone: event.Timezone,
			Message:  "no slot confirmed yet",
		}, nil
	}

	slot, err := s.eventRepo.GetSlotByID(ctx, choice.SlotID)
	if err != nil || slot == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get confirmed slot", err)
	}

	loc, err := event.Location()
	if err != nil {
		loc = time.UTC
	}

	startAt := slot.StartAt
	endAt := slot.EndAt
	return &dto.CalendarExportResponse{
		EventID:           event.ID,
		Title:             event.Title,
		HasFinalChoice:    true,
		StartAt:           &startAt,
		EndAt:             &endAt,
		Timezone:          event.Timezone,
		LocalStart:        slot.StartAt.In(loc).Format(localLayout),
		LocalEnd:          slot.EndAt.In(loc).Format(localLayout),
		GoogleCalendarURL: s.googleURL(event, slot),
		ICSURL:            fmt.Sprintf("%s/api/v1/public/events/%s/calendar.ics", s.baseURL, event.ID),
		Message:           "confirmed slot ready to export",
	}, nil
}

// ICS renders the confirmed slot as an iCalendar file body.
func (s *CalendarService) ICS(ctx context.Context, eventID uuid.UUID) (string, *errors.AppError) {
	event, slot, appErr := s.confirmedSlot(ctx, eventID)
	if appErr != nil {
		return "", appErr
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//modutime//scheduler//EN",
		"BEGIN:VEVENT",
		"UID:" + event.ID.String() + "@modutime",
		"DTSTAMP:" + time.Now().UTC().Format(icsTimeLayout),
		"DTSTART:" + slot.StartAt.UTC().Format(icsTimeLayout),
		"DTEND:" + slot.EndAt.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeICS(event.Title),
	}
	if event.Description != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICS(event.Description))
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR")

	return strings.Join(lines, "\r\n") + "\r\n", nil
}

func (s *CalendarService) confirmedSlot(ctx context.Context, eventID uuid.UUID) (*evententity.Event, *evententity.TimeSlot, *errors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}

	choice, err := s.finalChoiceRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to get final choice", err)
	}
	if choice == nil {
		return nil, nil, errors.NewAppError(errors.ErrNotFound, "no slot confirmed yet", nil)
	}

	slot, err := s.eventRepo.GetSlotByID(ctx, choice.SlotID)
	if err != nil || slot == nil {
		return nil, nil, errors.NewAppError(errors.ErrInternalServer, "failed to get confirmed slot", err)
	}
	return event, slot, nil
}

func (s *CalendarService) googleURL(event *evententity.Event, slot *evententity.TimeSlot) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", event.Title)
	q.Set("dates", slot.StartAt.UTC().Format(icsTimeLayout)+"/"+slot.EndAt.UTC().Format(icsTimeLayout))
	if event.Description != "" {
		q.Set("details", event.Description)
	}
	q.Set("ctz", event.Timezone)
	return googleRenderURL + "?" + q.Encode()
}

func escapeICS(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}
