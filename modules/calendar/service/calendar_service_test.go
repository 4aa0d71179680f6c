package service

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	coreentity "modutime/core/entity"
	"modutime/core/errors"
	"modutime/core/params"
	evententity "modutime/modules/event/entity"
	fcentity "modutime/modules/finalchoice/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEventRepo struct {
	event *evententity.Event
	slot  *evententity.TimeSlot
}

func (s *stubEventRepo) Create(_ context.Context, _ *evententity.Event) (*evententity.Event, error) {
	return nil, nil
}

func (s *stubEventRepo) GetByID(_ context.Context, id uuid.UUID) (*evententity.Event, error) {
	if s.event != nil && s.event.ID == id {
		return s.event, nil
	}
	return nil, nil
}

func (s *stubEventRepo) GetBySlug(_ context.Context, _ string) (*evententity.Event, error) {
	return nil, nil
}

func (s *stubEventRepo) GetByCreator(_ context.Context, _ uuid.UUID, _ params.QueryParams) (*coreentity.Pagination[evententity.Event], error) {
	return nil, nil
}

func (s *stubEventRepo) Update(_ context.Context, _ *evententity.Event) error { return nil }

func (s *stubEventRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubEventRepo) SaveSlots(_ context.Context, _ uuid.UUID, _ []evententity.SlotWindow) ([]evententity.TimeSlot, error) {
	return nil, nil
}

func (s *stubEventRepo) GetSlotsByEventID(_ context.Context, _ uuid.UUID) ([]evententity.TimeSlot, error) {
	return nil, nil
}

func (s *stubEventRepo) GetSlotByID(_ context.Context, id uuid.UUID) (*evententity.TimeSlot, error) {
	if s.slot != nil && s.slot.ID == id {
		return s.slot, nil
	}
	return nil, nil
}

func (s *stubEventRepo) DeleteSlotsByEventID(_ context.Context, _ uuid.UUID) error { return nil }

type stubFinalChoiceRepo struct {
	choice *fcentity.FinalChoice
}

func (s *stubFinalChoiceRepo) Create(_ context.Context, c *fcentity.FinalChoice) (*fcentity.FinalChoice, error) {
	return c, nil
}

func (s *stubFinalChoiceRepo) GetByEventID(_ context.Context, _ uuid.UUID) (*fcentity.FinalChoice, error) {
	return s.choice, nil
}

func (s *stubFinalChoiceRepo) DeleteByEventID(_ context.Context, _ uuid.UUID) error { return nil }

func setupCalendar(confirmed bool) (*CalendarService, *evententity.Event, *evententity.TimeSlot) {
	event := &evententity.Event{
		ID:          uuid.New(),
		Slug:        "offsite",
		Title:       "Offsite, day one; planning",
		Description: "Bring laptops",
		Timezone:    "Asia/Seoul",
	}
	// 05:00 UTC is 14:00 KST.
	start := time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)
	slot := &evententity.TimeSlot{
		ID:      uuid.New(),
		EventID: event.ID,
		StartAt: start,
		EndAt:   start.Add(30 * time.Minute),
	}

	fcRepo := &stubFinalChoiceRepo{}
	if confirmed {
		fcRepo.choice = &fcentity.FinalChoice{
			ID: uuid.New(), EventID: event.ID, SlotID: slot.ID, CreatedAt: time.Now(),
		}
	}

	svc := NewCalendarService(&stubEventRepo{event: event, slot: slot}, fcRepo, "https://api.modutime.app/")
	return svc, event, slot
}

func TestExport(t *testing.T) {
	svc, event, slot := setupCalendar(true)

	resp, appErr := svc.Export(context.Background(), event.ID)
	require.Nil(t, appErr)
	assert.Equal(t, event.ID, resp.EventID)
	assert.True(t, resp.HasFinalChoice)
	require.NotNil(t, resp.StartAt)
	assert.Equal(t, slot.StartAt, *resp.StartAt)
	assert.Equal(t, "2026-06-01 14:00", resp.LocalStart)
	assert.Equal(t, "2026-06-01 14:30", resp.LocalEnd)
	assert.Equal(t,
		"https://api.modutime.app/api/v1/public/events/"+event.ID.String()+"/calendar.ics",
		resp.ICSURL)

	parsed, err := url.Parse(resp.GoogleCalendarURL)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, event.Title, q.Get("text"))
	assert.Equal(t, "20260601T050000Z/20260601T053000Z", q.Get("dates"))
	assert.Equal(t, "Asia/Seoul", q.Get("ctz"))
}

func TestExport_NoConfirmedSlot(t *testing.T) {
	svc, event, _ := setupCalendar(false)

	resp, appErr := svc.Export(context.Background(), event.ID)
	require.Nil(t, appErr)
	assert.False(t, resp.HasFinalChoice)
	assert.Nil(t, resp.StartAt)
	assert.Empty(t, resp.GoogleCalendarURL)
	assert.Equal(t, "no slot confirmed yet", resp.Message)
}

func TestExport_EventNotFound(t *testing.T) {
	svc, _, _ := setupCalendar(true)

	_, appErr := svc.Export(context.Background(), uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestICS(t *testing.T) {
	svc, event, _ := setupCalendar(true)

	body, appErr := svc.ICS(context.Background(), event.ID)
	require.Nil(t, appErr)

	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(body, "END:VCALENDAR\r\n"))
	assert.Contains(t, body, "UID:"+event.ID.String()+"@modutime")
	assert.Contains(t, body, "DTSTART:20260601T050000Z")
	assert.Contains(t, body, "DTEND:20260601T053000Z")
	// Commas and semicolons in the title must be escaped.
	assert.Contains(t, body, `SUMMARY:Offsite\, day one\; planning`)
	assert.Contains(t, body, "DESCRIPTION:Bring laptops")
}
