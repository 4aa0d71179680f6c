package service

import (
	"context"
	"sync"
	"testing"
	"time"

	coreentity "modutime/core/entity"
	"modutime/core/params"
	evententity "modutime/modules/event/entity"
	fcentity "modutime/modules/finalchoice/entity"
	"modutime/modules/notification/tasks"
	participantentity "modutime/modules/participant/entity"

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

type stubParticipantRepo struct {
	roster []participantentity.Participant
}

func (s *stubParticipantRepo) Create(_ context.Context, p *participantentity.Participant) (*participantentity.Participant, error) {
	return p, nil
}

func (s *stubParticipantRepo) GetByID(_ context.Context, _ uuid.UUID) (*participantentity.Participant, error) {
	return nil, nil
}

func (s *stubParticipantRepo) GetByEventID(_ context.Context, _ uuid.UUID) ([]participantentity.Participant, error) {
	return s.roster, nil
}

func (s *stubParticipantRepo) GetByEventAndNickname(_ context.Context, _ uuid.UUID, _ string) (*participantentity.Participant, error) {
	return nil, nil
}

func (s *stubParticipantRepo) FindAnonymousByEventAndEmail(_ context.Context, _ uuid.UUID, _ string) (*participantentity.Participant, error) {
	return nil, nil
}

func (s *stubParticipantRepo) LinkUser(_ context.Context, _ uuid.UUID, _ uuid.UUID) error {
	return nil
}

func (s *stubParticipantRepo) LinkUserByEmail(_ context.Context, _ uuid.UUID, _ string) (int64, error) {
	return 0, nil
}

func (s *stubParticipantRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubParticipantRepo) ReplaceAvailability(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (s *stubParticipantRepo) GetAvailableSlotIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func (s *stubParticipantRepo) GetAvailabilityByEventID(_ context.Context, _ uuid.UUID) ([]participantentity.Availability, error) {
	return nil, nil
}

func (s *stubParticipantRepo) CountAvailabilityByEventID(_ context.Context, _ uuid.UUID) (int, error) {
	return 0, nil
}

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

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type recordingSMS struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingSMS) Send(_ context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func strPtr(s string) *string { return &s }

func setupHandler(roster []participantentity.Participant, confirmed bool) (*Handler, *evententity.Event, *evententity.TimeSlot, *recordingMailer, *recordingSMS) {
	event := &evententity.Event{
		ID:       uuid.New(),
		Title:    "Offsite",
		Timezone: "Asia/Seoul",
	}
	start := time.Date(2026, 6, 1, 5, 0, 0, 0, time.UTC)
	slot := &evententity.TimeSlot{
		ID: uuid.New(), EventID: event.ID,
		StartAt: start, EndAt: start.Add(30 * time.Minute),
	}

	fcRepo := &stubFinalChoiceRepo{}
	if confirmed {
		fcRepo.choice = &fcentity.FinalChoice{ID: uuid.New(), EventID: event.ID, SlotID: slot.ID}
	}

	mailer := &recordingMailer{}
	sms := &recordingSMS{}
	h := NewHandler(nil,
		&stubEventRepo{event: event, slot: slot},
		&stubParticipantRepo{roster: roster},
		fcRepo, mailer, sms)
	return h, event, slot, mailer, sms
}

func TestHandleFinalChoice(t *testing.T) {
	roster := []participantentity.Participant{
		{ID: uuid.New(), Nickname: "alice", Email: strPtr("alice@example.com")},
		{ID: uuid.New(), Nickname: "bob", Phone: strPtr("+82-10-0000-0000")},
		{ID: uuid.New(), Nickname: "carol"},
	}
	h, event, slot, mailer, sms := setupHandler(roster, true)

	task, err := tasks.NewFinalChoiceTask(event.ID, slot.ID)
	require.NoError(t, err)

	require.NoError(t, h.HandleFinalChoice(context.Background(), task))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com|Time confirmed for Offsite", mailer.sent[0])
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+82-10-0000-0000", sms.sent[0])
}

func TestHandleFinalChoice_EventGone(t *testing.T) {
	h, _, slot, mailer, _ := setupHandler(nil, true)

	task, err := tasks.NewFinalChoiceTask(uuid.New(), slot.ID)
	require.NoError(t, err)

	// A deleted event is not an error; the task must not be retried.
	require.NoError(t, h.HandleFinalChoice(context.Background(), task))
	assert.Empty(t, mailer.sent)
}

func TestHandleReminder(t *testing.T) {
	roster := []participantentity.Participant{
		{ID: uuid.New(), Nickname: "alice", Email: strPtr("alice@example.com")},
	}
	h, event, _, mailer, _ := setupHandler(roster, true)

	task, err := tasks.NewReminderTask(event.ID)
	require.NoError(t, err)

	require.NoError(t, h.HandleReminder(context.Background(), task))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com|Reminder: Offsite is today", mailer.sent[0])
}

func TestHandleReminder_ChoiceRemoved(t *testing.T) {
	roster := []participantentity.Participant{
		{ID: uuid.New(), Nickname: "alice", Email: strPtr("alice@example.com")},
	}
	h, event, _, mailer, _ := setupHandler(roster, false)

	task, err := tasks.NewReminderTask(event.ID)
	require.NoError(t, err)

	require.NoError(t, h.HandleReminder(context.Background(), task))
	assert.Empty(t, mailer.sent)
}
