package service

import (
	"context"
	"testing"
	"time"

	coreentity "modutime/core/entity"
	"modutime/core/errors"
	"modutime/core/params"
	"modutime/modules/event/dto"
	"modutime/modules/event/entity"
	participantentity "modutime/modules/participant/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEventRepo struct {
	events map[uuid.UUID]*entity.Event
	slots  map[uuid.UUID][]entity.TimeSlot
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{
		events: make(map[uuid.UUID]*entity.Event),
		slots:  make(map[uuid.UUID][]entity.TimeSlot),
	}
}

func (m *memEventRepo) Create(_ context.Context, event *entity.Event) (*entity.Event, error) {
	created := *event
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.events[created.ID] = &created
	return &created, nil
}

func (m *memEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	e := m.events[id]
	if e == nil || e.IsDeleted {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *memEventRepo) GetBySlug(_ context.Context, slug string) (*entity.Event, error) {
	for _, e := range m.events {
		if e.Slug == slug && !e.IsDeleted {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memEventRepo) GetByCreator(_ context.Context, creatorID uuid.UUID, qp params.QueryParams) (*coreentity.Pagination[entity.Event], error) {
	var items []entity.Event
	for _, e := range m.events {
		if e.CreatedBy != nil && *e.CreatedBy == creatorID && !e.IsDeleted {
			items = append(items, *e)
		}
	}
	return &coreentity.Pagination[entity.Event]{
		Items:      items,
		TotalItems: len(items),
		PageNumber: qp.PageNumber,
		PageSize:   qp.PageSize,
	}, nil
}

func (m *memEventRepo) Update(_ context.Context, event *entity.Event) error {
	stored := m.events[event.ID]
	if stored != nil {
		copied := *event
		copied.UpdatedAt = time.Now()
		m.events[event.ID] = &copied
	}
	return nil
}

func (m *memEventRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if e := m.events[id]; e != nil {
		e.IsDeleted = true
	}
	return nil
}

func (m *memEventRepo) SaveSlots(_ context.Context, eventID uuid.UUID, windows []entity.SlotWindow) ([]entity.TimeSlot, error) {
	slots := make([]entity.TimeSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, entity.TimeSlot{
			ID: uuid.New(), EventID: eventID, StartAt: w.Start, EndAt: w.End,
		})
	}
	m.slots[eventID] = slots
	return slots, nil
}

func (m *memEventRepo) GetSlotsByEventID(_ context.Context, eventID uuid.UUID) ([]entity.TimeSlot, error) {
	return m.slots[eventID], nil
}

func (m *memEventRepo) GetSlotByID(_ context.Context, id uuid.UUID) (*entity.TimeSlot, error) {
	for _, slots := range m.slots {
		for i := range slots {
			if slots[i].ID == id {
				return &slots[i], nil
			}
		}
	}
	return nil, nil
}

func (m *memEventRepo) DeleteSlotsByEventID(_ context.Context, eventID uuid.UUID) error {
	delete(m.slots, eventID)
	return nil
}

type stubParticipantRepo struct {
	participants []participantentity.Participant
	marks        []participantentity.Availability
}

func (s *stubParticipantRepo) Create(_ context.Context, p *participantentity.Participant) (*participantentity.Participant, error) {
	return p, nil
}

func (s *stubParticipantRepo) GetByID(_ context.Context, id uuid.UUID) (*participantentity.Participant, error) {
	for i := range s.participants {
		if s.participants[i].ID == id {
			return &s.participants[i], nil
		}
	}
	return nil, nil
}

func (s *stubParticipantRepo) GetByEventID(_ context.Context, eventID uuid.UUID) ([]participantentity.Participant, error) {
	var out []participantentity.Participant
	for i := range s.participants {
		if s.participants[i].EventID == eventID {
			out = append(out, s.participants[i])
		}
	}
	return out, nil
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
	return s.marks, nil
}

func (s *stubParticipantRepo) CountAvailabilityByEventID(_ context.Context, _ uuid.UUID) (int, error) {
	return len(s.marks), nil
}

func newEventTestService() (*EventService, *memEventRepo, *stubParticipantRepo) {
	eventRepo := newMemEventRepo()
	participantRepo := &stubParticipantRepo{}
	return NewEventService(eventRepo, participantRepo, "https://modutime.app/"), eventRepo, participantRepo
}

func createRequest() *dto.CreateEventRequest {
	return &dto.CreateEventRequest{
		Title:     "Team Sync",
		DateStart: "2026-01-10",
		DateEnd:   "2026-01-10",
		TimeStart: "09:00",
		TimeEnd:   "12:00",
		Timezone:  "Asia/Seoul",
	}
}

func TestEventService_Create(t *testing.T) {
	svc, repo, _ := newEventTestService()

	resp, appErr := svc.Create(context.Background(), nil, createRequest())
	require.Nil(t, appErr)
	assert.Equal(t, "Team Sync", resp.Title)
	assert.NotEmpty(t, resp.Slug)
	assert.Equal(t, "2026-01-10", resp.DateStart)
	assert.Equal(t, "09:00", resp.TimeStart)

	// 09:00-12:00 discretizes into six half-hour slots.
	slots, err := repo.GetSlotsByEventID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestEventService_Create_Invalid(t *testing.T) {
	svc, _, _ := newEventTestService()

	req := createRequest()
	req.Title = "   "
	_, appErr := svc.Create(context.Background(), nil, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = createRequest()
	req.Timezone = "Mars/Olympus"
	_, appErr = svc.Create(context.Background(), nil, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	req = createRequest()
	req.TimeEnd = "08:00"
	_, appErr = svc.Create(context.Background(), nil, req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidRange, appErr.Code)
}

func TestEventService_Update_WindowFrozenAfterSubmissions(t *testing.T) {
	svc, repo, participantRepo := newEventTestService()

	organizer := uuid.New()
	created, appErr := svc.Create(context.Background(), &organizer, createRequest())
	require.Nil(t, appErr)

	slots, err := repo.GetSlotsByEventID(context.Background(), created.ID)
	require.NoError(t, err)
	participantRepo.marks = []participantentity.Availability{
		{ParticipantID: uuid.New(), SlotID: slots[0].ID, IsAvailable: true},
	}

	newEnd := "15:00"
	_, appErr = svc.Update(context.Background(), created.ID, organizer,
		&dto.UpdateEventRequest{TimeEnd: &newEnd})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// Metadata edits stay allowed.
	title := "Team Sync v2"
	updated, appErr := svc.Update(context.Background(), created.ID, organizer,
		&dto.UpdateEventRequest{Title: &title})
	require.Nil(t, appErr)
	assert.Equal(t, "Team Sync v2", updated.Title)
	assert.Equal(t, "12:00", updated.TimeEnd)
}

func TestEventService_Update_RegeneratesSlotsWhileEmpty(t *testing.T) {
	svc, repo, _ := newEventTestService()

	organizer := uuid.New()
	created, appErr := svc.Create(context.Background(), &organizer, createRequest())
	require.Nil(t, appErr)

	newEnd := "10:00"
	updated, appErr := svc.Update(context.Background(), created.ID, organizer,
		&dto.UpdateEventRequest{TimeEnd: &newEnd})
	require.Nil(t, appErr)
	assert.Equal(t, "10:00", updated.TimeEnd)

	slots, err := repo.GetSlotsByEventID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestEventService_Update_NotOrganizer(t *testing.T) {
	svc, _, _ := newEventTestService()

	organizer := uuid.New()
	created, appErr := svc.Create(context.Background(), &organizer, createRequest())
	require.Nil(t, appErr)

	title := "hijack"
	_, appErr = svc.Update(context.Background(), created.ID, uuid.New(),
		&dto.UpdateEventRequest{Title: &title})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestEventService_Delete(t *testing.T) {
	svc, _, _ := newEventTestService()

	organizer := uuid.New()
	created, appErr := svc.Create(context.Background(), &organizer, createRequest())
	require.Nil(t, appErr)

	appErr = svc.Delete(context.Background(), created.ID, organizer)
	require.Nil(t, appErr)

	_, appErr = svc.GetByID(context.Background(), created.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestEventService_ShareInfo(t *testing.T) {
	svc, _, _ := newEventTestService()

	created, appErr := svc.Create(context.Background(), nil, createRequest())
	require.Nil(t, appErr)

	info, appErr := svc.ShareInfo(context.Background(), created.ID)
	require.Nil(t, appErr)
	assert.Equal(t, created.Slug, info.Slug)
	assert.Equal(t, "https://modutime.app/e/"+created.Slug, info.ShareURL)
}

func TestEventService_Dashboard_Access(t *testing.T) {
	svc, _, participantRepo := newEventTestService()

	organizer := uuid.New()
	created, appErr := svc.Create(context.Background(), &organizer, createRequest())
	require.Nil(t, appErr)

	email := "alice@example.com"
	member := participantentity.Participant{
		ID: uuid.New(), EventID: created.ID, Nickname: "alice", Email: &email,
	}
	participantRepo.participants = []participantentity.Participant{member}

	// Organizer.
	_, appErr = svc.Dashboard(context.Background(), created.ID, DashboardAccess{UserID: &organizer})
	require.Nil(t, appErr)

	// Anonymous participant proving identity with id plus email.
	_, appErr = svc.Dashboard(context.Background(), created.ID, DashboardAccess{
		ParticipantID: &member.ID, Email: "Alice@Example.com",
	})
	require.Nil(t, appErr)

	// Wrong email.
	_, appErr = svc.Dashboard(context.Background(), created.ID, DashboardAccess{
		ParticipantID: &member.ID, Email: "other@example.com",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	// Unrelated user.
	stranger := uuid.New()
	_, appErr = svc.Dashboard(context.Background(), created.ID, DashboardAccess{UserID: &stranger})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestEventService_GetBySlug(t *testing.T) {
	svc, _, _ := newEventTestService()

	created, appErr := svc.Create(context.Background(), nil, createRequest())
	require.Nil(t, appErr)

	detail, appErr := svc.GetBySlug(context.Background(), created.Slug)
	require.Nil(t, appErr)
	assert.Equal(t, created.ID, detail.Event.ID)
	assert.Len(t, detail.Slots, 6)
	assert.Equal(t, 0, detail.ParticipantCount)

	_, appErr = svc.GetBySlug(context.Background(), "missing")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}
