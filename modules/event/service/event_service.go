package service

import (
	"context"
	"strings"
	"time"

	"modutime/core/constants"
	coreentity "modutime/core/entity"
	"modutime/core/errors"
	"modutime/core/logger"
	"modutime/core/params"
	"modutime/core/utils"
	"modutime/modules/event/dto"
	"modutime/modules/event/entity"
	"modutime/modules/event/repository"
	participantrepo "modutime/modules/participant/repository"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// DashboardAccess identifies the caller of organizer-facing endpoints:
// either an authenticated user or an anonymous participant proving identity
// with its id and contact email.
type DashboardAccess struct {
	UserID        *uuid.UUID
	ParticipantID *uuid.UUID
	Email         string
}

// EventService handles event lifecycle and aggregation queries.
type EventService struct {
	repo            repository.EventRepositoryInterface
	participantRepo participantrepo.ParticipantRepositoryInterface
	slotGen         *SlotGenerator
	frontendURL     string
	now             func() time.Time
}

func NewEventService(repo repository.EventRepositoryInterface, participantRepo participantrepo.ParticipantRepositoryInterface, frontendURL string) *EventService {
	return &EventService{
		repo:            repo,
		participantRepo: participantRepo,
		slotGen:         NewSlotGenerator(),
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		now:             time.Now,
	}
}

// ===================== Lifecycle =====================

// Create validates the date/time window, persists the event and generates
// its full slot grid in the event's timezone.
func (s *EventService) Create(ctx context.Context, userID *uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = constants.DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "unknown timezone: "+timezone, err)
	}

	dateStart, appErr := parseDate(req.DateStart)
	if appErr != nil {
		return nil, appErr
	}
	dateEnd, appErr := parseDate(req.DateEnd)
	if appErr != nil {
		return nil, appErr
	}
	timeStart, appErr := ParseTimeOfDay(req.TimeStart)
	if appErr != nil {
		return nil, appErr
	}
	timeEnd, appErr := ParseTimeOfDay(req.TimeEnd)
	if appErr != nil {
		return nil, appErr
	}

	windows, appErr := s.slotGen.Generate(dateStart, dateEnd, timeStart, timeEnd, loc)
	if appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		Slug:        utils.GenerateSlug(title),
		Title:       title,
		Description: req.Description,
		CreatedBy:   userID,
		DateStart:   dateStart,
		DateEnd:     dateEnd,
		TimeStart:   timeStart.String(),
		TimeEnd:     timeEnd.String(),
		Timezone:    timezone,
		DeadlineAt:  req.DeadlineAt,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	if _, err := s.repo.SaveSlots(ctx, created.ID, windows); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate time slots", err)
	}

	logger.Info("EventService:Create", "event_id", created.ID, "slug", created.Slug, "slots", len(windows))
	return dto.ToEventResponse(created, s.now()), nil
}

// GetByID returns the event with its per-slot availability heatmap.
func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*dto.EventDetailResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, id)
	if appErr != nil {
		return nil, appErr
	}
	return s.detail(ctx, event)
}

// GetBySlug resolves the public share link.
func (s *EventService) GetBySlug(ctx context.Context, slug string) (*dto.EventDetailResponse, *errors.AppError) {
	event, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return s.detail(ctx, event)
}

// GetMyEvents lists events created by the user, newest first.
func (s *EventService) GetMyEvents(ctx context.Context, userID uuid.UUID, qp params.QueryParams) (*coreentity.Pagination[dto.EventResponse], *errors.AppError) {
	page, err := s.repo.GetByCreator(ctx, userID, qp)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}

	items := make([]dto.EventResponse, 0, len(page.Items))
	now := s.now()
	for i := range page.Items {
		items = append(items, *dto.ToEventResponse(&page.Items[i], now))
	}

	return &coreentity.Pagination[dto.EventResponse]{
		Items:      items,
		TotalItems: page.TotalItems,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}, nil
}

// Update edits event metadata. The date/time window and timezone are frozen
// once any availability exists: edits would orphan or reshuffle submitted
// marks.
func (s *EventService) Update(ctx context.Context, eventID uuid.UUID, userID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getOwnedEvent(ctx, eventID, userID)
	if appErr != nil {
		return nil, appErr
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", nil)
		}
		event.Title = title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.DeadlineAt != nil {
		event.DeadlineAt = req.DeadlineAt
	}

	windowChanged := req.DateStart != nil || req.DateEnd != nil ||
		req.TimeStart != nil || req.TimeEnd != nil || req.Timezone != nil
	if windowChanged {
		marks, err := s.participantRepo.CountAvailabilityByEventID(ctx, eventID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check availability", err)
		}
		if marks > 0 {
			return nil, errors.NewAppError(errors.ErrForbidden,
				"cannot change the time window after availability has been submitted", nil)
		}
		if appErr := s.applyWindow(ctx, event, req); appErr != nil {
			return nil, appErr
		}
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}

	updated, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToEventResponse(updated, s.now()), nil
}

// applyWindow re-validates the merged window and regenerates the slot grid.
// Only reachable while the event has zero availability rows.
func (s *EventService) applyWindow(ctx context.Context, event *entity.Event, req *dto.UpdateEventRequest) *errors.AppError {
	if req.DateStart != nil {
		d, appErr := parseDate(*req.DateStart)
		if appErr != nil {
			return appErr
		}
		event.DateStart = d
	}
	if req.DateEnd != nil {
		d, appErr := parseDate(*req.DateEnd)
		if appErr != nil {
			return appErr
		}
		event.DateEnd = d
	}
	if req.TimeStart != nil {
		t, appErr := ParseTimeOfDay(*req.TimeStart)
		if appErr != nil {
			return appErr
		}
		event.TimeStart = t.String()
	}
	if req.TimeEnd != nil {
		t, appErr := ParseTimeOfDay(*req.TimeEnd)
		if appErr != nil {
			return appErr
		}
		event.TimeEnd = t.String()
	}
	if req.Timezone != nil {
		event.Timezone = *req.Timezone
	}

	loc, err := event.Location()
	if err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "unknown timezone: "+event.Timezone, err)
	}
	timeStart, appErr := ParseTimeOfDay(event.TimeStart)
	if appErr != nil {
		return appErr
	}
	timeEnd, appErr := ParseTimeOfDay(event.TimeEnd)
	if appErr != nil {
		return appErr
	}

	windows, appErr := s.slotGen.Generate(event.DateStart, event.DateEnd, timeStart, timeEnd, loc)
	if appErr != nil {
		return appErr
	}

	if err := s.repo.DeleteSlotsByEventID(ctx, event.ID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to clear time slots", err)
	}
	if _, err := s.repo.SaveSlots(ctx, event.ID, windows); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to regenerate time slots", err)
	}
	return nil
}

// Delete soft-deletes the event; slots and availability stay for audit.
func (s *EventService) Delete(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) *errors.AppError {
	if _, appErr := s.getOwnedEvent(ctx, eventID, userID); appErr != nil {
		return appErr
	}
	if err := s.repo.SoftDelete(ctx, eventID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to delete event", err)
	}
	logger.Info("EventService:Delete", "event_id", eventID)
	return nil
}

// ShareInfo returns the public link for inviting participants.
func (s *EventService) ShareInfo(ctx context.Context, eventID uuid.UUID) (*dto.ShareInfoResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.ShareInfoResponse{
		Slug:     event.Slug,
		ShareURL: s.frontendURL + "/e/" + event.Slug,
	}, nil
}

// ===================== Aggregation =====================

// Summary returns slots meeting the threshold in chronological order.
// With onlyAllAvailable only full-roster slots are returned.
func (s *EventService) Summary(ctx context.Context, eventID uuid.UUID, minParticipants int, onlyAllAvailable bool) (*dto.SummaryResponse, *errors.AppError) {
	engine, appErr := s.engine(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if minParticipants < constants.DefaultMinParticipants {
		minParticipants = constants.DefaultMinParticipants
	}
	return &dto.SummaryResponse{
		EventID: eventID,
		Slots:   toSlotStatResponses(engine.Summary(minParticipants, onlyAllAvailable)),
	}, nil
}

// Recommend ranks the best slots by availability count.
func (s *EventService) Recommend(ctx context.Context, eventID uuid.UUID, limit int) (*dto.RecommendResponse, *errors.AppError) {
	engine, appErr := s.engine(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if limit <= 0 {
		limit = constants.DefaultRecommendLimit
	}
	ranked, message := engine.Recommend(limit, constants.DefaultMinParticipants)
	return &dto.RecommendResponse{
		EventID: eventID,
		Slots:   toSlotStatResponses(ranked),
		Message: message,
	}, nil
}

// Dashboard returns participation stats for the organizer view. Access is
// limited to the organizer, a roster member linked to the caller's account,
// or a participant proving identity with id plus contact email.
func (s *EventService) Dashboard(ctx context.Context, eventID uuid.UUID, access DashboardAccess) (*dto.DashboardResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := s.checkDashboardAccess(ctx, event, access); appErr != nil {
		return nil, appErr
	}

	engine, appErr := s.engine(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	stats := engine.DashboardStats()
	resp := &dto.DashboardResponse{
		EventID: eventID,
		Stats: dto.DashboardStatsResponse{
			TotalParticipants:     stats.TotalParticipants,
			SubmittedParticipants: stats.SubmittedParticipants,
			PendingParticipants:   stats.PendingParticipants,
			SubmissionRate:        stats.SubmissionRate,
			TotalTimeSlots:        stats.TotalTimeSlots,
		},
	}
	if popular := engine.MostPopularSlot(); popular != nil {
		resp.MostPopular = toSlotStatResponse(popular)
	}
	return resp, nil
}

func (s *EventService) checkDashboardAccess(ctx context.Context, event *entity.Event, access DashboardAccess) *errors.AppError {
	if access.UserID != nil {
		if event.CreatedBy != nil && *event.CreatedBy == *access.UserID {
			return nil
		}
		participants, err := s.participantRepo.GetByEventID(ctx, event.ID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to check roster", err)
		}
		for i := range participants {
			if participants[i].UserID != nil && *participants[i].UserID == *access.UserID {
				return nil
			}
		}
	}

	if access.ParticipantID != nil && access.Email != "" {
		participant, err := s.participantRepo.GetByID(ctx, *access.ParticipantID)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to check participant", err)
		}
		if participant != nil && participant.EventID == event.ID &&
			participant.Email != nil && strings.EqualFold(*participant.Email, access.Email) {
			return nil
		}
	}

	return errors.NewAppError(errors.ErrForbidden, "not allowed to view this dashboard", nil)
}

// ===================== Internals =====================

func (s *EventService) getEvent(ctx context.Context, id uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}

func (s *EventService) getOwnedEvent(ctx context.Context, eventID uuid.UUID, userID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.CreatedBy == nil || *event.CreatedBy != userID {
		return nil, errors.NewAppError(errors.ErrForbidden, "not the event organizer", nil)
	}
	return event, nil
}

// snapshot reads slots, roster and availability in one place so every
// aggregate endpoint computes from the same rows.
func (s *EventService) snapshot(ctx context.Context, eventID uuid.UUID) (Snapshot, *errors.AppError) {
	slots, err := s.repo.GetSlotsByEventID(ctx, eventID)
	if err != nil {
		return Snapshot{}, errors.NewAppError(errors.ErrInternalServer, "failed to get time slots", err)
	}

	participants, err := s.participantRepo.GetByEventID(ctx, eventID)
	if err != nil {
		return Snapshot{}, errors.NewAppError(errors.ErrInternalServer, "failed to get participants", err)
	}
	refs := make([]ParticipantRef, 0, len(participants))
	for i := range participants {
		refs = append(refs, ParticipantRef{ID: participants[i].ID, Nickname: participants[i].Nickname})
	}

	marks, err := s.participantRepo.GetAvailabilityByEventID(ctx, eventID)
	if err != nil {
		return Snapshot{}, errors.NewAppError(errors.ErrInternalServer, "failed to get availability", err)
	}
	rows := make([]AvailabilityRow, 0, len(marks))
	for i := range marks {
		rows = append(rows, AvailabilityRow{ParticipantID: marks[i].ParticipantID, SlotID: marks[i].SlotID})
	}

	return BuildSnapshot(slots, refs, rows), nil
}

func (s *EventService) engine(ctx context.Context, eventID uuid.UUID) (*AggregationEngine, *errors.AppError) {
	if _, appErr := s.getEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}
	snap, appErr := s.snapshot(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	return NewAggregationEngine(snap), nil
}

func (s *EventService) detail(ctx context.Context, event *entity.Event) (*dto.EventDetailResponse, *errors.AppError) {
	snap, appErr := s.snapshot(ctx, event.ID)
	if appErr != nil {
		return nil, appErr
	}
	engine := NewAggregationEngine(snap)

	return &dto.EventDetailResponse{
		Event:            *dto.ToEventResponse(event, s.now()),
		Slots:            toSlotStatResponses(engine.Heatmap()),
		ParticipantCount: len(snap.Participants),
	}, nil
}

func parseDate(s string) (time.Time, *errors.AppError) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.NewAppError(errors.ErrInvalidRange, "invalid date: "+s, err)
	}
	return d, nil
}

func toSlotStatResponse(stat *SlotStat) *dto.SlotStatResponse {
	participants := make([]dto.ParticipantRefResponse, 0, len(stat.Participants))
	for _, p := range stat.Participants {
		participants = append(participants, dto.ParticipantRefResponse{ID: p.ID, Nickname: p.Nickname})
	}
	return &dto.SlotStatResponse{
		ID:           stat.Slot.ID,
		StartAt:      stat.Slot.StartAt,
		EndAt:        stat.Slot.EndAt,
		Count:        stat.Count,
		Percentage:   stat.Percentage,
		Participants: participants,
		AllAvailable: stat.AllAvailable,
	}
}

func toSlotStatResponses(stats []SlotStat) []dto.SlotStatResponse {
	result := make([]dto.SlotStatResponse, 0, len(stats))
	for i := range stats {
		result = append(result, *toSlotStatResponse(&stats[i]))
	}
	return result
}
