package service

import (
	"context"
	"strings"
	"time"

	"modutime/core/database"
	"modutime/core/errors"
	"modutime/core/logger"
	evententity "modutime/modules/event/entity"
	"modutime/modules/participant/dto"
	"modutime/modules/participant/entity"
	"modutime/modules/participant/repository"

	"github.com/google/uuid"
)

// EventReader is the slice of the event repository the participant service
// needs: existence checks and the slot list for submit validation.
type EventReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error)
	GetSlotsByEventID(ctx context.Context, eventID uuid.UUID) ([]evententity.TimeSlot, error)
}

type ParticipantService struct {
	repo      repository.ParticipantRepositoryInterface
	eventRepo EventReader
	now       func() time.Time
}

func NewParticipantService(repo repository.ParticipantRepositoryInterface, eventRepo EventReader) *ParticipantService {
	return &ParticipantService{
		repo:      repo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

func (s *ParticipantService) getOpenEvent(ctx context.Context, eventID uuid.UUID) (*evententity.Event, *errors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil || event.IsDeleted {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}

// Register adds a participant to the event roster. The nickname is unique
// per event; when the caller is authenticated the row is linked to the
// account so a later login never duplicates the participant.
func (s *ParticipantService) Register(ctx context.Context, eventID uuid.UUID, req *dto.RegisterParticipantRequest, userID *uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	event, appErr := s.getOpenEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.IsClosed(s.now()) {
		return nil, errors.NewAppError(errors.ErrForbidden, "event deadline has passed", nil)
	}

	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "nickname is required", nil)
	}

	email := normalizeContact(req.Email)

	// An authenticated caller who already joined anonymously with the same
	// contact email gets their existing row linked instead of a duplicate.
	if userID != nil && email != nil {
		existing, err := s.repo.FindAnonymousByEventAndEmail(ctx, eventID, *email)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to check roster", err)
		}
		if existing != nil {
			if err := s.repo.LinkUser(ctx, existing.ID, *userID); err != nil {
				return nil, errors.NewAppError(errors.ErrInternalServer, "failed to link participant", err)
			}
			existing.UserID = userID
			logger.Info("ParticipantService:Register:Linked",
				"event_id", eventID, "participant_id", existing.ID)
			return dto.ToParticipantResponse(existing), nil
		}
	}

	participant := &entity.Participant{
		EventID:  eventID,
		UserID:   userID,
		Nickname: nickname,
		Email:    email,
		Phone:    normalizeContact(req.Phone),
	}

	created, err := s.repo.Create(ctx, participant)
	if err != nil {
		if database.IsUniqueViolation(err, "unique_event_nickname") {
			return nil, errors.NewAppError(errors.ErrDuplicateNickname, "nickname already taken for this event", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to register participant", err)
	}

	logger.Info("ParticipantService:Register", "event_id", eventID, "participant_id", created.ID)
	return dto.ToParticipantResponse(created), nil
}

// Get returns one participant, scoped to the event it belongs to.
func (s *ParticipantService) Get(ctx context.Context, eventID uuid.UUID, participantID uuid.UUID) (*dto.ParticipantResponse, *errors.AppError) {
	participant, appErr := s.getEventParticipant(ctx, eventID, participantID)
	if appErr != nil {
		return nil, appErr
	}
	return dto.ToParticipantResponse(participant), nil
}

// ListByEvent returns the event roster in join order.
func (s *ParticipantService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]dto.ParticipantResponse, *errors.AppError) {
	if _, appErr := s.getOpenEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	participants, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list participants", err)
	}

	result := make([]dto.ParticipantResponse, 0, len(participants))
	for i := range participants {
		result = append(result, *dto.ToParticipantResponse(&participants[i]))
	}
	return result, nil
}

// Remove deletes a participant from the roster; availability rows cascade.
// Organizer only.
func (s *ParticipantService) Remove(ctx context.Context, eventID uuid.UUID, participantID uuid.UUID, userID uuid.UUID) *errors.AppError {
	event, appErr := s.getOpenEvent(ctx, eventID)
	if appErr != nil {
		return appErr
	}
	if event.CreatedBy == nil || *event.CreatedBy != userID {
		return errors.NewAppError(errors.ErrForbidden, "not the event organizer", nil)
	}
	if _, appErr := s.getEventParticipant(ctx, eventID, participantID); appErr != nil {
		return appErr
	}

	if err := s.repo.Delete(ctx, participantID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to remove participant", err)
	}
	logger.Info("ParticipantService:Remove", "event_id", eventID, "participant_id", participantID)
	return nil
}

// SubmitAvailability replaces the participant's availability set with exactly
// the given slots. Resubmitting is a full overwrite, so marks removed on the
// client disappear on the server too.
func (s *ParticipantService) SubmitAvailability(ctx context.Context, eventID uuid.UUID, participantID uuid.UUID, req *dto.SubmitAvailabilityRequest) (*dto.AvailabilityResponse, *errors.AppError) {
	event, appErr := s.getOpenEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.IsClosed(s.now()) {
		return nil, errors.NewAppError(errors.ErrForbidden, "event deadline has passed", nil)
	}

	if _, appErr := s.getEventParticipant(ctx, eventID, participantID); appErr != nil {
		return nil, appErr
	}

	slots, err := s.eventRepo.GetSlotsByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event slots", err)
	}
	valid := make(map[uuid.UUID]bool, len(slots))
	for _, slot := range slots {
		valid[slot.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(req.SlotIDs))
	slotIDs := make([]uuid.UUID, 0, len(req.SlotIDs))
	var unknown []string
	for _, id := range req.SlotIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !valid[id] {
			unknown = append(unknown, id.String())
			continue
		}
		slotIDs = append(slotIDs, id)
	}
	if len(unknown) > 0 {
		return nil, errors.NewAppErrorWithDetails(errors.ErrInvalidSlot, "some slots do not belong to this event",
			map[string]any{"invalid_slot_ids": unknown}, nil)
	}

	if err := s.repo.ReplaceAvailability(ctx, participantID, slotIDs); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save availability", err)
	}

	logger.Info("ParticipantService:SubmitAvailability",
		"event_id", eventID, "participant_id", participantID, "slot_count", len(slotIDs))

	saved, err := s.repo.GetAvailableSlotIDs(ctx, participantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to read back availability", err)
	}

	return &dto.AvailabilityResponse{
		ParticipantID: participantID,
		EventID:       eventID,
		SlotIDs:       saved,
		SlotCount:     len(saved),
	}, nil
}

// GetAvailability returns the participant's current available slots in
// chronological order.
func (s *ParticipantService) GetAvailability(ctx context.Context, eventID uuid.UUID, participantID uuid.UUID) (*dto.AvailabilityResponse, *errors.AppError) {
	if _, appErr := s.getOpenEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}
	if _, appErr := s.getEventParticipant(ctx, eventID, participantID); appErr != nil {
		return nil, appErr
	}

	slotIDs, err := s.repo.GetAvailableSlotIDs(ctx, participantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get availability", err)
	}
	if slotIDs == nil {
		slotIDs = []uuid.UUID{}
	}

	return &dto.AvailabilityResponse{
		ParticipantID: participantID,
		EventID:       eventID,
		SlotIDs:       slotIDs,
		SlotCount:     len(slotIDs),
	}, nil
}

// MergeOnLogin links anonymous participant rows whose contact email matches
// the freshly authenticated user. Called by the auth module after login.
func (s *ParticipantService) MergeOnLogin(ctx context.Context, userID uuid.UUID, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return
	}
	linked, err := s.repo.LinkUserByEmail(ctx, userID, email)
	if err != nil {
		logger.Error("ParticipantService:MergeOnLogin", err)
		return
	}
	if linked > 0 {
		logger.Info("ParticipantService:MergeOnLogin:Linked", "user_id", userID, "count", linked)
	}
}

func (s *ParticipantService) getEventParticipant(ctx context.Context, eventID uuid.UUID, participantID uuid.UUID) (*entity.Participant, *errors.AppError) {
	participant, err := s.repo.GetByID(ctx, participantID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get participant", err)
	}
	if participant == nil || participant.EventID != eventID {
		return nil, errors.NewAppError(errors.ErrNotFound, "participant not found", nil)
	}
	return participant, nil
}

func normalizeContact(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
