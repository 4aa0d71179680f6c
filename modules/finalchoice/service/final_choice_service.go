package service

import (
	"context"
	"time"

	"modutime/core/constants"
	"modutime/core/database"
	"modutime/core/errors"
	"modutime/core/logger"
	evententity "modutime/modules/event/entity"
	eventrepo "modutime/modules/event/repository"
	"modutime/modules/finalchoice/dto"
	"modutime/modules/finalchoice/entity"
	"modutime/modules/finalchoice/repository"

	"github.com/google/uuid"
)

// Notifier fans out the confirmation and schedules the event-day reminder.
// Implemented by the notification module; a nil Notifier disables both.
type Notifier interface {
	FinalChoiceConfirmed(ctx context.Context, eventID uuid.UUID, slotID uuid.UUID) error
	ScheduleReminder(ctx context.Context, eventID uuid.UUID, at time.Time) error
}

// FinalChoiceService confirms exactly one slot per event.
type FinalChoiceService struct {
	repo      repository.FinalChoiceRepositoryInterface
	eventRepo eventrepo.EventRepositoryInterface
	notifier  Notifier
	now       func() time.Time
}

func NewFinalChoiceService(repo repository.FinalChoiceRepositoryInterface, eventRepo eventrepo.EventRepositoryInterface, notifier Notifier) *FinalChoiceService {
	return &FinalChoiceService{
		repo:      repo,
		eventRepo: eventRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Confirm records the event's final slot. Concurrent confirms are arbitrated
// by the unique constraint on final_choices: the first insert wins and every
// later one maps to ErrAlreadyFinalized, regardless of interleaving.
func (s *FinalChoiceService) Confirm(ctx context.Context, eventID uuid.UUID, userID *uuid.UUID, req *dto.ConfirmRequest) (*dto.FinalChoiceResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}

	if event.CreatedBy != nil {
		if userID == nil {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "login required to confirm this event", nil)
		}
		if *event.CreatedBy != *userID {
			return nil, errors.NewAppError(errors.ErrForbidden, "only the organizer can confirm a slot", nil)
		}
	}

	slot, err := s.eventRepo.GetSlotByID(ctx, req.SlotID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get slot", err)
	}
	if slot == nil || slot.EventID != eventID {
		return nil, errors.NewAppError(errors.ErrSlotNotInEvent, "slot does not belong to this event", nil)
	}

	created, err := s.repo.Create(ctx, &entity.FinalChoice{
		EventID:     eventID,
		SlotID:      req.SlotID,
		ConfirmedBy: userID,
	})
	if err != nil {
		if database.IsUniqueViolation(err, "unique_event_final_choice") {
			return nil, errors.NewAppError(errors.ErrAlreadyFinalized, "event already has a confirmed slot", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to confirm slot", err)
	}

	logger.Info("FinalChoiceService:Confirm", "event_id", eventID, "slot_id", req.SlotID)
	s.notifyConfirmed(ctx, event, slot)

	return dto.ToFinalChoiceResponse(created, slot.StartAt, slot.EndAt), nil
}

// Get returns the confirmed slot, or NotFound while the event is still open.
func (s *FinalChoiceService) Get(ctx context.Context, eventID uuid.UUID) (*dto.FinalChoiceResponse, *errors.AppError) {
	if _, appErr := s.getEvent(ctx, eventID); appErr != nil {
		return nil, appErr
	}

	choice, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get final choice", err)
	}
	if choice == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "no slot confirmed yet", nil)
	}

	slot, err := s.eventRepo.GetSlotByID(ctx, choice.SlotID)
	if err != nil || slot == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get confirmed slot", err)
	}

	return dto.ToFinalChoiceResponse(choice, slot.StartAt, slot.EndAt), nil
}

// notifyConfirmed enqueues the confirmation fan-out and a reminder at 07:00
// local time on the confirmed day. Failures are logged, never surfaced: the
// confirm itself already committed.
func (s *FinalChoiceService) notifyConfirmed(ctx context.Context, event *evententity.Event, slot *evententity.TimeSlot) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.FinalChoiceConfirmed(ctx, event.ID, slot.ID); err != nil {
		logger.Error("FinalChoiceService:notifyConfirmed:FanOut", err)
	}

	loc, err := event.Location()
	if err != nil {
		logger.Error("FinalChoiceService:notifyConfirmed:Location", err)
		return
	}
	local := slot.StartAt.In(loc)
	reminderAt := time.Date(local.Year(), local.Month(), local.Day(), constants.ReminderHour, 0, 0, 0, loc)
	if reminderAt.Before(s.now()) {
		return
	}
	if err := s.notifier.ScheduleReminder(ctx, event.ID, reminderAt); err != nil {
		logger.Error("FinalChoiceService:notifyConfirmed:Reminder", err)
	}
}

func (s *FinalChoiceService) getEvent(ctx context.Context, eventID uuid.UUID) (*evententity.Event, *errors.AppError) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil)
	}
	return event, nil
}
