package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"modutime/core/logger"
	eventrepo "modutime/modules/event/repository"
	fcrepo "modutime/modules/finalchoice/repository"
	"modutime/modules/notification/dto"
	"modutime/modules/notification/entity"
	"modutime/modules/notification/tasks"
	participantrepo "modutime/modules/participant/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Mailer delivers transactional email. The default implementation only logs;
// wire a real provider in production.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, to, subject, _ string) error {
	logger.Info("Mailer:Send", "to", to, "subject", subject)
	return nil
}

type logSMSSender struct{}

func (logSMSSender) Send(_ context.Context, to, body string) error {
	logger.Info("SMSSender:Send", "to", to, "body", body)
	return nil
}

// Handler processes notification tasks on the worker side: in-app rows for
// registered users, email and SMS fan-out for everyone with a contact.
type Handler struct {
	notifications   *NotificationService
	eventRepo       eventrepo.EventRepositoryInterface
	participantRepo participantrepo.ParticipantRepositoryInterface
	finalChoiceRepo fcrepo.FinalChoiceRepositoryInterface
	mailer          Mailer
	sms             SMSSender
}

func NewHandler(
	notifications *NotificationService,
	eventRepo eventrepo.EventRepositoryInterface,
	participantRepo participantrepo.ParticipantRepositoryInterface,
	finalChoiceRepo fcrepo.FinalChoiceRepositoryInterface,
	mailer Mailer,
	sms SMSSender,
) *Handler {
	if mailer == nil {
		mailer = logMailer{}
	}
	if sms == nil {
		sms = logSMSSender{}
	}
	return &Handler{
		notifications:   notifications,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		finalChoiceRepo: finalChoiceRepo,
		mailer:          mailer,
		sms:             sms,
	}
}

// Register mounts the task handlers on the worker mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeFinalChoice, h.HandleFinalChoice)
	mux.HandleFunc(tasks.TypeReminder, h.HandleReminder)
}

func (h *Handler) HandleFinalChoice(ctx context.Context, t *asynq.Task) error {
	var payload tasks.FinalChoicePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal final choice payload: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, payload.EventID)
	if err != nil {
		return err
	}
	slot, err := h.eventRepo.GetSlotByID(ctx, payload.SlotID)
	if err != nil {
		return err
	}
	if event == nil || slot == nil {
		logger.Warn("Handler:HandleFinalChoice:Gone", "event_id", payload.EventID)
		return nil
	}

	when := h.formatSlot(event.Timezone, slot.StartAt, slot.EndAt)
	subject := fmt.Sprintf("Time confirmed for %s", event.Title)
	body := fmt.Sprintf("The time for %s has been confirmed: %s.", event.Title, when)

	h.fanOut(ctx, payload.EventID, entity.TypeFinalChoice, subject, body, map[string]any{
		"event_id": event.ID.String(),
		"slot_id":  slot.ID.String(),
	})
	return nil
}

func (h *Handler) HandleReminder(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reminder payload: %w", err)
	}

	event, err := h.eventRepo.GetByID(ctx, payload.EventID)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}

	choice, err := h.finalChoiceRepo.GetByEventID(ctx, payload.EventID)
	if err != nil {
		return err
	}
	if choice == nil {
		// Confirmed slot was removed after scheduling; nothing to remind about.
		return nil
	}
	slot, err := h.eventRepo.GetSlotByID(ctx, choice.SlotID)
	if err != nil || slot == nil {
		return err
	}

	when := h.formatSlot(event.Timezone, slot.StartAt, slot.EndAt)
	subject := fmt.Sprintf("Reminder: %s is today", event.Title)
	body := fmt.Sprintf("%s takes place today: %s.", event.Title, when)

	h.fanOut(ctx, payload.EventID, entity.TypeReminder, subject, body, map[string]any{
		"event_id": event.ID.String(),
	})
	return nil
}

// fanOut delivers one message to the whole roster. Per-recipient failures
// are logged and skipped so one bad address never stalls the rest.
func (h *Handler) fanOut(ctx context.Context, eventID uuid.UUID, notifType, subject, body string, data map[string]any) {
	participants, err := h.participantRepo.GetByEventID(ctx, eventID)
	if err != nil {
		logger.Error("Handler:fanOut:Roster", err)
		return
	}

	for i := range participants {
		p := &participants[i]

		if p.UserID != nil {
			req := &dto.CreateNotificationRequest{
				UserID:  *p.UserID,
				Title:   subject,
				Message: body,
				Type:    notifType,
				Data:    data,
			}
			if err := h.notifications.Create(ctx, req); err != nil {
				logger.Error("Handler:fanOut:InApp", err)
			}
		}

		if p.Email != nil {
			if err := h.mailer.Send(ctx, *p.Email, subject, body); err != nil {
				logger.Error("Handler:fanOut:Email", err)
			}
		}
		if p.Phone != nil {
			if err := h.sms.Send(ctx, *p.Phone, body); err != nil {
				logger.Error("Handler:fanOut:SMS", err)
			}
		}
	}
}

func (h *Handler) formatSlot(timezone string, start, end time.Time) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	s := start.In(loc)
	e := end.In(loc)
	return fmt.Sprintf("%s - %s", s.Format("Mon, 02 Jan 2006 15:04"), e.Format("15:04 MST"))
}
