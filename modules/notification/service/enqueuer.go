package service

import (
	"context"
	"time"

	"modutime/core/logger"
	"modutime/modules/notification/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Enqueuer pushes notification work onto the asynq queue. It satisfies the
// final-choice module's Notifier so confirms never block on delivery.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) FinalChoiceConfirmed(ctx context.Context, eventID uuid.UUID, slotID uuid.UUID) error {
	task, err := tasks.NewFinalChoiceTask(eventID, slotID)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	if err != nil {
		return err
	}
	logger.Info("Enqueuer:FinalChoiceConfirmed", "task_id", info.ID, "event_id", eventID)
	return nil
}

func (e *Enqueuer) ScheduleReminder(ctx context.Context, eventID uuid.UUID, at time.Time) error {
	task, err := tasks.NewReminderTask(eventID)
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.ProcessAt(at), asynq.MaxRetry(3))
	if err != nil {
		return err
	}
	logger.Info("Enqueuer:ScheduleReminder", "task_id", info.ID, "event_id", eventID, "at", at)
	return nil
}
