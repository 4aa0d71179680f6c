package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names, namespaced so one Redis instance can serve several apps.
const (
	TypeFinalChoice = "notification:final_choice"
	TypeReminder    = "notification:reminder"
)

type FinalChoicePayload struct {
	EventID uuid.UUID `json:"event_id"`
	SlotID  uuid.UUID `json:"slot_id"`
}

type ReminderPayload struct {
	EventID uuid.UUID `json:"event_id"`
}

func NewFinalChoiceTask(eventID, slotID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(FinalChoicePayload{EventID: eventID, SlotID: slotID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeFinalChoice, payload), nil
}

func NewReminderTask(eventID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ReminderPayload{EventID: eventID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReminder, payload), nil
}
