package repository

import (
	"context"
	"database/sql"

	"modutime/core/database"
	"modutime/core/logger"
	"modutime/modules/finalchoice/entity"

	"github.com/google/uuid"
)

type FinalChoiceRepository struct {
	DB database.IDatabase
}

func NewFinalChoiceRepository(db database.IDatabase) *FinalChoiceRepository {
	return &FinalChoiceRepository{DB: db}
}

type FinalChoiceRepositoryInterface interface {
	Create(ctx context.Context, choice *entity.FinalChoice) (*entity.FinalChoice, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*entity.FinalChoice, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) error
}

// Create inserts the final choice. The event's uniqueness is arbitrated by
// the database, not by a prior read: callers detect the losing race via the
// unique_event_final_choice violation.
func (r *FinalChoiceRepository) Create(ctx context.Context, choice *entity.FinalChoice) (*entity.FinalChoice, error) {
	query := `
		INSERT INTO final_choices (event_id, slot_id, confirmed_by)
		VALUES ($1, $2, $3)
		RETURNING id, event_id, slot_id, confirmed_by, created_at
	`

	var created entity.FinalChoice
	err := r.DB.GetContext(ctx, &created, query, choice.EventID, choice.SlotID, choice.ConfirmedBy)
	if err != nil {
		if !database.IsUniqueViolation(err, "unique_event_final_choice") {
			logger.Error("FinalChoiceRepository:Create", err)
		}
		return nil, err
	}

	return &created, nil
}

func (r *FinalChoiceRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*entity.FinalChoice, error) {
	query := `
		SELECT id, event_id, slot_id, confirmed_by, created_at
		FROM final_choices WHERE event_id = $1
	`

	var choice entity.FinalChoice
	err := r.DB.GetContext(ctx, &choice, query, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("FinalChoiceRepository:GetByEventID", err)
		return nil, err
	}

	return &choice, nil
}

func (r *FinalChoiceRepository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM final_choices WHERE event_id = $1`
	err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("FinalChoiceRepository:DeleteByEventID", err)
		return err
	}
	return nil
}
