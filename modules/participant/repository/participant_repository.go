package repository

import (
	"context"
	"database/sql"

	"modutime/core/database"
	"modutime/core/logger"
	"modutime/modules/participant/entity"

	"github.com/google/uuid"
)

// ParticipantRepository owns the participants and availabilities tables.
type ParticipantRepository struct {
	DB database.IDatabase
}

func NewParticipantRepository(db database.IDatabase) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

// ParticipantRepositoryInterface defines the repository contract.
type ParticipantRepositoryInterface interface {
	Create(ctx context.Context, participant *entity.Participant) (*entity.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error)
	GetByEventAndNickname(ctx context.Context, eventID uuid.UUID, nickname string) (*entity.Participant, error)
	FindAnonymousByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Participant, error)
	LinkUser(ctx context.Context, participantID uuid.UUID, userID uuid.UUID) error
	LinkUserByEmail(ctx context.Context, userID uuid.UUID, email string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ReplaceAvailability(ctx context.Context, participantID uuid.UUID, slotIDs []uuid.UUID) error
	GetAvailableSlotIDs(ctx context.Context, participantID uuid.UUID) ([]uuid.UUID, error)
	GetAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Availability, error)
	CountAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
}

// ===================== Roster =====================

func (r *ParticipantRepository) Create(ctx context.Context, participant *entity.Participant) (*entity.Participant, error) {
	query := `
		INSERT INTO participants (event_id, user_id, nickname, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, event_id, user_id, nickname, email, phone, created_at
	`

	var created entity.Participant
	err := r.DB.GetContext(ctx, &created, query,
		participant.EventID, participant.UserID, participant.Nickname,
		participant.Email, participant.Phone)
	if err != nil {
		logger.Error("ParticipantRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Participant, error) {
	query := `
		SELECT id, event_id, user_id, nickname, email, phone, created_at
		FROM participants WHERE id = $1
	`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ParticipantRepository:GetByID", err)
		return nil, err
	}

	return &participant, nil
}

func (r *ParticipantRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Participant, error) {
	query := `
		SELECT id, event_id, user_id, nickname, email, phone, created_at
		FROM participants
		WHERE event_id = $1
		ORDER BY created_at, id
	`

	var participants []entity.Participant
	err := r.DB.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:GetByEventID", err)
		return nil, err
	}

	return participants, nil
}

func (r *ParticipantRepository) GetByEventAndNickname(ctx context.Context, eventID uuid.UUID, nickname string) (*entity.Participant, error) {
	query := `
		SELECT id, event_id, user_id, nickname, email, phone, created_at
		FROM participants WHERE event_id = $1 AND nickname = $2
	`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, eventID, nickname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ParticipantRepository:GetByEventAndNickname", err)
		return nil, err
	}

	return &participant, nil
}

func (r *ParticipantRepository) FindAnonymousByEventAndEmail(ctx context.Context, eventID uuid.UUID, email string) (*entity.Participant, error) {
	query := `
		SELECT id, event_id, user_id, nickname, email, phone, created_at
		FROM participants
		WHERE event_id = $1 AND email = $2 AND user_id IS NULL
		ORDER BY created_at
		LIMIT 1
	`

	var participant entity.Participant
	err := r.DB.GetContext(ctx, &participant, query, eventID, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ParticipantRepository:FindAnonymousByEventAndEmail", err)
		return nil, err
	}

	return &participant, nil
}

func (r *ParticipantRepository) LinkUser(ctx context.Context, participantID uuid.UUID, userID uuid.UUID) error {
	query := `UPDATE participants SET user_id = $2 WHERE id = $1 AND user_id IS NULL`
	err := r.DB.ExecContext(ctx, query, participantID, userID)
	if err != nil {
		logger.Error("ParticipantRepository:LinkUser", err)
		return err
	}
	return nil
}

// LinkUserByEmail links every anonymous participant sharing the user's
// contact email, across events. Returns the number of rows linked.
func (r *ParticipantRepository) LinkUserByEmail(ctx context.Context, userID uuid.UUID, email string) (int64, error) {
	result, err := r.DB.NamedExecContext(ctx, `UPDATE participants SET user_id = :user_id WHERE email = :email AND user_id IS NULL`,
		map[string]any{"user_id": userID, "email": email})
	if err != nil {
		logger.Error("ParticipantRepository:LinkUserByEmail", err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM participants WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("ParticipantRepository:Delete", err)
		return err
	}
	return nil
}

// ===================== Availability =====================

// ReplaceAvailability swaps the participant's entire availability set in one
// transaction: delete everything, insert exactly the given ids. A concurrent
// replace for the same participant never observes a mixed state.
func (r *ParticipantRepository) ReplaceAvailability(ctx context.Context, participantID uuid.UUID, slotIDs []uuid.UUID) error {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("ParticipantRepository:ReplaceAvailability:Begin", err)
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM availabilities WHERE participant_id = $1`, participantID); err != nil {
		logger.Error("ParticipantRepository:ReplaceAvailability:Delete", err)
		return err
	}

	insert := `INSERT INTO availabilities (participant_id, slot_id, is_available) VALUES ($1, $2, TRUE)`
	for _, slotID := range slotIDs {
		if _, err := tx.ExecContext(ctx, insert, participantID, slotID); err != nil {
			logger.Error("ParticipantRepository:ReplaceAvailability:Insert", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("ParticipantRepository:ReplaceAvailability:Commit", err)
		return err
	}
	return nil
}

func (r *ParticipantRepository) GetAvailableSlotIDs(ctx context.Context, participantID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT a.slot_id
		FROM availabilities a
		JOIN time_slots s ON s.id = a.slot_id
		WHERE a.participant_id = $1 AND a.is_available = TRUE
		ORDER BY s.start_at
	`

	var ids []uuid.UUID
	err := r.DB.SelectContext(ctx, &ids, query, participantID)
	if err != nil {
		logger.Error("ParticipantRepository:GetAvailableSlotIDs", err)
		return nil, err
	}

	return ids, nil
}

func (r *ParticipantRepository) GetAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) ([]entity.Availability, error) {
	query := `
		SELECT a.participant_id, a.slot_id, a.is_available
		FROM availabilities a
		JOIN time_slots s ON s.id = a.slot_id
		WHERE s.event_id = $1 AND a.is_available = TRUE
	`

	var rows []entity.Availability
	err := r.DB.SelectContext(ctx, &rows, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:GetAvailabilityByEventID", err)
		return nil, err
	}

	return rows, nil
}

func (r *ParticipantRepository) CountAvailabilityByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM availabilities a
		JOIN time_slots s ON s.id = a.slot_id
		WHERE s.event_id = $1
	`

	var count int
	err := r.DB.GetContext(ctx, &count, query, eventID)
	if err != nil {
		logger.Error("ParticipantRepository:CountAvailabilityByEventID", err)
		return 0, err
	}

	return count, nil
}
