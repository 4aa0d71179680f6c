package repository

import (
	"context"
	"database/sql"

	"modutime/core/database"
	"modutime/core/entity"
	"modutime/core/logger"
	"modutime/core/params"
	evententity "modutime/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles event and time-slot database operations.
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// EventRepositoryInterface defines the repository contract.
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *evententity.Event) (*evententity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error)
	GetBySlug(ctx context.Context, slug string) (*evententity.Event, error)
	GetByCreator(ctx context.Context, creatorID uuid.UUID, qp params.QueryParams) (*entity.Pagination[evententity.Event], error)
	Update(ctx context.Context, event *evententity.Event) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	SaveSlots(ctx context.Context, eventID uuid.UUID, windows []evententity.SlotWindow) ([]evententity.TimeSlot, error)
	GetSlotsByEventID(ctx context.Context, eventID uuid.UUID) ([]evententity.TimeSlot, error)
	GetSlotByID(ctx context.Context, id uuid.UUID) (*evententity.TimeSlot, error)
	DeleteSlotsByEventID(ctx context.Context, eventID uuid.UUID) error
}

const eventColumns = `id, slug, title, description, created_by, date_start, date_end,
	       time_start::text AS time_start, time_end::text AS time_end, timezone,
	       deadline_at, is_deleted, created_at, updated_at`

// ===================== Event CRUD =====================

func (r *EventRepository) Create(ctx context.Context, event *evententity.Event) (*evententity.Event, error) {
	query := `
		INSERT INTO events (slug, title, description, created_by, date_start, date_end,
		                    time_start, time_end, timezone, deadline_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns

	var created evententity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.Slug, event.Title, event.Description, event.CreatedBy,
		event.DateStart, event.DateEnd, event.TimeStart, event.TimeEnd,
		event.Timezone, event.DeadlineAt)
	if err != nil {
		logger.Error("EventRepository:Create", err)
		return nil, err
	}

	return &created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*evententity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND is_deleted = FALSE`

	var event evententity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetBySlug(ctx context.Context, slug string) (*evententity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1 AND is_deleted = FALSE`

	var event evententity.Event
	err := r.DB.GetContext(ctx, &event, query, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetBySlug", err)
		return nil, err
	}

	return &event, nil
}

func (r *EventRepository) GetByCreator(ctx context.Context, creatorID uuid.UUID, qp params.QueryParams) (*entity.Pagination[evententity.Event], error) {
	countQuery := `SELECT COUNT(*) FROM events WHERE created_by = $1 AND is_deleted = FALSE`

	var total int
	if err := r.DB.GetContext(ctx, &total, countQuery, creatorID); err != nil {
		logger.Error("EventRepository:GetByCreator:Count", err)
		return nil, err
	}

	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE created_by = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var events []evententity.Event
	offset := (qp.PageNumber - 1) * qp.PageSize
	if err := r.DB.SelectContext(ctx, &events, query, creatorID, qp.PageSize, offset); err != nil {
		logger.Error("EventRepository:GetByCreator:Select", err)
		return nil, err
	}

	return &entity.Pagination[evententity.Event]{
		Items:      events,
		TotalItems: total,
		PageNumber: qp.PageNumber,
		PageSize:   qp.PageSize,
	}, nil
}

func (r *EventRepository) Update(ctx context.Context, event *evententity.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, date_start = $4, date_end = $5,
		    time_start = $6, time_end = $7, timezone = $8, deadline_at = $9,
		    updated_at = NOW()
		WHERE id = $1
	`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.DateStart, event.DateEnd,
		event.TimeStart, event.TimeEnd, event.Timezone, event.DeadlineAt)
	if err != nil {
		logger.Error("EventRepository:Update", err)
		return err
	}
	return nil
}

func (r *EventRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE events SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`
	err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("EventRepository:SoftDelete", err)
		return err
	}
	return nil
}

// ===================== Time slots =====================

// SaveSlots persists the generated slot windows for an event in one
// transaction. Called once at event creation, or after a window edit while
// the event still has no availability.
func (r *EventRepository) SaveSlots(ctx context.Context, eventID uuid.UUID, windows []evententity.SlotWindow) ([]evententity.TimeSlot, error) {
	tx, err := r.DB.BeginTxx(ctx)
	if err != nil {
		logger.Error("EventRepository:SaveSlots:Begin", err)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	insert := `
		INSERT INTO time_slots (event_id, start_at, end_at)
		VALUES ($1, $2, $3)
		RETURNING id, event_id, start_at, end_at, created_at
	`

	slots := make([]evententity.TimeSlot, 0, len(windows))
	for _, w := range windows {
		var slot evententity.TimeSlot
		if err := tx.GetContext(ctx, &slot, insert, eventID, w.Start, w.End); err != nil {
			logger.Error("EventRepository:SaveSlots:Insert", err)
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("EventRepository:SaveSlots:Commit", err)
		return nil, err
	}
	return slots, nil
}

func (r *EventRepository) GetSlotsByEventID(ctx context.Context, eventID uuid.UUID) ([]evententity.TimeSlot, error) {
	query := `
		SELECT id, event_id, start_at, end_at, created_at
		FROM time_slots
		WHERE event_id = $1
		ORDER BY start_at
	`

	var slots []evententity.TimeSlot
	err := r.DB.SelectContext(ctx, &slots, query, eventID)
	if err != nil {
		logger.Error("EventRepository:GetSlotsByEventID", err)
		return nil, err
	}

	return slots, nil
}

func (r *EventRepository) GetSlotByID(ctx context.Context, id uuid.UUID) (*evententity.TimeSlot, error) {
	query := `SELECT id, event_id, start_at, end_at, created_at FROM time_slots WHERE id = $1`

	var slot evententity.TimeSlot
	err := r.DB.GetContext(ctx, &slot, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetSlotByID", err)
		return nil, err
	}

	return &slot, nil
}

func (r *EventRepository) DeleteSlotsByEventID(ctx context.Context, eventID uuid.UUID) error {
	query := `DELETE FROM time_slots WHERE event_id = $1`
	err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		logger.Error("EventRepository:DeleteSlotsByEventID", err)
		return err
	}
	return nil
}
