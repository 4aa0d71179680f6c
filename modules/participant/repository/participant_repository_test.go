package repository

import (
	"context"
	"testing"
	"time"

	"modutime/core/database"
	"modutime/modules/participant/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRepo(t *testing.T) (*ParticipantRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewParticipantRepository(database.NewDatabase(sqlxDB)), mock
}

var participantColumns = []string{"id", "event_id", "user_id", "nickname", "email", "phone", "created_at"}

func TestParticipantRepository_Create(t *testing.T) {
	repo, mock := setupMockRepo(t)

	id := uuid.New()
	eventID := uuid.New()

	rows := sqlmock.NewRows(participantColumns).
		AddRow(id, eventID, nil, "alice", nil, nil, time.Now())

	mock.ExpectQuery(`INSERT INTO participants`).
		WithArgs(eventID, nil, "alice", nil, nil).
		WillReturnRows(rows)

	created, err := repo.Create(context.Background(), &entity.Participant{
		EventID:  eventID,
		Nickname: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_Create_DuplicateNickname(t *testing.T) {
	repo, mock := setupMockRepo(t)

	eventID := uuid.New()
	dup := &pq.Error{Code: "23505", Constraint: "unique_event_nickname"}
	mock.ExpectQuery(`INSERT INTO participants`).
		WithArgs(eventID, nil, "alice", nil, nil).
		WillReturnError(dup)

	_, err := repo.Create(context.Background(), &entity.Participant{
		EventID:  eventID,
		Nickname: "alice",
	})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err, "unique_event_nickname"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupMockRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM participants WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(participantColumns))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_ReplaceAvailability(t *testing.T) {
	repo, mock := setupMockRepo(t)

	participantID := uuid.New()
	slotA := uuid.New()
	slotB := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM availabilities WHERE participant_id = \$1`).
		WithArgs(participantID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`INSERT INTO availabilities`).
		WithArgs(participantID, slotA).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO availabilities`).
		WithArgs(participantID, slotB).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceAvailability(context.Background(), participantID, []uuid.UUID{slotA, slotB})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_ReplaceAvailability_EmptySet(t *testing.T) {
	repo, mock := setupMockRepo(t)

	participantID := uuid.New()

	// Clearing every mark is a valid submission: delete with no inserts.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM availabilities WHERE participant_id = \$1`).
		WithArgs(participantID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.ReplaceAvailability(context.Background(), participantID, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepository_GetAvailableSlotIDs(t *testing.T) {
	repo, mock := setupMockRepo(t)

	participantID := uuid.New()
	slotA := uuid.New()
	slotB := uuid.New()

	rows := sqlmock.NewRows([]string{"slot_id"}).AddRow(slotA).AddRow(slotB)
	mock.ExpectQuery(`SELECT a.slot_id FROM availabilities a JOIN time_slots s`).
		WithArgs(participantID).
		WillReturnRows(rows)

	ids, err := repo.GetAvailableSlotIDs(context.Background(), participantID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{slotA, slotB}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
