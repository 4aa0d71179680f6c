package database

import (
	"modutime/core/logger"

	"github.com/jmoiron/sqlx"
)

// Bootstrap DDL. The UNIQUE constraint on final_choices.event_id is load
// bearing: confirming an event must be a single constrained insert, so the
// constraint, not application code, arbitrates concurrent confirms.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		nickname TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by UUID REFERENCES users(id) ON DELETE SET NULL,
		date_start DATE NOT NULL,
		date_end DATE NOT NULL,
		time_start TIME NOT NULL,
		time_end TIME NOT NULL,
		timezone TEXT NOT NULL,
		deadline_at TIMESTAMPTZ,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS time_slots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		start_at TIMESTAMPTZ NOT NULL,
		end_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, start_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_slots_event_start
		ON time_slots (event_id, start_at)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		user_id UUID REFERENCES users(id) ON DELETE SET NULL,
		nickname TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT unique_event_nickname UNIQUE (event_id, nickname)
	)`,
	`CREATE TABLE IF NOT EXISTS availabilities (
		participant_id UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		slot_id UUID NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (participant_id, slot_id)
	)`,
	`CREATE TABLE IF NOT EXISTS final_choices (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		slot_id UUID NOT NULL REFERENCES time_slots(id) ON DELETE CASCADE,
		confirmed_by UUID REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT unique_event_final_choice UNIQUE (event_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the bootstrap schema. Statements are idempotent.
func Migrate(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			logger.Error("Database:Migrate", err)
			return err
		}
	}
	logger.Info("Database schema up to date")
	return nil
}
