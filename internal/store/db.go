package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB wraps sql.DB for Postgres using pgx.
type DB struct {
	Client *sql.DB
}

// NewDB creates a Postgres connection with sane defaults and applies the
// schema.
func NewDB(connString string) (*DB, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(context.Background()); err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &DB{Client: db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id                     TEXT PRIMARY KEY,
		name                   TEXT NOT NULL,
		email                  TEXT UNIQUE NOT NULL,
		password_hash          TEXT NOT NULL,
		role                   TEXT NOT NULL DEFAULT 'STUDENT',
		notification_lead_time INT  NOT NULL DEFAULT 30,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS timetable_slots (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		day        TEXT NOT NULL,
		time       TEXT NOT NULL,
		subject    TEXT NOT NULL,
		location   TEXT NOT NULL,
		lecturer   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_slots_user ON timetable_slots(user_id);
	CREATE INDEX IF NOT EXISTS idx_slots_day  ON timetable_slots(day);

	CREATE TABLE IF NOT EXISTS attendance (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		slot_id    TEXT NOT NULL REFERENCES timetable_slots(id) ON DELETE CASCADE,
		day        DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	-- One mark per student, slot, and calendar day. Concurrent marks race on
	-- this index; the loser surfaces as a conflict.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_once_per_day
		ON attendance(student_id, slot_id, day);

	CREATE TABLE IF NOT EXISTS homework (
		id          TEXT PRIMARY KEY,
		slot_id     TEXT NOT NULL REFERENCES timetable_slots(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date    TIMESTAMPTZ,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_homework_slot ON homework(slot_id);

	CREATE TABLE IF NOT EXISTS user_stats (
		user_id         TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		points          INT NOT NULL DEFAULT 0,
		current_streak  INT NOT NULL DEFAULT 0,
		longest_streak  INT NOT NULL DEFAULT 0,
		last_attendance DATE
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
