package timetable

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Store is what the service needs from persistence.
type Store interface {
	Insert(ctx context.Context, s Slot) (Slot, error)
	InsertMany(ctx context.Context, slots []Slot) ([]Slot, error)
	Get(ctx context.Context, id string) (*Slot, error)
	List(ctx context.Context) ([]Slot, error)
	ListByUser(ctx context.Context, userID string) ([]Slot, error)
	ListByUserAndDay(ctx context.Context, userID, day string) ([]Slot, error)
	ListByDay(ctx context.Context, day string) ([]Slot, error)
	Update(ctx context.Context, s Slot) error
	Delete(ctx context.Context, id string) error
	Collides(ctx context.Context, day, tm, location string) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Repository persists timetable slots in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const slotColumns = `id, user_id, day, time, subject, location, lecturer, created_at`

// Insert writes a new slot.
func (r *Repository) Insert(ctx context.Context, s Slot) (Slot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO timetable_slots (id, user_id, day, time, subject, location, lecturer, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, s.ID, s.UserID, s.Day, s.Time, s.Subject, s.Location, s.Lecturer, s.CreatedAt)
	return s, err
}

// InsertMany writes a reviewed batch in one transaction; all or nothing.
func (r *Repository) InsertMany(ctx context.Context, slots []Slot) ([]Slot, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO timetable_slots (id, user_id, day, time, subject, location, lecturer, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, s.ID, s.UserID, s.Day, s.Time, s.Subject, s.Location, s.Lecturer, s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a slot or nil when absent.
func (r *Repository) Get(ctx context.Context, id string) (*Slot, error) {
	var s Slot
	err := r.db.QueryRowContext(ctx, `SELECT `+slotColumns+` FROM timetable_slots WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &s.Day, &s.Time, &s.Subject, &s.Location, &s.Lecturer, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) querySlots(ctx context.Context, query string, args ...any) ([]Slot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Day, &s.Time, &s.Subject, &s.Location, &s.Lecturer, &s.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// List returns every slot, newest first.
func (r *Repository) List(ctx context.Context) ([]Slot, error) {
	return r.querySlots(ctx, `SELECT `+slotColumns+` FROM timetable_slots ORDER BY created_at DESC`)
}

// ListByUser returns one user's schedule.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Slot, error) {
	return r.querySlots(ctx, `SELECT `+slotColumns+` FROM timetable_slots WHERE user_id = $1 ORDER BY day, time`, userID)
}

// ListByUserAndDay returns one user's classes for a weekday.
func (r *Repository) ListByUserAndDay(ctx context.Context, userID, day string) ([]Slot, error) {
	return r.querySlots(ctx, `SELECT `+slotColumns+` FROM timetable_slots WHERE user_id = $1 AND day = $2 ORDER BY time`, userID, day)
}

// ListByDay returns every class on a weekday; the reminder worker scans this.
func (r *Repository) ListByDay(ctx context.Context, day string) ([]Slot, error) {
	return r.querySlots(ctx, `SELECT `+slotColumns+` FROM timetable_slots WHERE day = $1 ORDER BY time`, day)
}

// Update rewrites the mutable fields of a slot.
func (r *Repository) Update(ctx context.Context, s Slot) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE timetable_slots
		SET day = $2, time = $3, subject = $4, location = $5, lecturer = $6
		WHERE id = $1
	`, s.ID, s.Day, s.Time, s.Subject, s.Location, s.Lecturer)
	return err
}

// Delete removes a slot; attendance rows cascade.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM timetable_slots WHERE id = $1`, id)
	return err
}

// Collides reports whether any slot already occupies day/time/location.
func (r *Repository) Collides(ctx context.Context, day, tm, location string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM timetable_slots WHERE day = $1 AND time = $2 AND location = $3
	`, day, tm, location).Scan(&n)
	return n > 0, err
}

// Count returns the total number of slots.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timetable_slots`).Scan(&n)
	return n, err
}
