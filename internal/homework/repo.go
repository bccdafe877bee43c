package homework

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Store is what the service needs from persistence.
type Store interface {
	Insert(ctx context.Context, hw Homework) (Homework, error)
	ListBySlot(ctx context.Context, slotID string) ([]Homework, error)
}

// Repository persists homework in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new homework.
func (r *Repository) Insert(ctx context.Context, hw Homework) (Homework, error) {
	if hw.ID == "" {
		hw.ID = uuid.NewString()
	}
	if hw.CreatedAt.IsZero() {
		hw.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO homework (id, slot_id, title, description, due_date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, hw.ID, hw.SlotID, hw.Title, hw.Description, hw.DueDate, hw.CreatedAt)
	return hw, err
}

// ListBySlot returns a slot's homework, newest first.
func (r *Repository) ListBySlot(ctx context.Context, slotID string) ([]Homework, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slot_id, title, description, due_date, created_at
		FROM homework WHERE slot_id = $1
		ORDER BY created_at DESC
	`, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Homework
	for rows.Next() {
		var hw Homework
		var due sql.NullTime
		if err := rows.Scan(&hw.ID, &hw.SlotID, &hw.Title, &hw.Description, &due, &hw.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			t := due.Time
			hw.DueDate = &t
		}
		res = append(res, hw)
	}
	return res, rows.Err()
}
