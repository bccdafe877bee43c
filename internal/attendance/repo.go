package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"classtrack/internal/apperror"
	"classtrack/internal/gamify"
)

const pgUniqueViolation = "23505"

// Store is what the recorder needs from persistence.
type Store interface {
	// Mark inserts the attendance row and applies the stats transition in a
	// single transaction. apply receives the current stats (nil or
	// zero-valued when nothing was ever counted) and returns the next
	// snapshot to persist.
	Mark(ctx context.Context, studentID, slotID string, day time.Time,
		apply func(prev *gamify.UserStats) gamify.UserStats) (Record, gamify.UserStats, error)
	ListByStudent(ctx context.Context, studentID string) ([]Record, error)
	Stats(ctx context.Context, userID string) (*gamify.UserStats, error)
	CountBySubject(ctx context.Context) ([]SubjectCount, error)
}

// Repository persists attendance data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Mark runs the whole marking transaction: duplicate check, insert, stats
// read-modify-write. The unique index on (student_id, slot_id, day) backstops
// the duplicate check under concurrency; the losing transaction rolls back
// whole, so stats are never applied without their attendance row.
func (r *Repository) Mark(ctx context.Context, studentID, slotID string, day time.Time,
	apply func(prev *gamify.UserStats) gamify.UserStats) (Record, gamify.UserStats, error) {

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, gamify.UserStats{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance WHERE student_id = $1 AND slot_id = $2 AND day = $3
	`, studentID, slotID, day).Scan(&exists)
	if err != nil {
		return Record{}, gamify.UserStats{}, err
	}
	if exists > 0 {
		return Record{}, gamify.UserStats{}, apperror.Conflict("Attendance already marked for today")
	}

	rec := Record{
		ID:        uuid.NewString(),
		StudentID: studentID,
		SlotID:    slotID,
		Day:       day,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO attendance (id, student_id, slot_id, day)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.SlotID, rec.Day).Scan(&rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Record{}, gamify.UserStats{}, apperror.Conflict("Attendance already marked for today")
		}
		return Record{}, gamify.UserStats{}, err
	}

	// Seed the stats row before locking it. Without this, two first-ever
	// marks on different slots both read nil stats and the later upsert
	// clobbers the earlier one's points.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_stats (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, studentID)
	if err != nil {
		return Record{}, gamify.UserStats{}, err
	}

	prev, err := statsTx(ctx, tx, studentID, true)
	if err != nil {
		return Record{}, gamify.UserStats{}, err
	}
	next := apply(prev)
	next.UserID = studentID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, points, current_streak, longest_streak, last_attendance)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO UPDATE SET
			points = EXCLUDED.points,
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_attendance = EXCLUDED.last_attendance
	`, next.UserID, next.Points, next.CurrentStreak, next.LongestStreak, next.LastAttendance)
	if err != nil {
		return Record{}, gamify.UserStats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Record{}, gamify.UserStats{}, err
	}
	return rec, next, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func statsTx(ctx context.Context, q queryRower, userID string, forUpdate bool) (*gamify.UserStats, error) {
	query := `SELECT user_id, points, current_streak, longest_streak, last_attendance FROM user_stats WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var st gamify.UserStats
	var last sql.NullTime
	err := q.QueryRowContext(ctx, query, userID).
		Scan(&st.UserID, &st.Points, &st.CurrentStreak, &st.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if last.Valid {
		st.LastAttendance = last.Time
	}
	return &st, nil
}

// ListByStudent returns a student's attendance history, newest first.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_id, slot_id, day, created_at
		FROM attendance WHERE student_id = $1
		ORDER BY day DESC, created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.SlotID, &rec.Day, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}

// Stats returns a user's current stats snapshot, nil when none exist yet.
func (r *Repository) Stats(ctx context.Context, userID string) (*gamify.UserStats, error) {
	return statsTx(ctx, r.db, userID, false)
}

// CountBySubject aggregates attendance totals per subject across all slots.
func (r *Repository) CountBySubject(ctx context.Context) ([]SubjectCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.subject, COUNT(a.id)
		FROM timetable_slots t
		LEFT JOIN attendance a ON a.slot_id = t.id
		GROUP BY t.subject
		ORDER BY t.subject
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []SubjectCount
	for rows.Next() {
		var sc SubjectCount
		if err := rows.Scan(&sc.Subject, &sc.Count); err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	return res, rows.Err()
}
