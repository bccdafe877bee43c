package attendance

import (
	"context"
	"time"

	"classtrack/internal/apperror"
	"classtrack/internal/gamify"
	"classtrack/internal/timetable"
)

// SlotGetter is the slice of the timetable store the recorder needs.
type SlotGetter interface {
	Get(ctx context.Context, id string) (*timetable.Slot, error)
}

// Service records attendance: ownership validation, once-per-day
// enforcement, and the streak/points transition, all against the store's
// single transaction.
type Service struct {
	store Store
	slots SlotGetter
}

// NewService creates a recorder.
func NewService(store Store, slots SlotGetter) *Service {
	return &Service{store: store, slots: slots}
}

// Result is what a successful mark returns: the new attendance fact and the
// stats snapshot for the client's streak UI.
type Result struct {
	Attendance Record           `json:"attendance"`
	Stats      gamify.UserStats `json:"stats"`
}

// Mark records attendance for the acting student on the given calendar day.
// today must be midnight-truncated (clock.DayOf); validation happens before
// any write, and the attendance insert plus stats update commit atomically.
func (s *Service) Mark(ctx context.Context, studentID, slotID string, today time.Time) (Result, error) {
	if slotID == "" {
		return Result{}, apperror.Invalid("Missing timetableId")
	}

	slot, err := s.slots.Get(ctx, slotID)
	if err != nil {
		return Result{}, err
	}
	if slot == nil {
		return Result{}, apperror.NotFound("Timetable slot")
	}
	if slot.UserID != studentID {
		return Result{}, apperror.Forbidden("You can only mark attendance for your own timetable slots")
	}

	rec, stats, err := s.store.Mark(ctx, studentID, slotID, today, func(prev *gamify.UserStats) gamify.UserStats {
		return gamify.Apply(prev, studentID, today)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Attendance: rec, Stats: stats}, nil
}

// History returns the student's attendance records.
func (s *Service) History(ctx context.Context, studentID string) ([]Record, error) {
	return s.store.ListByStudent(ctx, studentID)
}

// StatsFor returns the user's stats snapshot, zeroed when nothing has been
// counted yet.
func (s *Service) StatsFor(ctx context.Context, userID string) (gamify.UserStats, error) {
	st, err := s.store.Stats(ctx, userID)
	if err != nil {
		return gamify.UserStats{}, err
	}
	if st == nil {
		return gamify.UserStats{UserID: userID}, nil
	}
	return *st, nil
}

// BySubject exposes the analytics aggregation.
func (s *Service) BySubject(ctx context.Context) ([]SubjectCount, error) {
	return s.store.CountBySubject(ctx)
}
