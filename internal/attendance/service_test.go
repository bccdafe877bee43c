package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apperror"
	"classtrack/internal/gamify"
	"classtrack/internal/timetable"
)

// mockStore simulates the transactional store with an in-memory mark set.
type mockStore struct {
	marked map[string]bool // studentID|slotID|day
	stats  map[string]*gamify.UserStats
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{
		marked: map[string]bool{},
		stats:  map[string]*gamify.UserStats{},
	}
}

func markKey(studentID, slotID string, day time.Time) string {
	return studentID + "|" + slotID + "|" + day.Format("2006-01-02")
}

func (m *mockStore) Mark(_ context.Context, studentID, slotID string, day time.Time,
	apply func(prev *gamify.UserStats) gamify.UserStats) (Record, gamify.UserStats, error) {
	if m.err != nil {
		return Record{}, gamify.UserStats{}, m.err
	}
	key := markKey(studentID, slotID, day)
	if m.marked[key] {
		return Record{}, gamify.UserStats{}, apperror.Conflict("Attendance already marked for today")
	}
	m.marked[key] = true
	next := apply(m.stats[studentID])
	m.stats[studentID] = &next
	rec := Record{ID: "rec-" + key, StudentID: studentID, SlotID: slotID, Day: day, CreatedAt: day}
	return rec, next, nil
}

func (m *mockStore) ListByStudent(_ context.Context, _ string) ([]Record, error) {
	return nil, m.err
}

func (m *mockStore) Stats(_ context.Context, userID string) (*gamify.UserStats, error) {
	return m.stats[userID], m.err
}

func (m *mockStore) CountBySubject(_ context.Context) ([]SubjectCount, error) {
	return nil, m.err
}

// mockSlots serves slots by id.
type mockSlots struct {
	slots map[string]*timetable.Slot
}

func (m *mockSlots) Get(_ context.Context, id string) (*timetable.Slot, error) {
	return m.slots[id], nil
}

func fixtureSlots() *mockSlots {
	return &mockSlots{slots: map[string]*timetable.Slot{
		"slot-1": {ID: "slot-1", UserID: "student-1", Day: "Monday", Time: "09:00", Subject: "Algorithms"},
		"slot-2": {ID: "slot-2", UserID: "student-2", Day: "Tuesday", Time: "10:00", Subject: "Databases"},
	}}
}

func TestMarkSuccess(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	res, err := svc.Mark(context.Background(), "student-1", "slot-1", today)
	require.NoError(t, err)
	assert.Equal(t, "student-1", res.Attendance.StudentID)
	assert.Equal(t, "slot-1", res.Attendance.SlotID)
	assert.Equal(t, 10, res.Stats.Points)
	assert.Equal(t, 1, res.Stats.CurrentStreak)
}

func TestMarkMissingSlotID(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	_, err := svc.Mark(context.Background(), "student-1", "", time.Now())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestMarkSlotNotFound(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	_, err := svc.Mark(context.Background(), "student-1", "slot-missing", time.Now())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMarkForeignSlotForbidden(t *testing.T) {
	store := newMockStore()
	svc := NewService(store, fixtureSlots())

	_, err := svc.Mark(context.Background(), "student-1", "slot-2", time.Now())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, store.marked, "nothing should be written on a forbidden mark")
}

func TestMarkTwiceSameDayConflicts(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := svc.Mark(context.Background(), "student-1", "slot-1", today)
	require.NoError(t, err)

	_, err = svc.Mark(context.Background(), "student-1", "slot-1", today)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestMarkConsecutiveDaysBuildStreak(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	day1 := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	_, err := svc.Mark(context.Background(), "student-1", "slot-1", day1)
	require.NoError(t, err)

	res, err := svc.Mark(context.Background(), "student-1", "slot-1", day2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.CurrentStreak)
	assert.Equal(t, 25, res.Stats.Points, "10 base + 10 base + 5 streak bonus")
}

func TestStatsForZeroesMissingRow(t *testing.T) {
	svc := NewService(newMockStore(), fixtureSlots())
	st, err := svc.StatsFor(context.Background(), "student-9")
	require.NoError(t, err)
	assert.Equal(t, "student-9", st.UserID)
	assert.Zero(t, st.Points)
	assert.Zero(t, st.CurrentStreak)
}

func TestMarkStoreErrorPropagates(t *testing.T) {
	store := newMockStore()
	store.err = errors.New("connection reset")
	svc := NewService(store, fixtureSlots())

	_, err := svc.Mark(context.Background(), "student-1", "slot-1", time.Now())
	assert.Error(t, err)
}
