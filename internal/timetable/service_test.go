package timetable

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apperror"
	"classtrack/internal/users"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	slots map[string]Slot
	next  int
}

func newMemStore() *memStore {
	return &memStore{slots: map[string]Slot{}}
}

func (m *memStore) Insert(_ context.Context, s Slot) (Slot, error) {
	if s.ID == "" {
		m.next++
		s.ID = fmt.Sprintf("slot-%d", m.next)
	}
	m.slots[s.ID] = s
	return s, nil
}

func (m *memStore) InsertMany(_ context.Context, slots []Slot) ([]Slot, error) {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		saved, _ := m.Insert(context.Background(), s)
		out = append(out, saved)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*Slot, error) {
	s, ok := m.slots[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) List(_ context.Context) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		out = append(out, s)
	}
	return out, nil
}

func (m *memStore) ListByUser(_ context.Context, userID string) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListByUserAndDay(_ context.Context, userID, day string) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		if s.UserID == userID && s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ListByDay(_ context.Context, day string) ([]Slot, error) {
	var out []Slot
	for _, s := range m.slots {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, s Slot) error {
	m.slots[s.ID] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.slots, id)
	return nil
}

func (m *memStore) Collides(_ context.Context, day, tm, location string) (bool, error) {
	for _, s := range m.slots {
		if s.Day == day && s.Time == tm && s.Location == location {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Count(_ context.Context) (int, error) {
	return len(m.slots), nil
}

func validInput() SlotInput {
	return SlotInput{
		Day:      "Monday",
		Time:     "09:00",
		Subject:  "Algorithms",
		Location: "B201",
		Lecturer: "Dr. Ada",
	}
}

func TestCreateRequiresLecturerOrAdmin(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.Create(context.Background(), "u1", users.RoleStudent, validInput())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Create(context.Background(), "u1", users.RoleLecturer, validInput())
	assert.NoError(t, err)

	in := validInput()
	in.Time = "10:00"
	_, err = svc.Create(context.Background(), "u1", users.RoleAdmin, in)
	assert.NoError(t, err)
}

func TestCreateValidatesInput(t *testing.T) {
	svc := NewService(newMemStore())

	tests := []struct {
		name   string
		mutate func(*SlotInput)
	}{
		{"bad day", func(in *SlotInput) { in.Day = "Caturday" }},
		{"bad time", func(in *SlotInput) { in.Time = "9am" }},
		{"empty subject", func(in *SlotInput) { in.Subject = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), "u1", users.RoleAdmin, in)
			assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		})
	}
}

func TestCreateCollisionConflicts(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.Create(context.Background(), "u1", users.RoleAdmin, validInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "u2", users.RoleAdmin, validInput())
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestGetForeignSlotReadsAsNotFound(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	created, err := svc.Create(context.Background(), "owner", users.RoleAdmin, validInput())
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "stranger", created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	got, err := svc.Get(context.Background(), "owner", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUpdateOwnership(t *testing.T) {
	svc := NewService(newMemStore())
	created, err := svc.Create(context.Background(), "owner", users.RoleAdmin, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Subject = "Advanced Algorithms"

	_, err = svc.Update(context.Background(), "stranger", created.ID, in)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.Update(context.Background(), "owner", created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Advanced Algorithms", updated.Subject)
}

func TestDelete(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	created, err := svc.Create(context.Background(), "owner", users.RoleAdmin, validInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), "stranger", created.ID), apperror.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), "owner", created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), "owner", created.ID), apperror.ErrNotFound)
}

func TestImportAllOrNothing(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.Import(context.Background(), "u1", []Candidate{
		{Subject: "Valid", Day: "Monday", Time: "09:00"},
		{Subject: "Broken", Day: "Monday", Time: "25:00"},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Empty(t, store.slots, "invalid batch must not be partially written")
}

func TestImportFillsPlaceholders(t *testing.T) {
	svc := NewService(newMemStore())

	out, err := svc.Import(context.Background(), "u1", []Candidate{
		{Subject: "Ethics", Day: "Tuesday", Time: "11:00"},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, PlaceholderTBA, out[0].Location)
	assert.Equal(t, PlaceholderTBA, out[0].Lecturer)
	assert.Equal(t, "u1", out[0].UserID)
}

func TestImportEmptyBatch(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Import(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestUpcomingToday(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	add := func(day, tm string) {
		in := validInput()
		in.Day, in.Time = day, tm
		in.Location = tm // avoid collisions between fixtures
		_, err := svc.Create(context.Background(), "u1", users.RoleAdmin, in)
		require.NoError(t, err)
	}
	add("Monday", "09:00")
	add("Monday", "09:45")
	add("Monday", "08:00") // already underway
	add("Tuesday", "09:10")

	// Monday 2024-03-04 at 08:50.
	now := time.Date(2024, 3, 4, 8, 50, 0, 0, time.UTC)
	got, err := svc.UpcomingToday(context.Background(), "u1", now, 30)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "09:00", got[0].Time)
}
