package homework

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/apperror"
	"classtrack/internal/timetable"
	"classtrack/internal/users"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	bySlot map[string][]Homework
	next   int
}

func newMemStore() *memStore {
	return &memStore{bySlot: map[string][]Homework{}}
}

func (m *memStore) Insert(_ context.Context, hw Homework) (Homework, error) {
	m.next++
	hw.ID = fmt.Sprintf("hw-%d", m.next)
	// Newest first, like the repository's ORDER BY.
	m.bySlot[hw.SlotID] = append([]Homework{hw}, m.bySlot[hw.SlotID]...)
	return hw, nil
}

func (m *memStore) ListBySlot(_ context.Context, slotID string) ([]Homework, error) {
	return m.bySlot[slotID], nil
}

type mockSlots struct {
	slots map[string]*timetable.Slot
}

func (m *mockSlots) Get(_ context.Context, id string) (*timetable.Slot, error) {
	return m.slots[id], nil
}

func fixtureSlots() *mockSlots {
	return &mockSlots{slots: map[string]*timetable.Slot{
		"slot-1": {ID: "slot-1", UserID: "student-1", Day: "Monday", Time: "09:00", Subject: "Algorithms"},
	}}
}

func TestCreateRoleGate(t *testing.T) {
	svc := NewService(newMemStore(), fixtureSlots())
	in := Input{SlotID: "slot-1", Title: "Read chapter 3"}

	_, err := svc.Create(context.Background(), users.RoleStudent, in)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	hw, err := svc.Create(context.Background(), users.RoleLecturer, in)
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 3", hw.Title)

	_, err = svc.Create(context.Background(), users.RoleAdmin, in)
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemStore(), fixtureSlots())

	_, err := svc.Create(context.Background(), users.RoleLecturer, Input{SlotID: "slot-1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.Create(context.Background(), users.RoleLecturer, Input{Title: "No slot"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.Create(context.Background(), users.RoleLecturer, Input{SlotID: "slot-999", Title: "Ghost"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateKeepsDueDate(t *testing.T) {
	svc := NewService(newMemStore(), fixtureSlots())
	due := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	hw, err := svc.Create(context.Background(), users.RoleLecturer, Input{
		SlotID: "slot-1", Title: "Problem set 2", Description: "Exercises 1-10", DueDate: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, hw.DueDate)
	assert.True(t, hw.DueDate.Equal(due))

	undated, err := svc.Create(context.Background(), users.RoleLecturer, Input{SlotID: "slot-1", Title: "Lecture notes"})
	require.NoError(t, err)
	assert.Nil(t, undated.DueDate)
}

func TestForSlot(t *testing.T) {
	svc := NewService(newMemStore(), fixtureSlots())

	_, err := svc.Create(context.Background(), users.RoleLecturer, Input{SlotID: "slot-1", Title: "First"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), users.RoleLecturer, Input{SlotID: "slot-1", Title: "Second"})
	require.NoError(t, err)

	list, err := svc.ForSlot(context.Background(), "slot-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title, "newest first")

	_, err = svc.ForSlot(context.Background(), "slot-999")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
