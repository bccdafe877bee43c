package homework

import (
	"context"

	"classtrack/internal/apperror"
	"classtrack/internal/timetable"
	"classtrack/internal/users"
)

// SlotGetter is the slice of the timetable store the service needs.
type SlotGetter interface {
	Get(ctx context.Context, id string) (*timetable.Slot, error)
}

// Service owns homework rules: role gating and slot validation.
type Service struct {
	store Store
	slots SlotGetter
}

// NewService creates a service.
func NewService(store Store, slots SlotGetter) *Service {
	return &Service{store: store, slots: slots}
}

// Create posts homework on a slot. Only lecturers and admins publish.
func (s *Service) Create(ctx context.Context, role string, in Input) (Homework, error) {
	if role != users.RoleAdmin && role != users.RoleLecturer {
		return Homework{}, apperror.Forbidden("Only lecturers and admins can post homework")
	}
	if in.Title == "" || in.SlotID == "" {
		return Homework{}, apperror.Invalid("Missing required fields")
	}

	slot, err := s.slots.Get(ctx, in.SlotID)
	if err != nil {
		return Homework{}, err
	}
	if slot == nil {
		return Homework{}, apperror.NotFound("Timetable slot")
	}

	return s.store.Insert(ctx, Homework{
		SlotID:      in.SlotID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
	})
}

// ForSlot returns a slot's homework, newest first. Any signed-in user may
// read; the slot must exist.
func (s *Service) ForSlot(ctx context.Context, slotID string) ([]Homework, error) {
	slot, err := s.slots.Get(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperror.NotFound("Timetable slot")
	}
	return s.store.ListBySlot(ctx, slotID)
}
