package timetable

import (
	"context"
	"time"

	"classtrack/internal/apperror"
	"classtrack/internal/clock"
	"classtrack/internal/users"
)

// Service owns slot rules: validation, collision checks, ownership, and
// candidate import.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create adds a slot to the acting user's schedule. Only lecturers and
// admins create slots by hand; a global day/time/location collision is a
// conflict.
func (s *Service) Create(ctx context.Context, ownerID, role string, in SlotInput) (Slot, error) {
	if role != users.RoleAdmin && role != users.RoleLecturer {
		return Slot{}, apperror.Forbidden("Only lecturers and admins can create slots")
	}
	if err := in.Validate(); err != nil {
		return Slot{}, err
	}
	taken, err := s.store.Collides(ctx, in.Day, in.Time, in.Location)
	if err != nil {
		return Slot{}, err
	}
	if taken {
		return Slot{}, apperror.Conflict("Conflict detected: slot exists at this day/time/location.")
	}
	return s.store.Insert(ctx, Slot{
		UserID:   ownerID,
		Day:      in.Day,
		Time:     in.Time,
		Subject:  in.Subject,
		Location: in.Location,
		Lecturer: in.Lecturer,
	})
}

// List returns every slot; any signed-in user may browse.
func (s *Service) List(ctx context.Context) ([]Slot, error) {
	return s.store.List(ctx)
}

// Get fetches a slot from the caller's own schedule. Foreign slots read as
// not found rather than forbidden, so ids cannot be probed.
func (s *Service) Get(ctx context.Context, callerID, id string) (Slot, error) {
	slot, err := s.store.Get(ctx, id)
	if err != nil {
		return Slot{}, err
	}
	if slot == nil || slot.UserID != callerID {
		return Slot{}, apperror.NotFound("Slot")
	}
	return *slot, nil
}

// Update rewrites a slot owned by the caller.
func (s *Service) Update(ctx context.Context, callerID, id string, in SlotInput) (Slot, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return Slot{}, err
	}
	if existing == nil {
		return Slot{}, apperror.NotFound("Slot")
	}
	if existing.UserID != callerID {
		return Slot{}, apperror.Forbidden("You can only edit your own timetable slots")
	}
	if err := in.Validate(); err != nil {
		return Slot{}, err
	}
	updated := *existing
	updated.Day, updated.Time, updated.Subject = in.Day, in.Time, in.Subject
	updated.Location, updated.Lecturer = in.Location, in.Lecturer
	if err := s.store.Update(ctx, updated); err != nil {
		return Slot{}, err
	}
	return updated, nil
}

// Delete removes a slot owned by the caller.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NotFound("Slot")
	}
	if existing.UserID != callerID {
		return apperror.Forbidden("You can only delete your own timetable slots")
	}
	return s.store.Delete(ctx, id)
}

// Import persists reviewed candidates into the caller's schedule. The whole
// batch is validated up front and written in one transaction.
func (s *Service) Import(ctx context.Context, ownerID string, candidates []Candidate) ([]Slot, error) {
	if len(candidates) == 0 {
		return nil, apperror.Invalid("No slots to import")
	}
	slots := make([]Slot, 0, len(candidates))
	for _, c := range candidates {
		in := SlotInput{
			Day:      c.Day,
			Time:     c.Time,
			Subject:  c.Subject,
			Location: c.Location,
			Lecturer: c.Lecturer,
		}
		if in.Location == "" {
			in.Location = PlaceholderTBA
		}
		if in.Lecturer == "" {
			in.Lecturer = PlaceholderTBA
		}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			UserID:   ownerID,
			Day:      in.Day,
			Time:     in.Time,
			Subject:  in.Subject,
			Location: in.Location,
			Lecturer: in.Lecturer,
		})
	}
	return s.store.InsertMany(ctx, slots)
}

// Count returns the total slot count; analytics surface.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// UpcomingToday returns the caller's classes starting within lead minutes of
// now. Classes already underway are excluded.
func (s *Service) UpcomingToday(ctx context.Context, userID string, now time.Time, lead int) ([]Slot, error) {
	slots, err := s.store.ListByUserAndDay(ctx, userID, clock.WeekdayName(now))
	if err != nil {
		return nil, err
	}
	nowMin := clock.MinutesOfDay(now)
	var upcoming []Slot
	for _, slot := range slots {
		start, err := clock.ParseHHMM(slot.Time)
		if err != nil {
			continue
		}
		if diff := start - nowMin; diff > 0 && diff <= lead {
			upcoming = append(upcoming, slot)
		}
	}
	return upcoming, nil
}
