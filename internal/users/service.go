package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"classtrack/internal/apperror"
)

// Reminder lead-time bounds in minutes.
const (
	MinLeadTime = 5
	MaxLeadTime = 120
)

// Service owns account rules: registration, login checks, admin role
// management, and reminder settings.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates an account. Self-registration may pick STUDENT or
// LECTURER; anything else silently becomes STUDENT, matching the public
// sign-up form.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, error) {
	if name == "" || email == "" || password == "" {
		return User{}, apperror.Invalid("Missing required fields")
	}
	if role != RoleStudent && role != RoleLecturer {
		role = RoleStudent
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, apperror.Conflict("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.store.Insert(ctx, User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// Authenticate checks credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, apperror.Invalid("Missing email or password")
	}
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, apperror.Unauthenticated("Invalid email or password")
	}
	return *u, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, apperror.NotFound("User")
	}
	return *u, nil
}

// List returns all accounts; admin surface.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// ChangeRole sets a user's role. Admins cannot change their own role, so an
// institution always keeps at least the acting admin.
func (s *Service) ChangeRole(ctx context.Context, actingID, targetID, role string) (User, error) {
	if targetID == "" || !ValidRole(role) {
		return User{}, apperror.Invalid("Invalid payload")
	}
	if targetID == actingID {
		return User{}, apperror.Invalid("Cannot demote yourself")
	}
	u, err := s.store.UpdateRole(ctx, targetID, role)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, apperror.NotFound("User")
	}
	return *u, nil
}

// Remove deletes an account. Self-deletion through the admin path is
// rejected.
func (s *Service) Remove(ctx context.Context, actingID, targetID string) error {
	if targetID == "" {
		return apperror.Invalid("Missing userId parameter")
	}
	if targetID == actingID {
		return apperror.Invalid("Cannot delete yourself")
	}
	u, err := s.store.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if u == nil {
		return apperror.NotFound("User")
	}
	return s.store.Delete(ctx, targetID)
}

// CountStudents counts STUDENT accounts; analytics surface.
func (s *Service) CountStudents(ctx context.Context) (int, error) {
	return s.store.CountByRole(ctx, RoleStudent)
}

// SetLeadTime updates the caller's reminder lead time.
func (s *Service) SetLeadTime(ctx context.Context, userID string, minutes int) error {
	if minutes < MinLeadTime || minutes > MaxLeadTime {
		return apperror.Invalid("Lead time must be between 5 and 120 minutes.")
	}
	return s.store.UpdateLeadTime(ctx, userID, minutes)
}
