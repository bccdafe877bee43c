package users

import "time"

// Roles a user can hold. GUEST is what an unrecognized session degrades to;
// it can read nothing user-owned.
const (
	RoleStudent  = "STUDENT"
	RoleLecturer = "LECTURER"
	RoleAdmin    = "ADMIN"
	RoleGuest    = "GUEST"
)

// ValidRole reports whether role is one of the four known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleLecturer, RoleAdmin, RoleGuest:
		return true
	}
	return false
}

// User is a registered account.
type User struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Role                 string    `json:"role"`
	NotificationLeadTime int       `json:"notificationLeadTime"`
	CreatedAt            time.Time `json:"createdAt"`
}
