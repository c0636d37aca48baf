package session

import (
	"time"
)

// RoleAdmin is the name of the administrator role
const RoleAdmin = "admin"

// User is the authenticated dashboard user
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Role     Role   `json:"role"`
}

// Role is the dashboard user role
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user holds the administrator role
func (u User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}

// Display returns the user's display name
func (u User) Display() string {
	if u.Name == "" {
		return u.Username
	}
	return u.Name + " (" + u.Username + ")"
}
