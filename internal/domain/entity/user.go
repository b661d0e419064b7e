package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents the access level of a user account.
type Role string

const (
	RoleCustomer        Role = "Customer"
	RoleServiceProvider Role = "ServiceProvider"
	RoleAdmin           Role = "Admin"
)

// IsValid checks if the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// User represents a marketplace account.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User. An empty role defaults to Customer.
func NewUser(name, email, passwordHash string, role Role) *User {
	if role == "" {
		role = RoleCustomer
	}
	now := time.Now().UTC()

	return &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
