// internal/models/profile.go
package models

import "time"

// Roles. A single role column is the canonical admin rule.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile represents a user account record.
type Profile struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"fullName" db:"full_name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
