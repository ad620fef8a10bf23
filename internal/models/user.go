package models

import "time"

// RoleUser is the role every registered account carries.
const RoleUser = "ROLE_USER"

// User represents a registered account in the system
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	Email        string    `json:"email"`
	Roles        []string  `json:"roles"`
	PasswordHash string    `json:"-"` // Not serialized
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
