package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// ParseUserStatus accepts a status name case-insensitively.
func ParseUserStatus(raw string) (UserStatus, bool) {
	switch UserStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case UserStatusActive:
		return UserStatusActive, true
	case UserStatusSuspended:
		return UserStatusSuspended, true
	default:
		return "", false
	}
}

// User is the credential record for an account. Name is unique.
type User struct {
	ID           uuid.UUID
	Name         string
	PasswordHash string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns a copy without the password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserFilter narrows user listings. A nil Status matches every status.
type UserFilter struct {
	Status *UserStatus
	Offset int
	Limit  int
}
