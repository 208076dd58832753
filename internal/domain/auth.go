package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the caller resolved from a verified session token.
type Identity struct {
	ID        uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}
