package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/account-service/internal/worker"
)

// ErrPasswordMismatch is returned when a plaintext password does not match its hash.
var ErrPasswordMismatch = errors.New("password mismatch")

// PasswordHasher runs bcrypt on a bounded worker pool so expensive hashing
// cannot starve the goroutines serving other requests.
type PasswordHasher struct {
	cost int
	pool *worker.Pool
}

// NewPasswordHasher constructs a hasher. Invalid costs fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int, pool *worker.Pool) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, pool: pool}
}

// Hash hashes a plaintext password with the configured cost.
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	var hashed []byte
	err := h.pool.Do(ctx, func() error {
		var err error
		hashed, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies a password against its hashed value.
func (h *PasswordHasher) Compare(ctx context.Context, hashed, plain string) error {
	return h.pool.Do(ctx, func() error {
		if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	})
}
