package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/domain"
)

// MemoryUserRepository keeps credential records in process memory. It enforces
// the same name uniqueness as the Postgres schema and is used when no DSN is set.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]domain.User
	byName map[string]uuid.UUID
	now    func() time.Time
}

// NewMemoryUserRepository returns an empty in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:   make(map[uuid.UUID]domain.User),
		byName: make(map[string]uuid.UUID),
		now:    time.Now,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Name]; exists {
		return ErrDuplicateName
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Status == "" {
		user.Status = domain.UserStatusActive
	}
	now := r.now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = *user
	r.byName[user.Name] = user.ID
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = r.now().UTC()
	r.byID[id] = user
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byName, user.Name)
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetByName(_ context.Context, name string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *MemoryUserRepository) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	matched := r.matching(filter)
	if filter.Offset >= len(matched) {
		return []domain.User{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *MemoryUserRepository) Count(_ context.Context, filter domain.UserFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *MemoryUserRepository) Ping(context.Context) error {
	return nil
}

func (r *MemoryUserRepository) matching(filter domain.UserFilter) []domain.User {
	r.mu.RLock()
	users := make([]domain.User, 0, len(r.byID))
	for _, user := range r.byID {
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		users = append(users, user)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID.String() < users[j].ID.String()
	})
	return users
}
