package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// bcrypt ignores input beyond 72 bytes and newer versions reject it outright.
const maxPasswordBytes = 72

// AccountService coordinates login, registration and user administration.
type AccountService struct {
	users  repository.UserRepository
	cache  repository.IdentityCache
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	events events.Dispatcher
	logger *zap.Logger

	dummyMu   sync.Mutex
	dummyHash string
}

// AccountDependencies encapsulates collaborators for the account service.
// Cache and Events are optional.
type AccountDependencies struct {
	Users  repository.UserRepository
	Cache  repository.IdentityCache
	Hasher *auth.PasswordHasher
	Tokens *auth.TokenManager
	Events events.Dispatcher
	Logger *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:  deps.Users,
		cache:  deps.Cache,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		events: deps.Events,
		logger: logger,
	}
}

// RegisterInput is the registration request.
type RegisterInput struct {
	Name            string
	Password        string
	PasswordConfirm string
}

// Login authenticates by name and password and issues a session token.
// An unknown name and a wrong password both yield WrongCredentials.
func (s *AccountService) Login(ctx context.Context, name, password string) (*domain.User, string, error) {
	if strings.TrimSpace(name) == "" || password == "" {
		return nil, "", apperrors.NewValidationError("name and password required")
	}

	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep the unknown-name path as slow as a real comparison
			_ = s.hasher.Compare(ctx, s.fallbackHash(ctx), password)
			return nil, "", apperrors.NewWrongCredentials()
		}
		return nil, "", s.storeError(ctx, "lookup user by name", err)
	}

	if err := s.hasher.Compare(ctx, user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", apperrors.NewWrongCredentials()
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.NewEvent(events.EventUserLoggedIn, user.ID, &user.ID))
	public := user.Public()
	return &public, token, nil
}

// Register creates a new account and returns its id.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	if in.Password != in.PasswordConfirm {
		return uuid.Nil, apperrors.NewValidationError("Passwords don't match")
	}
	// names are stored and matched exactly as given
	name := in.Name
	if err := validateCredentials(name, in.Password); err != nil {
		return uuid.Nil, err
	}

	// Advisory only: the unique constraint on name is the authoritative guard.
	if _, err := s.users.GetByName(ctx, name); err == nil {
		return uuid.Nil, apperrors.NewConflict(nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return uuid.Nil, s.storeError(ctx, "lookup user by name", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return uuid.Nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return uuid.Nil, s.storeError(ctx, "create user", err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, nil))
	return user.ID, nil
}

// UpdatePassword replaces the password of target on behalf of caller.
func (s *AccountService) UpdatePassword(ctx context.Context, caller domain.Identity, target uuid.UUID, password, passwordConfirm string) error {
	if caller.ID == target {
		return apperrors.NewOperationConflict()
	}
	if password != passwordConfirm {
		return apperrors.NewValidationError("Passwords don't match")
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, target, hash); err != nil {
		return s.storeError(ctx, "update password", err)
	}

	s.invalidate(ctx, target)
	s.publish(ctx, events.NewEvent(events.EventPasswordUpdated, target, &caller.ID))
	return nil
}

// DeleteUser removes target on behalf of caller.
func (s *AccountService) DeleteUser(ctx context.Context, caller domain.Identity, target uuid.UUID) error {
	if caller.ID == target {
		return apperrors.NewOperationConflict()
	}
	if _, err := s.users.GetByID(ctx, target); err != nil {
		return s.storeError(ctx, "lookup user by id", err)
	}
	if err := s.users.Delete(ctx, target); err != nil {
		return s.storeError(ctx, "delete user", err)
	}

	s.invalidate(ctx, target)
	s.publish(ctx, events.NewEvent(events.EventUserDeleted, target, &caller.ID))
	return nil
}

// ListUsers returns one page of identities and the total matching count.
func (s *AccountService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, s.storeError(ctx, "list users", err)
	}
	count, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, s.storeError(ctx, "count users", err)
	}
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, count, nil
}

// GetUser returns a single identity, reading through the identity cache.
func (s *AccountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			s.logger.Warn("identity cache read failed", zap.String("user_id", id.String()), zap.Error(err))
		}
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "lookup user by id", err)
	}
	public := user.Public()

	if s.cache != nil {
		if err := s.cache.Set(ctx, public); err != nil {
			s.logger.Warn("identity cache write failed", zap.String("user_id", id.String()), zap.Error(err))
		}
	}
	return &public, nil
}

// Ping checks the credential store.
func (s *AccountService) Ping(ctx context.Context) error {
	return s.users.Ping(ctx)
}

func (s *AccountService) storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound()
	case errors.Is(err, repository.ErrDuplicateName):
		return apperrors.NewConflict(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewInternalError(err)
	}
	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewStoreError(err)
}

func (s *AccountService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("identity cache invalidation failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

// fallbackHash lazily prepares the hash compared against for unknown names.
// A failed attempt is retried on the next call.
func (s *AccountService) fallbackHash(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.Hash(context.WithoutCancel(ctx), uuid.NewString())
	if err != nil {
		s.logger.Warn("unable to prepare fallback hash", zap.Error(err))
		return ""
	}
	s.dummyHash = hash
	return s.dummyHash
}

func validateCredentials(name, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name required")
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if password == "" {
		return apperrors.NewValidationError("password required")
	}
	if len(password) > maxPasswordBytes {
		return apperrors.NewValidationError("password too long")
	}
	return nil
}
