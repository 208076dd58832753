package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// DefaultTokenTTL is the lifetime of a session token.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidToken covers bad signatures, malformed payloads and expired tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned when the signing secret is missing.
	ErrEmptySecret = errors.New("signing secret is empty")
)

// TokenManager handles issuing and validating session tokens.
// The secret is never mutated after construction, so a TokenManager is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Claims describes the token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Sign builds and signs a token for the subject.
func (tm *TokenManager) Sign(subjectID uuid.UUID) (string, error) {
	if tm == nil || len(tm.secret) == 0 {
		return "", apperrors.NewSigningError(ErrEmptySecret)
	}

	issuedAt := tm.now().Truncate(time.Second)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tm.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", apperrors.NewSigningError(err)
	}
	return tokenString, nil
}

// Verify validates the token and returns the identity it carries.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	if tm == nil || len(tm.secret) == 0 {
		return domain.Identity{}, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.IssuedAt == nil {
		return domain.Identity{}, ErrInvalidToken
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}

	return domain.Identity{
		ID:        subjectID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
