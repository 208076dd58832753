package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

func newTestManager(t *testing.T, secret string, now time.Time) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager(secret, DefaultTokenTTL)
	require.NoError(t, err)
	tm.now = func() time.Time { return now }
	return tm
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	tm, err := NewTokenManager("", DefaultTokenTTL)
	require.ErrorIs(t, err, ErrEmptySecret)
	assert.Nil(t, tm)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(t, "round-trip-secret", now)

	for i := 0; i < 5; i++ {
		id := uuid.New()
		token, err := tm.Sign(id)
		require.NoError(t, err)

		identity, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, identity.ID)
		assert.True(t, identity.IssuedAt.Equal(now))
		assert.Equal(t, 24*time.Hour, identity.ExpiresAt.Sub(identity.IssuedAt))
	}
}

func TestVerify_DifferentSecret(t *testing.T) {
	now := time.Now()
	signer := newTestManager(t, "secret-a", now)
	verifier := newTestManager(t, "secret-b", now)

	token, err := signer.Sign(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tm := newTestManager(t, "expiry-secret", issued)

	token, err := tm.Sign(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr bool
	}{
		{"just before expiry", issued.Add(24*time.Hour - time.Second), false},
		{"exactly at expiry", issued.Add(24 * time.Hour), true},
		{"after expiry", issued.Add(25 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm.now = func() time.Time { return tt.at }
			_, err := tm.Verify(token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerify_Malformed(t *testing.T) {
	now := time.Now()
	tm := newTestManager(t, "malformed-secret", now)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	badSubject, err := noSubject.SignedString([]byte("malformed-secret"))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(now),
	})
	missingExp, err := noExpiry.SignedString([]byte("malformed-secret"))
	require.NoError(t, err)

	good, err := tm.Sign(uuid.New())
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"subject is not a uuid", badSubject},
		{"missing expiry", missingExp},
		{"tampered payload", tampered},
		{"alg none", "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + parts[1] + "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSign_WithoutSecret(t *testing.T) {
	var tm *TokenManager

	_, err := tm.Sign(uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindSigningError, apperrors.KindOf(err))
}

func TestTokenManager_ConcurrentUse(t *testing.T) {
	tm, err := NewTokenManager("concurrent-secret", DefaultTokenTTL)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := uuid.New()
			token, err := tm.Sign(id)
			if err != nil {
				errs <- err
				return
			}
			identity, err := tm.Verify(token)
			if err != nil {
				errs <- err
				return
			}
			if identity.ID != id {
				errs <- ErrInvalidToken
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
}
