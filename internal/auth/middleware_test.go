package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

func newMiddlewareApp(t *testing.T, tm *TokenManager, logger *zap.Logger, reached *bool) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status, msg := apperrors.Translate(err)
			return c.Status(status).SendString(msg)
		},
	})
	mw := NewSessionMiddleware(tm, logger)
	app.Get("/protected", mw.Handle, func(c *fiber.Ctx) error {
		*reached = true
		identity, ok := IdentityFromContext(c.UserContext())
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(identity.ID.String())
	})
	return app
}

func TestSessionMiddleware(t *testing.T) {
	tm, err := NewTokenManager("middleware-secret", DefaultTokenTTL)
	require.NoError(t, err)
	other, err := NewTokenManager("other-secret", DefaultTokenTTL)
	require.NoError(t, err)
	expired, err := NewTokenManager("middleware-secret", DefaultTokenTTL)
	require.NoError(t, err)
	expired.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	subject := uuid.New()
	valid, err := tm.Sign(subject)
	require.NoError(t, err)
	foreign, err := other.Sign(subject)
	require.NoError(t, err)
	stale, err := expired.Sign(subject)
	require.NoError(t, err)

	tests := []struct {
		name        string
		cookie      string
		wantStatus  int
		wantReached bool
	}{
		{"no cookie", "", http.StatusUnauthorized, false},
		{"garbage cookie", "garbage", http.StatusUnauthorized, false},
		{"wrong secret", foreign, http.StatusUnauthorized, false},
		{"expired", stale, http.StatusUnauthorized, false},
		{"valid", valid, http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			app := newMiddlewareApp(t, tm, zap.NewNop(), &reached)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tt.cookie})
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantReached, reached)
			if tt.wantReached {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, subject.String(), string(body))
			}
		})
	}
}

func TestSessionMiddleware_NeverLogsToken(t *testing.T) {
	tm, err := NewTokenManager("log-secret", DefaultTokenTTL)
	require.NoError(t, err)
	token, err := tm.Sign(uuid.New())
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	reached := false
	app := newMiddlewareApp(t, tm, zap.New(core), &reached)

	for _, cookie := range []string{token, token + "tampered"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookie})
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		assert.NotContains(t, entry.Message, token)
		for key, val := range entry.ContextMap() {
			assert.NotContains(t, key, "token")
			if s, ok := val.(string); ok {
				assert.NotContains(t, s, token)
			}
		}
	}
}

func TestSessionCookie(t *testing.T) {
	cookie := SessionCookie("tok", true)

	assert.Equal(t, "user", cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.True(t, cookie.Secure)
	assert.True(t, cookie.Expires.IsZero())
	assert.Zero(t, cookie.MaxAge)
}
