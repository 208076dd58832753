package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "user"

type identityKey struct{}

// SessionMiddleware resolves the caller from the session cookie.
type SessionMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, logger *zap.Logger) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. On success the
// identity is bound to the request's user context for the downstream handler.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		return apperrors.NewUnauthenticated()
	}

	identity, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Debug("session token rejected", zap.String("path", c.Path()), zap.NamedError("reason", err))
		return apperrors.NewUnauthenticated()
	}

	m.logger.Debug("session authenticated", zap.String("user_id", identity.ID.String()))
	c.SetUserContext(WithIdentity(c.UserContext(), identity))
	return c.Next()
}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}

// SessionCookie builds the cookie set after a successful login. No expiry is
// set on the cookie; the token's own expiry governs validity.
func SessionCookie(token string, secure bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
	}
}
