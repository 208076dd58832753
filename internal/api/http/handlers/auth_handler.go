package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

// AuthHandler exposes the unauthenticated login and register endpoints.
type AuthHandler struct {
	accounts     *service.AccountService
	secureCookie bool
}

// NewAuthHandler constructs handler. secureCookie sets the Secure flag on the session cookie.
func NewAuthHandler(accounts *service.AccountService, secureCookie bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, secureCookie: secureCookie}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	user, token, err := h.accounts.Login(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(auth.SessionCookie(token, h.secureCookie))
	return c.JSON(dto.NewEnvelope(http.StatusOK, "Login Success", dto.NewIdentityResponse(*user)))
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	id, err := h.accounts.Register(c.UserContext(), service.RegisterInput{
		Name:            req.Name,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.NewEnvelope(http.StatusOK, "OK", id.String()))
}
