package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/account-service/internal/api/dto"
	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/service"
	apperrors "github.com/spec-kit/account-service/pkg/util/errorutil"
)

const (
	defaultPage     = 1
	defaultPageSize = 30
	maxPageSize     = 100
)

// UsersHandler exposes the session-protected user administration endpoints.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	if _, err := callerIdentity(c); err != nil {
		return err
	}

	filter, err := parseUserFilter(c)
	if err != nil {
		return err
	}

	users, count, err := h.accounts.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, "OK", dto.NewUserListResponse(users, count)))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	if _, err := callerIdentity(c); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.NewNotFound()
	}

	user, err := h.accounts.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, "OK", dto.NewIdentityResponse(*user)))
}

// UpdatePassword handles POST /users/:id/update_password.
func (h *UsersHandler) UpdatePassword(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	target, err := targetID(c)
	if err != nil {
		return err
	}

	var req dto.UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	if err := h.accounts.UpdatePassword(c.UserContext(), caller, target, req.Password, req.PasswordConfirm); err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, "OK", nil))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerIdentity(c)
	if err != nil {
		return err
	}
	target, err := targetID(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteUser(c.UserContext(), caller, target); err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, "OK", nil))
}

func callerIdentity(c *fiber.Ctx) (domain.Identity, error) {
	identity, ok := auth.IdentityFromContext(c.UserContext())
	if !ok {
		return domain.Identity{}, apperrors.NewUnauthenticated()
	}
	return identity, nil
}

func targetID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError("invalid user id")
	}
	return id, nil
}

func parseUserFilter(c *fiber.Ctx) (domain.UserFilter, error) {
	page := c.QueryInt("page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := domain.UserFilter{Offset: (page - 1) * pageSize, Limit: pageSize}

	rawStatus := strings.TrimSpace(c.Query("status", "all"))
	if rawStatus == "" || strings.EqualFold(rawStatus, "all") {
		return filter, nil
	}
	status, ok := domain.ParseUserStatus(rawStatus)
	if !ok {
		return domain.UserFilter{}, apperrors.NewValidationError("invalid status")
	}
	filter.Status = &status
	return filter, nil
}
