package dto

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name            string `json:"name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// UpdatePasswordRequest payload for password changes.
type UpdatePasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// IdentityResponse is the public view of an account.
type IdentityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse is one page of identities.
type UserListResponse struct {
	List  []IdentityResponse `json:"list"`
	Count int64              `json:"count"`
}

// NewIdentityResponse maps a user to its public view.
func NewIdentityResponse(user domain.User) IdentityResponse {
	return IdentityResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserListResponse maps a page of users.
func NewUserListResponse(users []domain.User, count int64) UserListResponse {
	list := make([]IdentityResponse, 0, len(users))
	for _, user := range users {
		list = append(list, NewIdentityResponse(user))
	}
	return UserListResponse{List: list, Count: count}
}
