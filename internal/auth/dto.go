package auth

import (
	"time"

	"github.com/davidromeroc/tienda-backend/pkg/db/models"
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// LoginInput is the credential pair.
type LoginInput struct {
	Email    string
	Password string
}

// UserDTO is the public view of an account.
type UserDTO struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	IsAdmin     bool       `json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewUserDTO builds a DTO from the persisted model.
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		IsAdmin:     user.IsAdmin,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// LoginResult carries the minted token and the authenticated user.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}
