// internal/app/features/auth/types.go
package auth

import "github.com/dalemusser/collabhub/internal/domain/models"

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	Company  *string `json:"company" validate:"omitempty,max=100"`
	Position *string `json:"position" validate:"omitempty,max=100"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=500"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// sessionResponse is returned by register and login.
type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
