package auth

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var dtoValidator = validator.New()

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (d LoginDTO) Validate() error {
	d.Email = strings.TrimSpace(d.Email)
	if err := dtoValidator.Struct(d); err != nil {
		return ErrCredentialsMissing
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	d.RefreshToken = strings.TrimSpace(d.RefreshToken)
	if err := dtoValidator.Struct(d); err != nil {
		return ErrRefreshMissing
	}
	return nil
}
