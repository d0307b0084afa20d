package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/stayfix/stayfix/internal"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrCredentialsMissing = internal.NewValidationError("E-Mail und Passwort sind erforderlich.", internal.ErrCodeCredentialsMissing)
	ErrRefreshMissing     = internal.NewValidationError("refresh_token ist erforderlich.", internal.ErrCodeInvalidToken)
	ErrLoginThrottled     = internal.NewTooManyRequestsError("Zu viele Anmeldeversuche. Bitte später erneut versuchen.", internal.ErrCodeLoginThrottled)
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
