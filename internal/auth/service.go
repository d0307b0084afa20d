package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stayfix/stayfix/internal"
	userDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	// GetByID and GetByEmail return nil, nil when no user matches.
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGeneratorAPI
	limiter        LoginLimiter
	logger         *slog.Logger
}

// NewService creates a new auth service. limiter may be nil to disable throttling.
func NewService(userRepo UserRepository, tokenGen TokenGeneratorAPI, limiter LoginLimiter, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		limiter:        limiter,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			// Fail open while Redis is unreachable.
			s.logger.Warn("login limiter unavailable", "error", err)
		} else if !allowed {
			s.logger.Warn("login throttled", "email", email)
			return AuthTokens{}, ErrLoginThrottled
		}
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("look up user: %w", err)
	}
	if u == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("look up user: %w", err)
	}
	if u == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

func (s *Service) issue(u *userDatamodel.User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
