package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stayfix/stayfix/internal"
	userDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound      = internal.NewNotFoundError("Benutzer nicht gefunden.", internal.ErrCodeUserNotFound)
	ErrEmailTaken    = internal.NewConflictError("E-Mail ist bereits vergeben.", internal.ErrCodeEmailTaken)
	ErrFieldsMissing = internal.NewValidationError("E-Mail, Name und Passwort sind erforderlich.", internal.ErrCodeRequiredField)
)

type Repository interface {
	// GetByID and GetByEmail return nil, nil when no user matches.
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return FromDataModel(u), nil
}

// Create registers an active user with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if email == "" || name == "" || input.Password == "" {
		return nil, ErrFieldsMissing
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := &userDatamodel.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info("user created", "user_id", row.ID, "email", email)
	return FromDataModel(row), nil
}
