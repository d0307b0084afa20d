package notificationprofile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/validation"
	notificationprofileDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notificationprofile"
)

var (
	ErrNameRequired = internal.NewValidationError("Name ist erforderlich.", internal.ErrCodeNameRequired)
	ErrNotFound     = internal.NewNotFoundError("Profil nicht gefunden.", internal.ErrCodeProfileNotFound)
)

type RepositoryAPI interface {
	List(ctx context.Context, userID string) ([]*notificationprofileDatamodel.Profile, error)
	// GetByID returns nil, nil when the profile does not exist for userID.
	GetByID(ctx context.Context, userID, id string) (*notificationprofileDatamodel.Profile, error)
	Create(ctx context.Context, profile *notificationprofileDatamodel.Profile) error
	Update(ctx context.Context, profile *notificationprofileDatamodel.Profile) error
	Delete(ctx context.Context, userID, id string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, userID string) ([]*Profile, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list notification profiles", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list notification profiles: %w", err)
	}
	out := make([]*Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, userID string, input CreateProfileInput) (*Profile, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	row := &notificationprofileDatamodel.Profile{
		UserID:      userID,
		Name:        name,
		Description: validation.TrimOrNil(input.Description),
		IsActive:    isActive,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create notification profile: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID string, input UpdateProfileInput) (*Profile, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, internal.ErrIDRequired
	}
	row, err := s.repo.GetByID(ctx, userID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("load notification profile: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		if row.Name = strings.TrimSpace(*input.Name); row.Name == "" {
			return nil, ErrNameRequired
		}
	}
	if input.Description.Set {
		row.Description = validation.TrimOrNil(input.Description.Value)
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("update notification profile: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return internal.ErrIDRequired
	}
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("load notification profile: %w", err)
	}
	if row == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete notification profile: %w", err)
	}
	return nil
}
