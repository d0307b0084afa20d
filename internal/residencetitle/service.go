package residencetitle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/patch"
	"github.com/stayfix/stayfix/internal/core/common/validation"
	residencetitleDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/residencetitle"
)

var (
	ErrNameRequired = internal.NewValidationError("Name des Aufenthaltstitels ist erforderlich.", internal.ErrCodeNameRequired)
	ErrNotFound     = internal.NewNotFoundError("Aufenthaltstitel nicht gefunden.", internal.ErrCodeTitleNotFound)
)

type RepositoryAPI interface {
	List(ctx context.Context, userID string) ([]*residencetitleDatamodel.ResidenceTitle, error)
	// GetByID returns nil, nil when the title does not exist for userID.
	GetByID(ctx context.Context, userID, id string) (*residencetitleDatamodel.ResidenceTitle, error)
	Create(ctx context.Context, title *residencetitleDatamodel.ResidenceTitle) error
	Update(ctx context.Context, title *residencetitleDatamodel.ResidenceTitle) error
	Delete(ctx context.Context, userID, id string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]*ResidenceTitle, error) {
	rows, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list residence titles", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list residence titles: %w", err)
	}
	titles := make([]*ResidenceTitle, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, FromDataModel(row))
	}
	return titles, nil
}

// Get returns nil, nil when the title is unknown for userID.
func (s *Service) Get(ctx context.Context, userID, id string) (*ResidenceTitle, error) {
	row, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load residence title: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(ctx context.Context, userID string, input CreateResidenceTitleInput) (*ResidenceTitle, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	row := &residencetitleDatamodel.ResidenceTitle{
		UserID:                   userID,
		Name:                     name,
		Code:                     validation.TrimOrNil(input.Code),
		Category:                 validation.TrimOrNil(input.Category),
		Country:                  validation.TrimOrNil(input.Country),
		Description:              validation.TrimOrNil(input.Description),
		RequirePermitNumber:      boolOr(input.RequirePermitNumber, true),
		RequireValidFrom:         boolOr(input.RequireValidFrom, true),
		RequireValidUntil:        boolOr(input.RequireValidUntil, true),
		RequireIssuingAuthority:  boolOr(input.RequireIssuingAuthority, false),
		RequireRestrictions:      boolOr(input.RequireRestrictions, false),
		RequirePriorityCheck:     boolOr(input.RequirePriorityCheck, false),
		RequirePriorityCode:      boolOr(input.RequirePriorityCode, false),
		RequireEmploymentDetails: boolOr(input.RequireEmploymentDetails, false),
		RequireDocumentUpload:    boolOr(input.RequireDocumentUpload, true),
		IsActive:                 boolOr(input.IsActive, true),
	}
	if input.SortIndex != nil {
		row.SortIndex = *input.SortIndex
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create residence title", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create residence title: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID string, input UpdateResidenceTitleInput) (*ResidenceTitle, error) {
	if input.ID == "" {
		return nil, internal.ErrIDRequired
	}

	row, err := s.repo.GetByID(ctx, userID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("load residence title: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		row.Name = name
	}
	applyText(&row.Code, input.Code)
	applyText(&row.Category, input.Category)
	applyText(&row.Country, input.Country)
	applyText(&row.Description, input.Description)

	applyBool(&row.IsActive, input.IsActive)
	applyBool(&row.RequirePermitNumber, input.RequirePermitNumber)
	applyBool(&row.RequireValidFrom, input.RequireValidFrom)
	applyBool(&row.RequireValidUntil, input.RequireValidUntil)
	applyBool(&row.RequireIssuingAuthority, input.RequireIssuingAuthority)
	applyBool(&row.RequireRestrictions, input.RequireRestrictions)
	applyBool(&row.RequirePriorityCheck, input.RequirePriorityCheck)
	applyBool(&row.RequirePriorityCode, input.RequirePriorityCode)
	applyBool(&row.RequireEmploymentDetails, input.RequireEmploymentDetails)
	applyBool(&row.RequireDocumentUpload, input.RequireDocumentUpload)
	if input.SortIndex != nil {
		row.SortIndex = *input.SortIndex
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update residence title", "id", input.ID, "error", err)
		return nil, fmt.Errorf("update residence title: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return internal.ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete residence title", "id", id, "error", err)
		return fmt.Errorf("delete residence title: %w", err)
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func applyText(dst **string, f patch.Field[string]) {
	if f.Set {
		*dst = validation.TrimOrNil(f.Value)
	}
}
