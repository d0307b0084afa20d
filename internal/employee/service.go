package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/patch"
	"github.com/stayfix/stayfix/internal/core/common/validation"
	employeeDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/employee"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"github.com/stayfix/stayfix/internal/storage"
)

var (
	ErrRequiredFields  = internal.NewValidationError("Vorname, Nachname und Geburtsdatum sind Pflichtfelder.", internal.ErrCodeRequiredField)
	ErrInvalidStatus   = internal.NewValidationError("Ungültiger Status.", internal.ErrCodeInvalidStatus)
	ErrRuleNotAllowed  = internal.NewValidationError("Benachrichtigungsregel nicht gefunden oder nicht erlaubt.", internal.ErrCodeRuleNotAllowed)
	ErrTitleNotAllowed = internal.NewValidationError("Aufenthaltstitel nicht gefunden oder nicht erlaubt.", internal.ErrCodeTitleNotAllowed)
	ErrUnitNotAllowed  = internal.NewValidationError("Einheit nicht gefunden oder nicht erlaubt.", internal.ErrCodeOrgUnitNotOwned)
	ErrNotFound        = internal.NewNotFoundError("Mitarbeitende/r nicht gefunden.", internal.ErrCodeEmployeeNotFound)
)

type RepositoryAPI interface {
	// List returns the user's employees ordered by created_at. Empty filters match all.
	List(ctx context.Context, userID, status, orgUnitID string) ([]*employeeDatamodel.Employee, error)
	// GetByID returns nil, nil when the employee does not exist for userID.
	GetByID(ctx context.Context, userID, id string) (*employeeDatamodel.Employee, error)
	Create(ctx context.Context, employee *employeeDatamodel.Employee) error
	Update(ctx context.Context, employee *employeeDatamodel.Employee) error
	Delete(ctx context.Context, userID, id string) error
	UpdateDocuments(ctx context.Context, userID, id string, docs []Document) error
}

// ReferenceChecker resolves the records an employee may point at.
type ReferenceChecker interface {
	RuleExists(ctx context.Context, userID, id string) (bool, error)
	OrgUnitExists(ctx context.Context, userID, id string) (bool, error)
	// ResidenceTitle returns nil, nil when the title does not exist for userID.
	ResidenceTitle(ctx context.Context, userID, id string) (*residencetitle.ResidenceTitle, error)
}

type Options struct {
	// MaxUploadBytes caps a single uploaded document. Zero disables the check.
	MaxUploadBytes int64
	Now            func() time.Time
}

type Service struct {
	repo      RepositoryAPI
	refs      ReferenceChecker
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
	maxUpload int64
	now       func() time.Time
}

func NewService(repo RepositoryAPI, refs ReferenceChecker, store storage.Store, publisher events.Publisher, logger *slog.Logger, opts Options) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:      repo,
		refs:      refs,
		store:     store,
		publisher: publisher,
		logger:    logger,
		maxUpload: opts.MaxUploadBytes,
		now:       now,
	}
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Employee, error) {
	rows, err := s.repo.List(ctx, userID, filter.Status, filter.OrgUnitID)
	if err != nil {
		s.logger.Error("failed to list employees", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return Filter(FromDataModels(rows), filter, s.now()), nil
}

func (s *Service) Create(ctx context.Context, userID string, input CreateEmployeeInput) (*Employee, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" || validation.IsBlank(input.Birthdate) {
		return nil, ErrRequiredFields
	}
	birthdate, appErr := validation.ParseDate("birthdate", input.Birthdate)
	if appErr != nil {
		return nil, appErr
	}
	validFrom, appErr := validation.ParseDate("validFrom", input.ValidFrom)
	if appErr != nil {
		return nil, appErr
	}
	validUntil, appErr := validation.ParseDate("validUntil", input.ValidUntil)
	if appErr != nil {
		return nil, appErr
	}

	requested := ""
	if input.Status != nil {
		requested = strings.TrimSpace(*input.Status)
	}
	if err := checkStatus(requested); err != nil {
		return nil, err
	}

	row := &employeeDatamodel.Employee{
		UserID:             userID,
		FirstName:          firstName,
		LastName:           lastName,
		Birthdate:          *birthdate,
		Street:             validation.TrimOrNil(input.Street),
		HouseNumber:        validation.TrimOrNil(input.HouseNumber),
		PostalCode:         validation.TrimOrNil(input.PostalCode),
		City:               validation.TrimOrNil(input.City),
		Email:              validation.TrimOrNil(input.Email),
		Phone:              validation.TrimOrNil(input.Phone),
		EmployeeNumber:     validation.TrimOrNil(input.EmployeeNumber),
		Nationality:        validation.TrimOrNil(input.Nationality),
		OrgUnitID:          validation.TrimOrNil(input.OrgUnitID),
		ResidenceTitleID:   validation.TrimOrNil(input.ResidenceTitleID),
		NotificationRuleID: validation.TrimOrNil(input.NotificationRuleID),
		PermitNumber:       validation.TrimOrNil(input.PermitNumber),
		ValidFrom:          validFrom,
		ValidUntil:         validUntil,
		IssuingAuthority:   validation.TrimOrNil(input.IssuingAuthority),
		Restrictions:       validation.TrimOrNil(input.Restrictions),
		PriorityCheck:      input.PriorityCheck,
		PriorityCode:       validation.TrimOrNil(input.PriorityCode),
		EmploymentDetails:  validation.TrimOrNil(input.EmploymentDetails),
		DocumentURLs:       []Document{},
		Note:               validation.TrimOrNil(input.Note),
	}

	title, err := s.checkReferences(ctx, userID, row.OrgUnitID, row.NotificationRuleID, row.ResidenceTitleID)
	if err != nil {
		return nil, err
	}
	if title != nil {
		if appErr := checkPermitFields(title, row); appErr != nil {
			return nil, appErr
		}
	}
	row.Status = InitialStatus(requested, row.ResidenceTitleID != nil)

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create employee", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID string, input UpdateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, internal.ErrIDRequired
	}
	row, err := s.repo.GetByID(ctx, userID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}
	previous := row.Status

	if input.FirstName != nil {
		if row.FirstName = strings.TrimSpace(*input.FirstName); row.FirstName == "" {
			return nil, ErrRequiredFields
		}
	}
	if input.LastName != nil {
		if row.LastName = strings.TrimSpace(*input.LastName); row.LastName == "" {
			return nil, ErrRequiredFields
		}
	}
	if input.Birthdate != nil {
		if validation.IsBlank(input.Birthdate) {
			return nil, ErrRequiredFields
		}
		birthdate, appErr := validation.ParseDate("birthdate", input.Birthdate)
		if appErr != nil {
			return nil, appErr
		}
		row.Birthdate = *birthdate
	}
	if err := applyDate(&row.ValidFrom, "validFrom", input.ValidFrom); err != nil {
		return nil, err
	}
	if err := applyDate(&row.ValidUntil, "validUntil", input.ValidUntil); err != nil {
		return nil, err
	}

	applyText(&row.Street, input.Street)
	applyText(&row.HouseNumber, input.HouseNumber)
	applyText(&row.PostalCode, input.PostalCode)
	applyText(&row.City, input.City)
	applyText(&row.Email, input.Email)
	applyText(&row.Phone, input.Phone)
	applyText(&row.EmployeeNumber, input.EmployeeNumber)
	applyText(&row.Nationality, input.Nationality)
	applyText(&row.OrgUnitID, input.OrgUnitID)
	applyText(&row.ResidenceTitleID, input.ResidenceTitleID)
	applyText(&row.NotificationRuleID, input.NotificationRuleID)
	applyText(&row.PermitNumber, input.PermitNumber)
	applyText(&row.IssuingAuthority, input.IssuingAuthority)
	applyText(&row.Restrictions, input.Restrictions)
	applyText(&row.PriorityCode, input.PriorityCode)
	applyText(&row.EmploymentDetails, input.EmploymentDetails)
	applyText(&row.Note, input.Note)
	if input.PriorityCheck.Set {
		row.PriorityCheck = input.PriorityCheck.Value
	}

	var orgUnitID, ruleID, titleID *string
	if input.OrgUnitID.Set {
		orgUnitID = row.OrgUnitID
	}
	if input.NotificationRuleID.Set {
		ruleID = row.NotificationRuleID
	}
	if input.ResidenceTitleID.Set {
		titleID = row.ResidenceTitleID
	}
	title, err := s.checkReferences(ctx, userID, orgUnitID, ruleID, titleID)
	if err != nil {
		return nil, err
	}

	if input.touchesPermit() && row.ResidenceTitleID != nil {
		if title == nil {
			// The title may have been deleted since it was assigned; nothing to enforce then.
			if title, err = s.refs.ResidenceTitle(ctx, userID, *row.ResidenceTitleID); err != nil {
				return nil, fmt.Errorf("load residence title: %w", err)
			}
		}
		if title != nil {
			if appErr := checkPermitFields(title, row); appErr != nil {
				return nil, appErr
			}
		}
	}

	hasTitle := row.ResidenceTitleID != nil
	requested := ""
	if input.Status != nil {
		requested = strings.TrimSpace(*input.Status)
	}
	switch {
	case requested != "":
		if err := checkStatus(requested); err != nil {
			return nil, err
		}
		row.Status = InitialStatus(requested, hasTitle)
	case input.ResidenceTitleID.Set:
		row.Status = StatusAfterTitleChange(row.Status, hasTitle)
	}

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update employee", "user_id", userID, "id", row.ID, "error", err)
		return nil, fmt.Errorf("update employee: %w", err)
	}

	if row.Status != previous {
		if err := s.publisher.Publish(ctx, events.NewEmployeeStatusChangedEvent(userID, row.ID, previous, row.Status)); err != nil {
			s.logger.Warn("failed to publish employee status change", "id", row.ID, "error", err)
		}
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return internal.ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete employee", "user_id", userID, "id", id, "error", err)
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// checkReferences verifies that every non-nil id belongs to userID and returns
// the residence title when one was given.
func (s *Service) checkReferences(ctx context.Context, userID string, orgUnitID, ruleID, titleID *string) (*residencetitle.ResidenceTitle, error) {
	if orgUnitID != nil {
		ok, err := s.refs.OrgUnitExists(ctx, userID, *orgUnitID)
		if err != nil {
			return nil, fmt.Errorf("check org unit: %w", err)
		}
		if !ok {
			return nil, ErrUnitNotAllowed
		}
	}
	if ruleID != nil {
		ok, err := s.refs.RuleExists(ctx, userID, *ruleID)
		if err != nil {
			return nil, fmt.Errorf("check notification rule: %w", err)
		}
		if !ok {
			return nil, ErrRuleNotAllowed
		}
	}
	if titleID == nil {
		return nil, nil
	}
	title, err := s.refs.ResidenceTitle(ctx, userID, *titleID)
	if err != nil {
		return nil, fmt.Errorf("check residence title: %w", err)
	}
	if title == nil {
		return nil, ErrTitleNotAllowed
	}
	return title, nil
}

func checkStatus(status string) error {
	if status == "" {
		return nil
	}
	for _, s := range Statuses {
		if s == status {
			return nil
		}
	}
	return ErrInvalidStatus
}

// checkPermitFields enforces the title's require_* flags on row.
func checkPermitFields(title *residencetitle.ResidenceTitle, row *employeeDatamodel.Employee) *internal.AppError {
	values := map[string]interface{}{
		residencetitle.FieldPermitNumber:      row.PermitNumber,
		residencetitle.FieldValidFrom:         row.ValidFrom,
		residencetitle.FieldValidUntil:        row.ValidUntil,
		residencetitle.FieldIssuingAuthority:  row.IssuingAuthority,
		residencetitle.FieldRestrictions:      row.Restrictions,
		residencetitle.FieldPriorityCheck:     row.PriorityCheck,
		residencetitle.FieldPriorityCode:      row.PriorityCode,
		residencetitle.FieldEmploymentDetails: row.EmploymentDetails,
	}
	v := validation.NewValidator()
	for _, field := range title.RequiredFields() {
		v.Field(field, values[field]).Required("Pflichtfeld fehlt: " + field)
	}
	return v.Validate()
}

func applyText(dst **string, f patch.Field[string]) {
	if f.Set {
		*dst = validation.TrimOrNil(f.Value)
	}
}

func applyDate(dst **time.Time, field string, f patch.Field[string]) error {
	if !f.Set {
		return nil
	}
	t, appErr := validation.ParseDate(field, f.Value)
	if appErr != nil {
		return appErr
	}
	*dst = t
	return nil
}
