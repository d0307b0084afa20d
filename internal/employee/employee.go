package employee

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stayfix/stayfix/internal/core/common/validation"
	employeeDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/employee"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOpen     = "open"
)

var Statuses = []string{StatusActive, StatusInactive, StatusOpen}

type Validity string

const (
	ValidityExpired    Validity = "expired"
	ValidityExpiring30 Validity = "expiring30"
	ValidityExpiring90 Validity = "expiring90"
	ValidityNone       Validity = "none"
)

// Date is a calendar date rendered as YYYY-MM-DD.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(time.DateOnly))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = Date(t)
	return nil
}

func (d Date) String() string {
	return time.Time(d).Format(time.DateOnly)
}

type Document = employeeDatamodel.Document

type Employee struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Status             string     `json:"status"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	Birthdate          Date       `json:"birthdate"`
	Street             *string    `json:"street"`
	HouseNumber        *string    `json:"house_number"`
	PostalCode         *string    `json:"postal_code"`
	City               *string    `json:"city"`
	Email              *string    `json:"email"`
	Phone              *string    `json:"phone"`
	EmployeeNumber     *string    `json:"employee_number"`
	Nationality        *string    `json:"nationality"`
	OrgUnitID          *string    `json:"org_unit_id"`
	ResidenceTitleID   *string    `json:"residence_title_id"`
	NotificationRuleID *string    `json:"notification_rule_id"`
	PermitNumber       *string    `json:"permit_number"`
	ValidFrom          *Date      `json:"valid_from"`
	ValidUntil         *Date      `json:"valid_until"`
	IssuingAuthority   *string    `json:"issuing_authority"`
	Restrictions       *string    `json:"restrictions"`
	PriorityCheck      *bool      `json:"priority_check"`
	PriorityCode       *string    `json:"priority_code"`
	EmploymentDetails  *string    `json:"employment_details"`
	DocumentURLs       []Document `json:"document_urls"`
	Note               *string    `json:"note"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// DaysUntilExpiry reports the days from today until valid_until. ok is false
// when the employee has no expiry date.
func (e *Employee) DaysUntilExpiry(today time.Time) (days int, ok bool) {
	if e.ValidUntil == nil {
		return 0, false
	}
	return validation.DaysBetween(today, time.Time(*e.ValidUntil)), true
}

func (e *Employee) MatchesValidity(v Validity, today time.Time) bool {
	days, ok := e.DaysUntilExpiry(today)
	switch v {
	case ValidityNone:
		return !ok
	case ValidityExpired:
		return ok && days < 0
	case ValidityExpiring30:
		return ok && days >= 0 && days <= 30
	case ValidityExpiring90:
		return ok && days >= 0 && days <= 90
	}
	return true
}

// InitialStatus applies the default and the "no title means open" rule at creation.
func InitialStatus(requested string, hasTitle bool) string {
	status := requested
	if status == "" {
		status = StatusActive
	}
	if !hasTitle && status == StatusActive {
		return StatusOpen
	}
	return status
}

// StatusAfterTitleChange derives the status when only the residence title changes.
func StatusAfterTitleChange(current string, hasTitle bool) string {
	switch {
	case !hasTitle && current != StatusInactive:
		return StatusOpen
	case hasTitle && current == StatusOpen:
		return StatusActive
	}
	return current
}

func toDate(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	docs := e.DocumentURLs
	if docs == nil {
		docs = []Document{}
	}
	return &Employee{
		ID:                 e.ID,
		UserID:             e.UserID,
		Status:             e.Status,
		FirstName:          e.FirstName,
		LastName:           e.LastName,
		Birthdate:          Date(e.Birthdate),
		Street:             e.Street,
		HouseNumber:        e.HouseNumber,
		PostalCode:         e.PostalCode,
		City:               e.City,
		Email:              e.Email,
		Phone:              e.Phone,
		EmployeeNumber:     e.EmployeeNumber,
		Nationality:        e.Nationality,
		OrgUnitID:          e.OrgUnitID,
		ResidenceTitleID:   e.ResidenceTitleID,
		NotificationRuleID: e.NotificationRuleID,
		PermitNumber:       e.PermitNumber,
		ValidFrom:          toDate(e.ValidFrom),
		ValidUntil:         toDate(e.ValidUntil),
		IssuingAuthority:   e.IssuingAuthority,
		Restrictions:       e.Restrictions,
		PriorityCheck:      e.PriorityCheck,
		PriorityCode:       e.PriorityCode,
		EmploymentDetails:  e.EmploymentDetails,
		DocumentURLs:       docs,
		Note:               e.Note,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func FromDataModels(rows []*employeeDatamodel.Employee) []*Employee {
	out := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out
}
