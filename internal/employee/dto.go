package employee

import "github.com/stayfix/stayfix/internal/core/common/patch"

type CreateEmployeeInput struct {
	FirstName          string  `json:"firstName"`
	LastName           string  `json:"lastName"`
	Birthdate          *string `json:"birthdate"`
	Street             *string `json:"street"`
	HouseNumber        *string `json:"houseNumber"`
	PostalCode         *string `json:"postalCode"`
	City               *string `json:"city"`
	Email              *string `json:"email"`
	Phone              *string `json:"phone"`
	EmployeeNumber     *string `json:"employeeNumber"`
	Nationality        *string `json:"nationality"`
	OrgUnitID          *string `json:"orgUnitId"`
	ResidenceTitleID   *string `json:"residenceTitleId"`
	NotificationRuleID *string `json:"notificationRuleId"`
	Status             *string `json:"status"`
	PermitNumber       *string `json:"permitNumber"`
	ValidFrom          *string `json:"validFrom"`
	ValidUntil         *string `json:"validUntil"`
	IssuingAuthority   *string `json:"issuingAuthority"`
	Restrictions       *string `json:"restrictions"`
	PriorityCheck      *bool   `json:"priorityCheck"`
	PriorityCode       *string `json:"priorityCode"`
	EmploymentDetails  *string `json:"employmentDetails"`
	Note               *string `json:"note"`
}

// UpdateEmployeeInput carries PATCH semantics; null clears a nullable field.
type UpdateEmployeeInput struct {
	ID                 string              `json:"id"`
	FirstName          *string             `json:"firstName"`
	LastName           *string             `json:"lastName"`
	Birthdate          *string             `json:"birthdate"`
	Street             patch.Field[string] `json:"street"`
	HouseNumber        patch.Field[string] `json:"houseNumber"`
	PostalCode         patch.Field[string] `json:"postalCode"`
	City               patch.Field[string] `json:"city"`
	Email              patch.Field[string] `json:"email"`
	Phone              patch.Field[string] `json:"phone"`
	EmployeeNumber     patch.Field[string] `json:"employeeNumber"`
	Nationality        patch.Field[string] `json:"nationality"`
	OrgUnitID          patch.Field[string] `json:"orgUnitId"`
	ResidenceTitleID   patch.Field[string] `json:"residenceTitleId"`
	NotificationRuleID patch.Field[string] `json:"notificationRuleId"`
	Status             *string             `json:"status"`
	PermitNumber       patch.Field[string] `json:"permitNumber"`
	ValidFrom          patch.Field[string] `json:"validFrom"`
	ValidUntil         patch.Field[string] `json:"validUntil"`
	IssuingAuthority   patch.Field[string] `json:"issuingAuthority"`
	Restrictions       patch.Field[string] `json:"restrictions"`
	PriorityCheck      patch.Field[bool]   `json:"priorityCheck"`
	PriorityCode       patch.Field[string] `json:"priorityCode"`
	EmploymentDetails  patch.Field[string] `json:"employmentDetails"`
	Note               patch.Field[string] `json:"note"`
}

// touchesPermit reports whether the patch changes the title or any permit field.
func (in UpdateEmployeeInput) touchesPermit() bool {
	return in.ResidenceTitleID.Set || in.PermitNumber.Set || in.ValidFrom.Set ||
		in.ValidUntil.Set || in.IssuingAuthority.Set || in.Restrictions.Set ||
		in.PriorityCheck.Set || in.PriorityCode.Set || in.EmploymentDetails.Set
}

type ListFilter struct {
	Query     string
	Status    string
	OrgUnitID string
	Validity  Validity
}

// UploadFile is one uploaded document before it is stored.
type UploadFile struct {
	Name string
	Data []byte
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}

type DocumentsResponse struct {
	Success   bool       `json:"success"`
	Documents []Document `json:"documents"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
