package residencetitle

import (
	"time"

	residencetitleDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/residencetitle"
)

// Employee form fields a title can make mandatory.
const (
	FieldPermitNumber      = "permitNumber"
	FieldValidFrom         = "validFrom"
	FieldValidUntil        = "validUntil"
	FieldIssuingAuthority  = "issuingAuthority"
	FieldRestrictions      = "restrictions"
	FieldPriorityCheck     = "priorityCheck"
	FieldPriorityCode      = "priorityCode"
	FieldEmploymentDetails = "employmentDetails"
	FieldDocumentUpload    = "documentUpload"
)

type ResidenceTitle struct {
	ID                       string    `json:"id"`
	UserID                   string    `json:"user_id"`
	Name                     string    `json:"name"`
	Code                     *string   `json:"code"`
	Category                 *string   `json:"category"`
	Country                  *string   `json:"country"`
	Description              *string   `json:"description"`
	RequirePermitNumber      bool      `json:"require_permit_number"`
	RequireValidFrom         bool      `json:"require_valid_from"`
	RequireValidUntil        bool      `json:"require_valid_until"`
	RequireIssuingAuthority  bool      `json:"require_issuing_authority"`
	RequireRestrictions      bool      `json:"require_restrictions"`
	RequirePriorityCheck     bool      `json:"require_priority_check"`
	RequirePriorityCode      bool      `json:"require_priority_code"`
	RequireEmploymentDetails bool      `json:"require_employment_details"`
	RequireDocumentUpload    bool      `json:"require_document_upload"`
	IsActive                 bool      `json:"is_active"`
	SortIndex                int       `json:"sort_index"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// RequiredFields lists the employee fields this title makes mandatory, in form order.
// Document upload happens after the record exists and is reported separately.
func (t *ResidenceTitle) RequiredFields() []string {
	flags := []struct {
		on    bool
		field string
	}{
		{t.RequirePermitNumber, FieldPermitNumber},
		{t.RequireValidFrom, FieldValidFrom},
		{t.RequireValidUntil, FieldValidUntil},
		{t.RequireIssuingAuthority, FieldIssuingAuthority},
		{t.RequireRestrictions, FieldRestrictions},
		{t.RequirePriorityCheck, FieldPriorityCheck},
		{t.RequirePriorityCode, FieldPriorityCode},
		{t.RequireEmploymentDetails, FieldEmploymentDetails},
	}

	fields := make([]string, 0, len(flags))
	for _, f := range flags {
		if f.on {
			fields = append(fields, f.field)
		}
	}
	return fields
}

func ToDataModel(t *ResidenceTitle) *residencetitleDatamodel.ResidenceTitle {
	return &residencetitleDatamodel.ResidenceTitle{
		ID:                       t.ID,
		UserID:                   t.UserID,
		Name:                     t.Name,
		Code:                     t.Code,
		Category:                 t.Category,
		Country:                  t.Country,
		Description:              t.Description,
		RequirePermitNumber:      t.RequirePermitNumber,
		RequireValidFrom:         t.RequireValidFrom,
		RequireValidUntil:        t.RequireValidUntil,
		RequireIssuingAuthority:  t.RequireIssuingAuthority,
		RequireRestrictions:      t.RequireRestrictions,
		RequirePriorityCheck:     t.RequirePriorityCheck,
		RequirePriorityCode:      t.RequirePriorityCode,
		RequireEmploymentDetails: t.RequireEmploymentDetails,
		RequireDocumentUpload:    t.RequireDocumentUpload,
		IsActive:                 t.IsActive,
		SortIndex:                t.SortIndex,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}

func FromDataModel(t *residencetitleDatamodel.ResidenceTitle) *ResidenceTitle {
	return &ResidenceTitle{
		ID:                       t.ID,
		UserID:                   t.UserID,
		Name:                     t.Name,
		Code:                     t.Code,
		Category:                 t.Category,
		Country:                  t.Country,
		Description:              t.Description,
		RequirePermitNumber:      t.RequirePermitNumber,
		RequireValidFrom:         t.RequireValidFrom,
		RequireValidUntil:        t.RequireValidUntil,
		RequireIssuingAuthority:  t.RequireIssuingAuthority,
		RequireRestrictions:      t.RequireRestrictions,
		RequirePriorityCheck:     t.RequirePriorityCheck,
		RequirePriorityCode:      t.RequirePriorityCode,
		RequireEmploymentDetails: t.RequireEmploymentDetails,
		RequireDocumentUpload:    t.RequireDocumentUpload,
		IsActive:                 t.IsActive,
		SortIndex:                t.SortIndex,
		CreatedAt:                t.CreatedAt,
		UpdatedAt:                t.UpdatedAt,
	}
}
