package residencetitle

import "github.com/stayfix/stayfix/internal/core/common/patch"

type CreateResidenceTitleInput struct {
	Name                     string  `json:"name"`
	Code                     *string `json:"code"`
	Category                 *string `json:"category"`
	Country                  *string `json:"country"`
	Description              *string `json:"description"`
	IsActive                 *bool   `json:"isActive"`
	RequirePermitNumber      *bool   `json:"requirePermitNumber"`
	RequireValidFrom         *bool   `json:"requireValidFrom"`
	RequireValidUntil        *bool   `json:"requireValidUntil"`
	RequireIssuingAuthority  *bool   `json:"requireIssuingAuthority"`
	RequireRestrictions      *bool   `json:"requireRestrictions"`
	RequirePriorityCheck     *bool   `json:"requirePriorityCheck"`
	RequirePriorityCode      *bool   `json:"requirePriorityCode"`
	RequireEmploymentDetails *bool   `json:"requireEmploymentDetails"`
	RequireDocumentUpload    *bool   `json:"requireDocumentUpload"`
	SortIndex                *int    `json:"sortIndex"`
}

type UpdateResidenceTitleInput struct {
	ID                       string              `json:"id"`
	Name                     *string             `json:"name"`
	Code                     patch.Field[string] `json:"code"`
	Category                 patch.Field[string] `json:"category"`
	Country                  patch.Field[string] `json:"country"`
	Description              patch.Field[string] `json:"description"`
	IsActive                 *bool               `json:"isActive"`
	RequirePermitNumber      *bool               `json:"requirePermitNumber"`
	RequireValidFrom         *bool               `json:"requireValidFrom"`
	RequireValidUntil        *bool               `json:"requireValidUntil"`
	RequireIssuingAuthority  *bool               `json:"requireIssuingAuthority"`
	RequireRestrictions      *bool               `json:"requireRestrictions"`
	RequirePriorityCheck     *bool               `json:"requirePriorityCheck"`
	RequirePriorityCode      *bool               `json:"requirePriorityCode"`
	RequireEmploymentDetails *bool               `json:"requireEmploymentDetails"`
	RequireDocumentUpload    *bool               `json:"requireDocumentUpload"`
	SortIndex                *int                `json:"sortIndex"`
}

type TitlesResponse struct {
	Titles []*ResidenceTitle `json:"titles"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
