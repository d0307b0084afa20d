package residencetitle

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

type ResidenceTitle struct {
	ID                       string    `gorm:"column:id;primaryKey"`
	UserID                   string    `gorm:"column:user_id;not null;index"`
	Name                     string    `gorm:"column:name;not null"`
	Code                     *string   `gorm:"column:code"`
	Category                 *string   `gorm:"column:category"`
	Country                  *string   `gorm:"column:country"`
	Description              *string   `gorm:"column:description"`
	RequirePermitNumber      bool      `gorm:"column:require_permit_number;not null"`
	RequireValidFrom         bool      `gorm:"column:require_valid_from;not null"`
	RequireValidUntil        bool      `gorm:"column:require_valid_until;not null"`
	RequireIssuingAuthority  bool      `gorm:"column:require_issuing_authority;not null"`
	RequireRestrictions      bool      `gorm:"column:require_restrictions;not null"`
	RequirePriorityCheck     bool      `gorm:"column:require_priority_check;not null"`
	RequirePriorityCode      bool      `gorm:"column:require_priority_code;not null"`
	RequireEmploymentDetails bool      `gorm:"column:require_employment_details;not null"`
	RequireDocumentUpload    bool      `gorm:"column:require_document_upload;not null"`
	IsActive                 bool      `gorm:"column:is_active;not null"`
	SortIndex                int       `gorm:"column:sort_index;not null"`
	CreatedAt                time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ResidenceTitle) TableName() string {
	return "residence_titles"
}

func (r *ResidenceTitle) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		id, err := uuidv7.NewString()
		if err != nil {
			return err
		}
		r.ID = id
	}
	return nil
}
