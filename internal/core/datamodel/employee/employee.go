package employee

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

// Document references an uploaded file inside the storage bucket.
type Document struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type Employee struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	UserID             string     `gorm:"column:user_id;not null;index"`
	Status             string     `gorm:"column:status;not null"`
	FirstName          string     `gorm:"column:first_name;not null"`
	LastName           string     `gorm:"column:last_name;not null"`
	Birthdate          time.Time  `gorm:"column:birthdate;not null"`
	Street             *string    `gorm:"column:street"`
	HouseNumber        *string    `gorm:"column:house_number"`
	PostalCode         *string    `gorm:"column:postal_code"`
	City               *string    `gorm:"column:city"`
	Email              *string    `gorm:"column:email"`
	Phone              *string    `gorm:"column:phone"`
	EmployeeNumber     *string    `gorm:"column:employee_number"`
	Nationality        *string    `gorm:"column:nationality"`
	OrgUnitID          *string    `gorm:"column:org_unit_id;index"`
	ResidenceTitleID   *string    `gorm:"column:residence_title_id;index"`
	NotificationRuleID *string    `gorm:"column:notification_rule_id;index"`
	PermitNumber       *string    `gorm:"column:permit_number"`
	ValidFrom          *time.Time `gorm:"column:valid_from"`
	ValidUntil         *time.Time `gorm:"column:valid_until;index"`
	IssuingAuthority   *string    `gorm:"column:issuing_authority"`
	Restrictions       *string    `gorm:"column:restrictions"`
	PriorityCheck      *bool      `gorm:"column:priority_check"`
	PriorityCode       *string    `gorm:"column:priority_code"`
	EmploymentDetails  *string    `gorm:"column:employment_details"`
	DocumentURLs       []Document `gorm:"column:document_urls;type:text;serializer:json"`
	Note               *string    `gorm:"column:note"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		id, err := uuidv7.NewString()
		if err != nil {
			return err
		}
		e.ID = id
	}
	return nil
}
