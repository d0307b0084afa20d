package orgunit

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

type OrgUnit struct {
	ID              string    `gorm:"column:id;primaryKey"`
	UserID          string    `gorm:"column:user_id;not null;index"`
	ParentID        *string   `gorm:"column:parent_id;index"`
	Name            string    `gorm:"column:name;not null"`
	Role            *string   `gorm:"column:role"`
	SupervisorName  *string   `gorm:"column:supervisor_name"`
	SupervisorEmail *string   `gorm:"column:supervisor_email"`
	SupervisorPhone *string   `gorm:"column:supervisor_phone"`
	EmployeeCount   int       `gorm:"column:employee_count;not null"`
	Level           *int      `gorm:"column:level"`
	SortIndex       int       `gorm:"column:sort_index;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrgUnit) TableName() string {
	return "org_units"
}

func (o *OrgUnit) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		id, err := uuidv7.NewString()
		if err != nil {
			return err
		}
		o.ID = id
	}
	return nil
}
