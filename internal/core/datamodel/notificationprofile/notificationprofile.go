package notificationprofile

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

type Profile struct {
	ID          string    `gorm:"column:id;primaryKey"`
	UserID      string    `gorm:"column:user_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "notification_profiles"
}

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		id, err := uuidv7.NewString()
		if err != nil {
			return err
		}
		p.ID = id
	}
	return nil
}
