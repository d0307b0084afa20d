package notification

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

type Rule struct {
	ID          string    `gorm:"column:id;primaryKey"`
	UserID      string    `gorm:"column:user_id;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Rule) TableName() string {
	return "notification_rules"
}

// Phase is one timing point of a rule. OffsetDays > 0 is before expiry, 0 on, < 0 after.
type Phase struct {
	ID               string    `gorm:"column:id;primaryKey"`
	UserID           string    `gorm:"column:user_id;not null;index"`
	RuleID           string    `gorm:"column:rule_id;not null;index"`
	OffsetDays       int       `gorm:"column:offset_days;not null"`
	NotifyEmployee   bool      `gorm:"column:notify_employee;not null"`
	NotifySupervisor bool      `gorm:"column:notify_supervisor;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Phase) TableName() string {
	return "notification_rule_phases"
}

type Recipient struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	PhaseID   string    `gorm:"column:phase_id;not null;index"`
	OrgUnitID string    `gorm:"column:org_unit_id;not null"`
	SortIndex int       `gorm:"column:sort_index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Recipient) TableName() string {
	return "notification_rule_recipients"
}

func (r *Rule) BeforeCreate(_ *gorm.DB) error {
	return assignID(&r.ID)
}

func (p *Phase) BeforeCreate(_ *gorm.DB) error {
	return assignID(&p.ID)
}

func (r *Recipient) BeforeCreate(_ *gorm.DB) error {
	return assignID(&r.ID)
}

func assignID(id *string) error {
	if *id != "" {
		return nil
	}
	v, err := uuidv7.NewString()
	if err != nil {
		return err
	}
	*id = v
	return nil
}
