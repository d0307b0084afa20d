package reminder

import (
	"time"

	"github.com/stayfix/stayfix/pkg/uuidv7"
	"gorm.io/gorm"
)

// Log records a reminder that was already dispatched so scans stay idempotent.
type Log struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;not null;index"`
	EmployeeID string    `gorm:"column:employee_id;not null;uniqueIndex:idx_reminder_log_once"`
	PhaseID    string    `gorm:"column:phase_id;not null;uniqueIndex:idx_reminder_log_once"`
	RuleID     string    `gorm:"column:rule_id;not null"`
	DueDate    time.Time `gorm:"column:due_date;not null;uniqueIndex:idx_reminder_log_once"`
	OffsetDays int       `gorm:"column:offset_days;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "reminder_log"
}

func (l *Log) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		id, err := uuidv7.NewString()
		if err != nil {
			return err
		}
		l.ID = id
	}
	return nil
}
