package postgres

import (
	"context"

	reminderDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/reminder"
	userDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/user"
	"github.com/stayfix/stayfix/internal/reminder"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Record inserts the reminder unless (phase, employee, due date) exists already.
func (r *LogRepository) Record(ctx context.Context, rem reminder.Reminder) (bool, error) {
	row := &reminderDatamodel.Log{
		UserID:     rem.UserID,
		EmployeeID: rem.EmployeeID,
		PhaseID:    rem.PhaseID,
		RuleID:     rem.RuleID,
		DueDate:    rem.DueDate,
		OffsetDays: rem.OffsetDays,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phase_id"}, {Name: "employee_id"}, {Name: "due_date"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ActiveUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
