package postgres

import (
	"context"
	"errors"

	notificationprofileDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notificationprofile"
	"github.com/stayfix/stayfix/internal/notificationprofile"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) notificationprofile.RepositoryAPI {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) List(ctx context.Context, userID string) ([]*notificationprofileDatamodel.Profile, error) {
	var rows []*notificationprofileDatamodel.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID, id string) (*notificationprofileDatamodel.Profile, error) {
	var row notificationprofileDatamodel.Profile
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ProfileRepository) Create(ctx context.Context, row *notificationprofileDatamodel.Profile) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *ProfileRepository) Update(ctx context.Context, row *notificationprofileDatamodel.Profile) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *ProfileRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&notificationprofileDatamodel.Profile{}).Error
}
