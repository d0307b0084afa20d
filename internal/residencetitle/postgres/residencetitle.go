package postgres

import (
	"context"
	"errors"

	residencetitleDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/residencetitle"
	"github.com/stayfix/stayfix/internal/residencetitle"
	"gorm.io/gorm"
)

type ResidenceTitleRepository struct {
	db *gorm.DB
}

func NewResidenceTitleRepository(db *gorm.DB) residencetitle.RepositoryAPI {
	return &ResidenceTitleRepository{db: db}
}

func (r *ResidenceTitleRepository) List(ctx context.Context, userID string) ([]*residencetitleDatamodel.ResidenceTitle, error) {
	var titles []*residencetitleDatamodel.ResidenceTitle
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_index ASC").
		Order("name ASC").
		Find(&titles).Error
	return titles, err
}

func (r *ResidenceTitleRepository) GetByID(ctx context.Context, userID, id string) (*residencetitleDatamodel.ResidenceTitle, error) {
	var title residencetitleDatamodel.ResidenceTitle
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&title).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &title, nil
}

func (r *ResidenceTitleRepository) Create(ctx context.Context, title *residencetitleDatamodel.ResidenceTitle) error {
	return r.db.WithContext(ctx).Create(title).Error
}

func (r *ResidenceTitleRepository) Update(ctx context.Context, title *residencetitleDatamodel.ResidenceTitle) error {
	return r.db.WithContext(ctx).Save(title).Error
}

func (r *ResidenceTitleRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&residencetitleDatamodel.ResidenceTitle{}).Error
}
