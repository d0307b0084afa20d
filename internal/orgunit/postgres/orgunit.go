package postgres

import (
	"context"
	"errors"

	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	"github.com/stayfix/stayfix/internal/orgunit"
	"gorm.io/gorm"
)

type OrgUnitRepository struct {
	db *gorm.DB
}

func NewOrgUnitRepository(db *gorm.DB) orgunit.RepositoryAPI {
	return &OrgUnitRepository{db: db}
}

func (r *OrgUnitRepository) ListByUser(ctx context.Context, userID string) ([]*orgunitDatamodel.OrgUnit, error) {
	var units []*orgunitDatamodel.OrgUnit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("level ASC NULLS FIRST").
		Order("sort_index ASC").
		Find(&units).Error
	return units, err
}

func (r *OrgUnitRepository) GetByID(ctx context.Context, userID, id string) (*orgunitDatamodel.OrgUnit, error) {
	var unit orgunitDatamodel.OrgUnit
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *OrgUnitRepository) GetByIDs(ctx context.Context, userID string, ids []string) ([]*orgunitDatamodel.OrgUnit, error) {
	var units []*orgunitDatamodel.OrgUnit
	if len(ids) == 0 {
		return units, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&units).Error
	return units, err
}

func (r *OrgUnitRepository) Create(ctx context.Context, unit *orgunitDatamodel.OrgUnit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *OrgUnitRepository) Update(ctx context.Context, unit *orgunitDatamodel.OrgUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *OrgUnitRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&orgunitDatamodel.OrgUnit{}).Error
}

// UpdateSortIndexes issues one UPDATE per id inside a single transaction.
func (r *OrgUnitRepository) UpdateSortIndexes(ctx context.Context, userID string, orderedIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for index, id := range orderedIDs {
			err := tx.Model(&orgunitDatamodel.OrgUnit{}).
				Where("id = ? AND user_id = ?", id, userID).
				Update("sort_index", index).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *OrgUnitRepository) Move(ctx context.Context, unit *orgunitDatamodel.OrgUnit, levels map[string]int, formerSiblings []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(unit).Error; err != nil {
			return err
		}
		for id, level := range levels {
			err := tx.Model(&orgunitDatamodel.OrgUnit{}).
				Where("id = ? AND user_id = ?", id, unit.UserID).
				Update("level", level).Error
			if err != nil {
				return err
			}
		}
		for index, id := range formerSiblings {
			err := tx.Model(&orgunitDatamodel.OrgUnit{}).
				Where("id = ? AND user_id = ?", id, unit.UserID).
				Update("sort_index", index).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
