package postgres

import (
	"context"
	"errors"

	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	"github.com/stayfix/stayfix/internal/notification"
	"gorm.io/gorm"
)

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) notification.RepositoryAPI {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) GetRule(ctx context.Context, userID, id string) (*notificationDatamodel.Rule, error) {
	var rule notificationDatamodel.Rule
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *RuleRepository) ListRules(ctx context.Context, userID string) ([]*notificationDatamodel.Rule, error) {
	var rules []*notificationDatamodel.Rule
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&rules).Error
	return rules, err
}

func (r *RuleRepository) ListPhases(ctx context.Context, userID string, ruleIDs []string) ([]*notificationDatamodel.Phase, error) {
	var phases []*notificationDatamodel.Phase
	if len(ruleIDs) == 0 {
		return phases, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND rule_id IN ?", userID, ruleIDs).
		Order("offset_days ASC").
		Find(&phases).Error
	return phases, err
}

func (r *RuleRepository) ListRecipients(ctx context.Context, userID string, phaseIDs []string) ([]*notificationDatamodel.Recipient, error) {
	var recipients []*notificationDatamodel.Recipient
	if len(phaseIDs) == 0 {
		return recipients, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND phase_id IN ?", userID, phaseIDs).
		Order("sort_index ASC").
		Find(&recipients).Error
	return recipients, err
}

func (r *RuleRepository) CountOwnedOrgUnits(ctx context.Context, userID string, ids []string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&orgunitDatamodel.OrgUnit{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Count(&count).Error
	return int(count), err
}

func (r *RuleRepository) CreateRule(ctx context.Context, rule *notificationDatamodel.Rule, phases []notification.PhaseRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rule).Error; err != nil {
			return err
		}
		return insertPhases(tx, rule.ID, phases)
	})
}

func (r *RuleRepository) ReplaceRule(ctx context.Context, rule *notificationDatamodel.Rule, phases []notification.PhaseRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&notificationDatamodel.Rule{}).
			Where("id = ? AND user_id = ?", rule.ID, rule.UserID).
			Updates(map[string]interface{}{
				"name":        rule.Name,
				"description": rule.Description,
				"is_active":   rule.IsActive,
			}).Error
		if err != nil {
			return err
		}
		if err := deletePhases(tx, rule.UserID, rule.ID); err != nil {
			return err
		}
		return insertPhases(tx, rule.ID, phases)
	})
}

func (r *RuleRepository) DeleteRule(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePhases(tx, userID, id); err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&notificationDatamodel.Rule{}).Error
	})
}

// deletePhases removes the rule's recipients first, then its phases.
func deletePhases(tx *gorm.DB, userID, ruleID string) error {
	var phaseIDs []string
	err := tx.Model(&notificationDatamodel.Phase{}).
		Where("user_id = ? AND rule_id = ?", userID, ruleID).
		Pluck("id", &phaseIDs).Error
	if err != nil {
		return err
	}
	if len(phaseIDs) == 0 {
		return nil
	}

	err = tx.Where("user_id = ? AND phase_id IN ?", userID, phaseIDs).
		Delete(&notificationDatamodel.Recipient{}).Error
	if err != nil {
		return err
	}
	return tx.Where("user_id = ? AND rule_id = ?", userID, ruleID).
		Delete(&notificationDatamodel.Phase{}).Error
}

func insertPhases(tx *gorm.DB, ruleID string, phases []notification.PhaseRecord) error {
	for _, rec := range phases {
		rec.Phase.RuleID = ruleID
		if err := tx.Create(rec.Phase).Error; err != nil {
			return err
		}
		if len(rec.Recipients) == 0 {
			continue
		}
		for _, rc := range rec.Recipients {
			rc.PhaseID = rec.Phase.ID
		}
		if err := tx.Create(&rec.Recipients).Error; err != nil {
			return err
		}
	}
	return nil
}
