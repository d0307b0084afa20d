package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stayfix/stayfix/internal"
	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
	"github.com/stayfix/stayfix/internal/core/events"
)

var ErrRuleNotFound = internal.NewNotFoundError("Regel nicht gefunden.", internal.ErrCodeRuleNotFound)

type RepositoryAPI interface {
	// GetRule returns nil, nil when the rule does not exist for userID.
	GetRule(ctx context.Context, userID, id string) (*notificationDatamodel.Rule, error)
	ListRules(ctx context.Context, userID string) ([]*notificationDatamodel.Rule, error)
	ListPhases(ctx context.Context, userID string, ruleIDs []string) ([]*notificationDatamodel.Phase, error)
	ListRecipients(ctx context.Context, userID string, phaseIDs []string) ([]*notificationDatamodel.Recipient, error)
	CountOwnedOrgUnits(ctx context.Context, userID string, ids []string) (int, error)
	// CreateRule inserts the header and every phase record in one transaction.
	CreateRule(ctx context.Context, rule *notificationDatamodel.Rule, phases []PhaseRecord) error
	// ReplaceRule updates the header and swaps the full phase set in one transaction.
	ReplaceRule(ctx context.Context, rule *notificationDatamodel.Rule, phases []PhaseRecord) error
	// DeleteRule removes recipients, phases and the rule in one transaction.
	DeleteRule(ctx context.Context, userID, id string) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListRules(ctx context.Context, userID string) (*RuleSet, error) {
	set := &RuleSet{Rules: []*Rule{}, Phases: []*Phase{}, Recipients: []*Recipient{}}

	rules, err := s.repo.ListRules(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list notification rules", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list rules: %w", err)
	}
	if len(rules) == 0 {
		return set, nil
	}

	ruleIDs := make([]string, 0, len(rules))
	for _, r := range rules {
		set.Rules = append(set.Rules, RuleFromDataModel(r))
		ruleIDs = append(ruleIDs, r.ID)
	}

	phases, err := s.repo.ListPhases(ctx, userID, ruleIDs)
	if err != nil {
		return nil, fmt.Errorf("list phases: %w", err)
	}
	if len(phases) == 0 {
		return set, nil
	}

	phaseIDs := make([]string, 0, len(phases))
	for _, p := range phases {
		set.Phases = append(set.Phases, PhaseFromDataModel(p))
		phaseIDs = append(phaseIDs, p.ID)
	}

	recipients, err := s.repo.ListRecipients(ctx, userID, phaseIDs)
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	for _, rc := range recipients {
		set.Recipients = append(set.Recipients, RecipientFromDataModel(rc))
	}
	return set, nil
}

func (s *Service) GroupedRules(ctx context.Context, userID string) ([]*RuleView, error) {
	set, err := s.ListRules(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Assemble(*set), nil
}

// SaveRule creates the rule when input.ID is empty, else replaces header and
// phases of the existing rule. created reports which path was taken.
func (s *Service) SaveRule(ctx context.Context, userID string, input SaveRuleInput) (id string, created bool, err error) {
	normalized, err := input.Normalize()
	if err != nil {
		return "", false, err
	}

	var existing *notificationDatamodel.Rule
	if normalized.ID != "" {
		existing, err = s.repo.GetRule(ctx, userID, normalized.ID)
		if err != nil {
			return "", false, fmt.Errorf("load rule: %w", err)
		}
		if existing == nil {
			return "", false, ErrRuleNotFound
		}
	}

	if unitIDs := normalized.OrgUnitIDs(); len(unitIDs) > 0 {
		owned, err := s.repo.CountOwnedOrgUnits(ctx, userID, unitIDs)
		if err != nil {
			return "", false, fmt.Errorf("check org units: %w", err)
		}
		if owned != len(unitIDs) {
			return "", false, internal.ErrUnitsNotOwned
		}
	}

	if existing != nil {
		existing.Name = normalized.Name
		existing.Description = normalized.Description
		existing.IsActive = normalized.IsActive
		if err := s.repo.ReplaceRule(ctx, existing, normalized.Records(userID, existing.ID)); err != nil {
			s.logger.Error("failed to replace notification rule", "rule_id", existing.ID, "error", err)
			return "", false, fmt.Errorf("replace rule: %w", err)
		}
		id = existing.ID
	} else {
		rule := &notificationDatamodel.Rule{
			UserID:      userID,
			Name:        normalized.Name,
			Description: normalized.Description,
			IsActive:    normalized.IsActive,
		}
		if err := s.repo.CreateRule(ctx, rule, normalized.Records(userID, "")); err != nil {
			s.logger.Error("failed to create notification rule", "user_id", userID, "error", err)
			return "", false, fmt.Errorf("create rule: %w", err)
		}
		id, created = rule.ID, true
	}

	s.logger.Info("notification rule saved", "rule_id", id, "created", created, "phases", len(normalized.Phases))
	if err := s.publisher.Publish(ctx, events.NewRuleSavedEvent(userID, id, created, len(normalized.Phases))); err != nil {
		s.logger.Warn("failed to publish rule saved event", "error", err)
	}
	return id, created, nil
}

func (s *Service) DeleteRule(ctx context.Context, userID, id string) error {
	if id == "" {
		return internal.ErrIDRequired
	}

	existing, err := s.repo.GetRule(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("load rule: %w", err)
	}
	if existing == nil {
		return ErrRuleNotFound
	}

	if err := s.repo.DeleteRule(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete notification rule", "rule_id", id, "error", err)
		return fmt.Errorf("delete rule: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewRuleDeletedEvent(userID, id)); err != nil {
		s.logger.Warn("failed to publish rule deleted event", "error", err)
	}
	return nil
}

// RuleExists reports whether id names a rule owned by userID.
func (s *Service) RuleExists(ctx context.Context, userID, id string) (bool, error) {
	rule, err := s.repo.GetRule(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("load rule: %w", err)
	}
	return rule != nil, nil
}
