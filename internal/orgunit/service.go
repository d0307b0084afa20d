package orgunit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/stayfix/stayfix/internal"
	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	"github.com/stayfix/stayfix/internal/core/events"
)

var (
	ErrNameRequired = internal.NewValidationError("Name ist erforderlich.", internal.ErrCodeNameRequired)
	ErrNotFound     = internal.NewNotFoundError("Einheit nicht gefunden.", internal.ErrCodeOrgUnitNotFound)
	ErrSelfParent   = internal.NewValidationError("Eine Einheit kann nicht ihr eigener Elternknoten sein.", internal.ErrCodeOrgUnitSelfParent)
	ErrCycle        = internal.NewValidationError("Eine Einheit kann nicht unter eine ihrer Untereinheiten verschoben werden.", internal.ErrCodeOrgUnitCycle)
	ErrReorderEmpty = internal.NewValidationError("orderedIds muss ein Array mit mindestens einem Eintrag sein.", internal.ErrCodeReorderEmpty)
	ErrCrossLevel   = internal.NewValidationError("Reihenfolge-Update ist nur innerhalb einer Ebene erlaubt.", internal.ErrCodeReorderCrossLevel)
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID string) ([]*orgunitDatamodel.OrgUnit, error)
	// GetByID returns nil, nil when the unit does not exist for userID.
	GetByID(ctx context.Context, userID, id string) (*orgunitDatamodel.OrgUnit, error)
	GetByIDs(ctx context.Context, userID string, ids []string) ([]*orgunitDatamodel.OrgUnit, error)
	Create(ctx context.Context, unit *orgunitDatamodel.OrgUnit) error
	Update(ctx context.Context, unit *orgunitDatamodel.OrgUnit) error
	Delete(ctx context.Context, userID, id string) error
	// UpdateSortIndexes sets sort_index = position for every id, atomically.
	UpdateSortIndexes(ctx context.Context, userID string, orderedIDs []string) error
	// Move saves unit, applies levels by id and renumbers formerSiblings
	// 0..n-1, all in one transaction.
	Move(ctx context.Context, unit *orgunitDatamodel.OrgUnit, levels map[string]int, formerSiblings []string) error
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

func (s *Service) List(ctx context.Context, userID string) ([]*OrgUnit, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list org units", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list org units: %w", err)
	}
	return FromDataModels(rows), nil
}

func (s *Service) Tree(ctx context.Context, userID string) ([]*TreeNode, error) {
	units, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildTree(units), nil
}

func (s *Service) Create(ctx context.Context, userID string, input CreateOrgUnitInput) (*OrgUnit, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	level := 1
	if input.ParentID != nil && *input.ParentID != "" {
		resolved, err := s.levelUnder(ctx, userID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		level = resolved
	} else {
		input.ParentID = nil
	}

	units, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	row := &orgunitDatamodel.OrgUnit{
		UserID:          userID,
		ParentID:        input.ParentID,
		Name:            name,
		Role:            input.Role,
		SupervisorName:  input.SupervisorName,
		SupervisorEmail: input.SupervisorEmail,
		SupervisorPhone: input.SupervisorPhone,
		Level:           &level,
		SortIndex:       len(siblingsOf(units, input.ParentID, "")),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create org unit", "user_id", userID, "error", err)
		return nil, fmt.Errorf("create org unit: %w", err)
	}

	s.logger.Info("org unit created", "id", row.ID, "user_id", userID, "level", level)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID string, input UpdateOrgUnitInput) (*OrgUnit, error) {
	if input.ID == "" {
		return nil, internal.ErrIDRequired
	}

	existing, err := s.repo.GetByID(ctx, userID, input.ID)
	if err != nil {
		return nil, fmt.Errorf("load org unit: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if input.Name.Value != nil {
		name := strings.TrimSpace(*input.Name.Value)
		if name == "" {
			return nil, ErrNameRequired
		}
		existing.Name = name
	}
	if input.Role.Set {
		existing.Role = input.Role.Value
	}
	if input.SupervisorName.Set {
		existing.SupervisorName = input.SupervisorName.Value
	}
	if input.SupervisorEmail.Set {
		existing.SupervisorEmail = input.SupervisorEmail.Value
	}
	if input.SupervisorPhone.Set {
		existing.SupervisorPhone = input.SupervisorPhone.Value
	}

	if input.ParentID.Set {
		newParent := input.ParentID.Value
		if newParent != nil && *newParent == "" {
			newParent = nil
		}
		if newParent != nil && *newParent == existing.ID {
			return nil, ErrSelfParent
		}
		if !sameID(newParent, existing.ParentID) {
			if err := s.move(ctx, userID, existing, newParent); err != nil {
				return nil, err
			}
			return FromDataModel(existing), nil
		}
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		s.logger.Error("failed to update org unit", "id", input.ID, "error", err)
		return nil, fmt.Errorf("update org unit: %w", err)
	}
	return FromDataModel(existing), nil
}

// move re-parents unit under newParent (nil for the top level). The unit goes last
// among its new siblings, every descendant gets its level recomputed and the old
// siblings are renumbered.
func (s *Service) move(ctx context.Context, userID string, unit *orgunitDatamodel.OrgUnit, newParent *string) error {
	units, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	byID := make(map[string]*OrgUnit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}

	level := 1
	if newParent != nil {
		visited := map[string]bool{}
		for current := *newParent; current != ""; {
			if current == unit.ID {
				return ErrCycle
			}
			ancestor, ok := byID[current]
			if !ok || visited[current] || ancestor.ParentID == nil {
				break
			}
			visited[current] = true
			current = *ancestor.ParentID
		}
		level = byID[*newParent].ChildLevel()
	}

	formerSiblings := siblingsOf(units, unit.ParentID, unit.ID)
	unit.ParentID = newParent
	unit.Level = &level
	unit.SortIndex = len(siblingsOf(units, newParent, unit.ID))

	levels := subtreeLevels(units, unit.ID, level)
	if err := s.repo.Move(ctx, unit, levels, formerSiblings); err != nil {
		s.logger.Error("failed to move org unit", "id", unit.ID, "error", err)
		return fmt.Errorf("move org unit: %w", err)
	}

	s.logger.Info("org unit moved", "id", unit.ID, "user_id", userID, "level", level, "descendants", len(levels))
	return nil
}

// subtreeLevels maps every descendant of rootID to its level below rootLevel.
func subtreeLevels(units []*OrgUnit, rootID string, rootLevel int) map[string]int {
	children := make(map[string][]string)
	for _, u := range units {
		if u.ParentID != nil {
			children[*u.ParentID] = append(children[*u.ParentID], u.ID)
		}
	}

	levels := make(map[string]int)
	queue := []string{rootID}
	depth := map[string]int{rootID: rootLevel}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if _, seen := depth[child]; seen {
				continue
			}
			depth[child] = depth[id] + 1
			levels[child] = depth[child]
			queue = append(queue, child)
		}
	}
	return levels
}

// siblingsOf returns the ids under parentID in sort_index order, without skipID.
func siblingsOf(units []*OrgUnit, parentID *string, skipID string) []string {
	ref := &OrgUnit{ParentID: parentID}
	var matched []*OrgUnit
	for _, u := range units {
		if u.ID != skipID && ref.SameParent(u) {
			matched = append(matched, u)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SortIndex < matched[j].SortIndex })

	ids := make([]string, len(matched))
	for i, u := range matched {
		ids[i] = u.ID
	}
	return ids
}

// Delete removes the unit only. Children keep their parent_id and show up as
// roots in the tree.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return internal.ErrIDRequired
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete org unit", "id", id, "error", err)
		return fmt.Errorf("delete org unit: %w", err)
	}
	return nil
}

// Reorder assigns sort_index 0..n-1 to siblings in the submitted order.
func (s *Service) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return ErrReorderEmpty
	}

	rows, err := s.repo.GetByIDs(ctx, userID, orderedIDs)
	if err != nil {
		return fmt.Errorf("load org units: %w", err)
	}
	if len(rows) != len(orderedIDs) {
		return internal.ErrUnitsNotOwned
	}

	first := FromDataModel(rows[0])
	for _, row := range rows[1:] {
		if !first.SameParent(FromDataModel(row)) {
			return ErrCrossLevel
		}
	}

	if err := s.repo.UpdateSortIndexes(ctx, userID, orderedIDs); err != nil {
		s.logger.Error("failed to reorder org units", "user_id", userID, "error", err)
		return fmt.Errorf("reorder org units: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewOrgUnitsReorderedEvent(userID, first.ParentID, orderedIDs)); err != nil {
		s.logger.Warn("failed to publish reorder event", "error", err)
	}
	return nil
}

// levelUnder resolves the level for a child of parentID. An unknown parent yields 2.
func (s *Service) levelUnder(ctx context.Context, userID, parentID string) (int, error) {
	parent, err := s.repo.GetByID(ctx, userID, parentID)
	if err != nil {
		return 0, fmt.Errorf("load parent org unit: %w", err)
	}
	if parent == nil {
		return 2, nil
	}
	return FromDataModel(parent).ChildLevel(), nil
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
