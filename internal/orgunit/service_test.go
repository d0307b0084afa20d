package orgunit_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/patch"
	orgunitDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/orgunit"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/orgunit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements orgunit.RepositoryAPI for testing
type MockRepository struct {
	units      map[string]*orgunitDatamodel.OrgUnit
	nextID     int
	shouldFail bool
	failError  error
	sortCalls  int
	moveCalls  int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{units: make(map[string]*orgunitDatamodel.OrgUnit)}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) Add(u *orgunitDatamodel.OrgUnit) {
	m.units[u.ID] = u
}

func (m *MockRepository) ListByUser(_ context.Context, userID string) ([]*orgunitDatamodel.OrgUnit, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*orgunitDatamodel.OrgUnit
	for _, u := range m.units {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortIndex < out[j].SortIndex })
	return out, nil
}

func (m *MockRepository) GetByID(_ context.Context, userID, id string) (*orgunitDatamodel.OrgUnit, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.units[id]
	if !ok || u.UserID != userID {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (m *MockRepository) GetByIDs(_ context.Context, userID string, ids []string) ([]*orgunitDatamodel.OrgUnit, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	seen := map[string]bool{}
	var out []*orgunitDatamodel.OrgUnit
	for _, id := range ids {
		if u, ok := m.units[id]; ok && u.UserID == userID && !seen[id] {
			seen[id] = true
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockRepository) Create(_ context.Context, u *orgunitDatamodel.OrgUnit) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	u.ID = "unit-" + string(rune('a'+m.nextID-1))
	m.units[u.ID] = u
	return nil
}

func (m *MockRepository) Update(_ context.Context, u *orgunitDatamodel.OrgUnit) error {
	if m.shouldFail {
		return m.failError
	}
	m.units[u.ID] = u
	return nil
}

func (m *MockRepository) Delete(_ context.Context, userID, id string) error {
	if m.shouldFail {
		return m.failError
	}
	if u, ok := m.units[id]; ok && u.UserID == userID {
		delete(m.units, id)
	}
	return nil
}

func (m *MockRepository) UpdateSortIndexes(_ context.Context, _ string, orderedIDs []string) error {
	if m.shouldFail {
		return m.failError
	}
	m.sortCalls++
	for i, id := range orderedIDs {
		m.units[id].SortIndex = i
	}
	return nil
}

func (m *MockRepository) Move(_ context.Context, u *orgunitDatamodel.OrgUnit, levels map[string]int, formerSiblings []string) error {
	if m.shouldFail {
		return m.failError
	}
	m.moveCalls++
	m.units[u.ID] = u
	for id, level := range levels {
		m.units[id].Level = intPtr(level)
	}
	for i, id := range formerSiblings {
		m.units[id].SortIndex = i
	}
	return nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

var _ = Describe("OrgUnit Service", func() {
	var (
		ctx       context.Context
		mockRepo  *MockRepository
		publisher *recordingPublisher
		service   *orgunit.Service
	)

	const userID = "user-1"

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = orgunit.NewService(mockRepo, publisher, logger)
	})

	Describe("Create", func() {
		It("rejects a blank name", func() {
			_, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "   "})
			Expect(err).To(MatchError(orgunit.ErrNameRequired))
			Expect(err.Error()).To(Equal("Name ist erforderlich."))
		})

		It("creates roots at level 1", func() {
			u, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: " Vorstand "})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Vorstand"))
			Expect(*u.Level).To(Equal(1))
			Expect(u.ParentID).To(BeNil())
		})

		It("places children one level below their parent", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "p", UserID: userID, Name: "P", Level: intPtr(3)})

			u, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "Kind", ParentID: strPtr("p")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*u.Level).To(Equal(4))
			Expect(*u.ParentID).To(Equal("p"))
		})

		It("falls back to level 2 when the parent is unknown or has no level", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "nolevel", UserID: userID, Name: "N"})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "foreign", UserID: "other", Name: "F", Level: intPtr(5)})

			for _, parent := range []string{"nolevel", "foreign", "missing"} {
				u, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "Kind", ParentID: strPtr(parent)})
				Expect(err).NotTo(HaveOccurred())
				Expect(*u.Level).To(Equal(2), parent)
			}
		})

		It("appends new units after their existing siblings", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "p", UserID: userID, Name: "P", Level: intPtr(1)})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "c0", UserID: userID, Name: "C0", ParentID: strPtr("p"), Level: intPtr(2), SortIndex: 0})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "c1", UserID: userID, Name: "C1", ParentID: strPtr("p"), Level: intPtr(2), SortIndex: 1})

			u, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "C2", ParentID: strPtr("p")})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.SortIndex).To(Equal(2))

			root, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "Zweite Wurzel"})
			Expect(err).NotTo(HaveOccurred())
			Expect(root.SortIndex).To(Equal(1))
		})

		It("surfaces store errors", func() {
			mockRepo.SetShouldFail(true, errors.New("db down"))
			_, err := service.Create(ctx, userID, orgunit.CreateOrgUnitInput{Name: "X"})
			Expect(err).To(MatchError(ContainSubstring("db down")))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "root", UserID: userID, Name: "Root", Level: intPtr(1)})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "mid", UserID: userID, Name: "Mid", ParentID: strPtr("root"), Level: intPtr(2)})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "leaf", UserID: userID, Name: "Leaf", ParentID: strPtr("root"), Level: intPtr(2), Role: strPtr("Team")})
		})

		It("requires an id", func() {
			_, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{})
			Expect(err).To(MatchError(internal.ErrIDRequired))
		})

		It("returns not found for foreign or unknown units", func() {
			_, err := service.Update(ctx, "other", orgunit.UpdateOrgUnitInput{ID: "leaf"})
			Expect(err).To(MatchError(orgunit.ErrNotFound))
		})

		It("changes only present fields", func() {
			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{
				ID:             "leaf",
				SupervisorName: patch.Value("Frau Meier"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Leaf"))
			Expect(*u.Role).To(Equal("Team"))
			Expect(*u.SupervisorName).To(Equal("Frau Meier"))
			Expect(*u.Level).To(Equal(2))
		})

		It("clears nullable fields on explicit null", func() {
			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", Role: patch.Null[string]()})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(BeNil())
		})

		It("recomputes the level when re-parenting", func() {
			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", ParentID: patch.Value("mid")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*u.ParentID).To(Equal("mid"))
			Expect(*u.Level).To(Equal(3))
		})

		It("moves a unit to the top level on null parent", func() {
			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", ParentID: patch.Null[string]()})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ParentID).To(BeNil())
			Expect(*u.Level).To(Equal(1))
		})

		It("keeps the stored level when the parent is unchanged", func() {
			stored, _ := mockRepo.GetByID(ctx, userID, "leaf")
			stored.Level = intPtr(9)
			mockRepo.Add(stored)

			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", ParentID: patch.Value("root")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*u.Level).To(Equal(9))
		})

		It("trims the name and rejects a blank one", func() {
			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", Name: patch.Value("  Lager  ")})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Lager"))

			_, err = service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", Name: patch.Value("   ")})
			Expect(err).To(MatchError(orgunit.ErrNameRequired))
			Expect(mockRepo.units["leaf"].Name).To(Equal("Lager"))
		})

		It("rejects moving a unit under its own descendant", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "deep", UserID: userID, Name: "Deep", ParentID: strPtr("mid"), Level: intPtr(3)})

			_, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "root", ParentID: patch.Value("deep")})
			Expect(err).To(MatchError(orgunit.ErrCycle))
			Expect(mockRepo.moveCalls).To(BeZero())
			Expect(mockRepo.units["root"].ParentID).To(BeNil())
		})

		It("recomputes levels for the whole subtree", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "other", UserID: userID, Name: "Other", Level: intPtr(1), SortIndex: 1})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "grand", UserID: userID, Name: "Grand", ParentID: strPtr("mid"), Level: intPtr(3)})

			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "root", ParentID: patch.Value("other")})
			Expect(err).NotTo(HaveOccurred())
			Expect(*u.Level).To(Equal(2))
			Expect(*mockRepo.units["mid"].Level).To(Equal(3))
			Expect(*mockRepo.units["leaf"].Level).To(Equal(3))
			Expect(*mockRepo.units["grand"].Level).To(Equal(4))

			tree, err := service.Tree(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree).To(HaveLen(1))
			Expect(tree[0].ID).To(Equal("other"))
		})

		It("appends a moved unit to its new siblings and closes the gap it leaves", func() {
			mockRepo.units["mid"].SortIndex = 0
			mockRepo.units["leaf"].SortIndex = 1
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "tail", UserID: userID, Name: "Tail", ParentID: strPtr("root"), Level: intPtr(2), SortIndex: 2})

			u, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "mid", ParentID: patch.Null[string]()})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.SortIndex).To(Equal(1))
			Expect(mockRepo.units["leaf"].SortIndex).To(Equal(0))
			Expect(mockRepo.units["tail"].SortIndex).To(Equal(1))
		})

		It("rejects a unit as its own parent", func() {
			_, err := service.Update(ctx, userID, orgunit.UpdateOrgUnitInput{ID: "leaf", ParentID: patch.Value("leaf")})
			Expect(err).To(MatchError(orgunit.ErrSelfParent))
		})
	})

	Describe("Delete", func() {
		It("requires an id", func() {
			Expect(service.Delete(ctx, userID, "")).To(MatchError(internal.ErrIDRequired))
		})

		It("leaves children in place and the tree shows them as roots", func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "root", UserID: userID, Name: "Root", Level: intPtr(1)})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "child", UserID: userID, Name: "Child", ParentID: strPtr("root"), Level: intPtr(2), SortIndex: 1})

			Expect(service.Delete(ctx, userID, "root")).To(Succeed())

			tree, err := service.Tree(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree).To(HaveLen(1))
			Expect(tree[0].ID).To(Equal("child"))
		})
	})

	Describe("Reorder", func() {
		BeforeEach(func() {
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "a", UserID: userID, Name: "A", ParentID: strPtr("p1"), SortIndex: 0})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "b", UserID: userID, Name: "B", ParentID: strPtr("p1"), SortIndex: 1})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "c", UserID: userID, Name: "C", ParentID: strPtr("p1"), SortIndex: 2})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "x", UserID: userID, Name: "X", ParentID: strPtr("p2"), SortIndex: 5})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "r", UserID: userID, Name: "R", SortIndex: 7})
			mockRepo.Add(&orgunitDatamodel.OrgUnit{ID: "foreign", UserID: "other", Name: "F", ParentID: strPtr("p1")})
		})

		It("rejects an empty list", func() {
			err := service.Reorder(ctx, userID, nil)
			Expect(err).To(MatchError(orgunit.ErrReorderEmpty))
		})

		It("rejects unknown or foreign ids", func() {
			err := service.Reorder(ctx, userID, []string{"a", "foreign"})
			Expect(err).To(MatchError(internal.ErrUnitsNotOwned))
			Expect(mockRepo.sortCalls).To(BeZero())
		})

		It("rejects duplicate ids", func() {
			err := service.Reorder(ctx, userID, []string{"a", "a"})
			Expect(err).To(MatchError(internal.ErrUnitsNotOwned))
		})

		It("rejects units from different levels without touching sort indices", func() {
			err := service.Reorder(ctx, userID, []string{"a", "x"})
			Expect(err).To(MatchError(orgunit.ErrCrossLevel))
			Expect(mockRepo.units["a"].SortIndex).To(Equal(0))
			Expect(mockRepo.units["x"].SortIndex).To(Equal(5))
		})

		It("rejects mixing a root with a child", func() {
			Expect(service.Reorder(ctx, userID, []string{"r", "a"})).To(MatchError(orgunit.ErrCrossLevel))
		})

		It("assigns contiguous indices in submitted order", func() {
			Expect(service.Reorder(ctx, userID, []string{"c", "a", "b"})).To(Succeed())

			Expect(mockRepo.units["c"].SortIndex).To(Equal(0))
			Expect(mockRepo.units["a"].SortIndex).To(Equal(1))
			Expect(mockRepo.units["b"].SortIndex).To(Equal(2))
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeOrgUnitsReordered))
		})

		It("surfaces store errors", func() {
			mockRepo.SetShouldFail(true, errors.New("timeout"))
			err := service.Reorder(ctx, userID, []string{"a"})
			Expect(err).To(MatchError(ContainSubstring("timeout")))
			Expect(publisher.published).To(BeEmpty())
		})
	})
})
