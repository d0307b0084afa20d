package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/stayfix/stayfix/internal"
	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockRepository implements notification.RepositoryAPI for testing
type MockRepository struct {
	rules       map[string]*notificationDatamodel.Rule
	phases      map[string][]notification.PhaseRecord
	ownedUnits  map[string]bool
	shouldFail  bool
	failError   error
	createCalls int
	replaced    []string
	deleted     []string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		rules:      make(map[string]*notificationDatamodel.Rule),
		phases:     make(map[string][]notification.PhaseRecord),
		ownedUnits: make(map[string]bool),
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) GetRule(_ context.Context, userID, id string) (*notificationDatamodel.Rule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.rules[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (m *MockRepository) ListRules(_ context.Context, userID string) ([]*notificationDatamodel.Rule, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*notificationDatamodel.Rule
	for _, r := range m.rules {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRepository) ListPhases(_ context.Context, _ string, ruleIDs []string) ([]*notificationDatamodel.Phase, error) {
	var out []*notificationDatamodel.Phase
	for _, id := range ruleIDs {
		for _, rec := range m.phases[id] {
			out = append(out, rec.Phase)
		}
	}
	return out, nil
}

func (m *MockRepository) ListRecipients(_ context.Context, _ string, phaseIDs []string) ([]*notificationDatamodel.Recipient, error) {
	wanted := map[string]bool{}
	for _, id := range phaseIDs {
		wanted[id] = true
	}
	var out []*notificationDatamodel.Recipient
	for _, recs := range m.phases {
		for _, rec := range recs {
			for _, rc := range rec.Recipients {
				if wanted[rc.PhaseID] {
					out = append(out, rc)
				}
			}
		}
	}
	return out, nil
}

func (m *MockRepository) CountOwnedOrgUnits(_ context.Context, _ string, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		if m.ownedUnits[id] {
			n++
		}
	}
	return n, nil
}

func (m *MockRepository) store(rule *notificationDatamodel.Rule, phases []notification.PhaseRecord) {
	for i, rec := range phases {
		rec.Phase.ID = rule.ID + "-p" + string(rune('0'+i))
		rec.Phase.RuleID = rule.ID
		for _, rc := range rec.Recipients {
			rc.PhaseID = rec.Phase.ID
		}
	}
	m.rules[rule.ID] = rule
	m.phases[rule.ID] = phases
}

func (m *MockRepository) CreateRule(_ context.Context, rule *notificationDatamodel.Rule, phases []notification.PhaseRecord) error {
	if m.shouldFail {
		return m.failError
	}
	m.createCalls++
	rule.ID = "rule-" + string(rune('0'+m.createCalls))
	m.store(rule, phases)
	return nil
}

func (m *MockRepository) ReplaceRule(_ context.Context, rule *notificationDatamodel.Rule, phases []notification.PhaseRecord) error {
	if m.shouldFail {
		return m.failError
	}
	m.replaced = append(m.replaced, rule.ID)
	m.store(rule, phases)
	return nil
}

func (m *MockRepository) DeleteRule(_ context.Context, _ string, id string) error {
	if m.shouldFail {
		return m.failError
	}
	m.deleted = append(m.deleted, id)
	delete(m.rules, id)
	delete(m.phases, id)
	return nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

var _ = Describe("Notification Service", func() {
	var (
		ctx       context.Context
		mockRepo  *MockRepository
		publisher *recordingPublisher
		service   *notification.Service
	)

	const userID = "user-1"

	input := func(phases ...notification.PhaseInput) notification.SaveRuleInput {
		return notification.SaveRuleInput{Name: "Standard", Phases: phases}
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = notification.NewService(mockRepo, publisher, logger)
	})

	Describe("SaveRule", func() {
		It("creates a rule and reports it as created", func() {
			id, created, err := service.SaveRule(ctx, userID, input(notification.PhaseInput{TimingType: notification.TimingOn}))
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
			Expect(id).To(Equal("rule-1"))
			Expect(mockRepo.rules[id].IsActive).To(BeTrue())
			Expect(mockRepo.rules[id].UserID).To(Equal(userID))

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeRuleSaved))
		})

		It("does not write anything when a phase is invalid", func() {
			_, _, err := service.SaveRule(ctx, userID, input(
				notification.PhaseInput{TimingType: notification.TimingOn},
				notification.PhaseInput{TimingType: notification.TimingBefore},
			))
			Expect(err).To(MatchError(notification.ErrPositiveDays))
			Expect(mockRepo.createCalls).To(BeZero())
			Expect(publisher.published).To(BeEmpty())
		})

		It("replaces an existing rule", func() {
			mockRepo.rules["r1"] = &notificationDatamodel.Rule{ID: "r1", UserID: userID, Name: "Alt", IsActive: true}

			in := input(notification.PhaseInput{TimingType: notification.TimingAfter, Days: days(3)})
			id := "r1"
			in.ID = &id
			in.Name = "Neu"

			saved, created, err := service.SaveRule(ctx, userID, in)
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeFalse())
			Expect(saved).To(Equal("r1"))
			Expect(mockRepo.replaced).To(Equal([]string{"r1"}))
			Expect(mockRepo.rules["r1"].Name).To(Equal("Neu"))
			Expect(mockRepo.phases["r1"][0].Phase.OffsetDays).To(Equal(-3))
		})

		It("returns not found for a foreign rule id", func() {
			mockRepo.rules["r1"] = &notificationDatamodel.Rule{ID: "r1", UserID: "other"}
			in := input(notification.PhaseInput{TimingType: notification.TimingOn})
			id := "r1"
			in.ID = &id

			_, _, err := service.SaveRule(ctx, userID, in)
			Expect(err).To(MatchError(notification.ErrRuleNotFound))
			Expect(mockRepo.replaced).To(BeEmpty())
		})

		It("rejects recipients outside the user's org units", func() {
			mockRepo.ownedUnits["mine"] = true
			_, _, err := service.SaveRule(ctx, userID, input(notification.PhaseInput{
				TimingType: notification.TimingOn,
				OrgUnitIDs: []string{"mine", "theirs"},
			}))
			Expect(err).To(MatchError(internal.ErrUnitsNotOwned))
			Expect(mockRepo.createCalls).To(BeZero())
		})

		It("reports an unknown rule before checking its recipients", func() {
			in := input(notification.PhaseInput{TimingType: notification.TimingOn, OrgUnitIDs: []string{"theirs"}})
			id := "missing"
			in.ID = &id

			_, _, err := service.SaveRule(ctx, userID, in)
			Expect(err).To(MatchError(notification.ErrRuleNotFound))
			Expect(err.Error()).To(Equal("Regel nicht gefunden."))
		})

		It("surfaces store errors", func() {
			mockRepo.SetShouldFail(true, errors.New("connection reset"))
			_, _, err := service.SaveRule(ctx, userID, input(notification.PhaseInput{TimingType: notification.TimingOn}))
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
			_, isApp := internal.IsAppError(err)
			Expect(isApp).To(BeFalse())
		})
	})

	Describe("DeleteRule", func() {
		It("requires an id", func() {
			Expect(service.DeleteRule(ctx, userID, "")).To(MatchError(internal.ErrIDRequired))
		})

		It("returns not found for unknown rules", func() {
			Expect(service.DeleteRule(ctx, userID, "missing")).To(MatchError(notification.ErrRuleNotFound))
			Expect(mockRepo.deleted).To(BeEmpty())
		})

		It("deletes owned rules and publishes", func() {
			mockRepo.rules["r1"] = &notificationDatamodel.Rule{ID: "r1", UserID: userID}
			Expect(service.DeleteRule(ctx, userID, "r1")).To(Succeed())
			Expect(mockRepo.deleted).To(Equal([]string{"r1"}))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeRuleDeleted))
		})
	})

	Describe("ListRules", func() {
		It("returns empty lists when the user has no rules", func() {
			set, err := service.ListRules(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(set.Rules).To(BeEmpty())
			Expect(set.Phases).NotTo(BeNil())
			Expect(set.Recipients).NotTo(BeNil())
		})

		It("loads phases and recipients of the user's rules", func() {
			mockRepo.ownedUnits["hr"] = true
			_, _, err := service.SaveRule(ctx, userID, input(notification.PhaseInput{
				TimingType: notification.TimingBefore, Days: days(10), OrgUnitIDs: []string{"hr"},
			}))
			Expect(err).NotTo(HaveOccurred())

			grouped, err := service.GroupedRules(ctx, userID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grouped).To(HaveLen(1))
			Expect(grouped[0].Phases[0].Label).To(Equal("10 Tage vor Ablauf"))
			Expect(grouped[0].Phases[0].OrgUnitIDs).To(Equal([]string{"hr"}))
		})
	})
})
