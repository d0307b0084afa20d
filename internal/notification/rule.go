package notification

import (
	"sort"
	"time"

	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
)

type Rule struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Phase struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RuleID           string    `json:"rule_id"`
	OffsetDays       int       `json:"offset_days"`
	NotifyEmployee   bool      `json:"notify_employee"`
	NotifySupervisor bool      `json:"notify_supervisor"`
	CreatedAt        time.Time `json:"created_at"`
}

type Recipient struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PhaseID   string    `json:"phase_id"`
	OrgUnitID string    `json:"org_unit_id"`
	SortIndex int       `json:"sort_index"`
	CreatedAt time.Time `json:"created_at"`
}

// RuleSet is the flat read model: three row lists linked by foreign keys.
type RuleSet struct {
	Rules      []*Rule      `json:"rules"`
	Phases     []*Phase     `json:"phases"`
	Recipients []*Recipient `json:"recipients"`
}

type RuleView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	IsActive    bool         `json:"isActive"`
	CreatedAt   time.Time    `json:"createdAt"`
	Phases      []*PhaseView `json:"phases"`
}

type PhaseView struct {
	ID               string     `json:"id"`
	OffsetDays       int        `json:"offsetDays"`
	TimingType       TimingType `json:"timingType"`
	Days             int        `json:"days"`
	Label            string     `json:"label"`
	ShortLabel       string     `json:"shortLabel"`
	NotifyEmployee   bool       `json:"notifyEmployee"`
	NotifySupervisor bool       `json:"notifySupervisor"`
	OrgUnitIDs       []string   `json:"orgUnitIds"`
}

// Assemble groups recipients under phases under rules. Rules keep their input
// order, phases are ordered by offset and recipients by sort index. Rows whose
// parent is missing from the set are dropped.
func Assemble(set RuleSet) []*RuleView {
	views := make([]*RuleView, 0, len(set.Rules))
	byRule := make(map[string]*RuleView, len(set.Rules))
	for _, r := range set.Rules {
		v := &RuleView{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			IsActive:    r.IsActive,
			CreatedAt:   r.CreatedAt,
			Phases:      []*PhaseView{},
		}
		views = append(views, v)
		byRule[r.ID] = v
	}

	recipients := make([]*Recipient, len(set.Recipients))
	copy(recipients, set.Recipients)
	sort.SliceStable(recipients, func(i, j int) bool {
		return recipients[i].SortIndex < recipients[j].SortIndex
	})
	unitsByPhase := make(map[string][]string)
	for _, rc := range recipients {
		unitsByPhase[rc.PhaseID] = append(unitsByPhase[rc.PhaseID], rc.OrgUnitID)
	}

	for _, p := range set.Phases {
		rule, ok := byRule[p.RuleID]
		if !ok {
			continue
		}
		rule.Phases = append(rule.Phases, NewPhaseView(p, unitsByPhase[p.ID]))
	}

	for _, v := range views {
		sort.SliceStable(v.Phases, func(i, j int) bool {
			return v.Phases[i].OffsetDays < v.Phases[j].OffsetDays
		})
	}
	return views
}

func NewPhaseView(p *Phase, orgUnitIDs []string) *PhaseView {
	timing, days := TimingFromOffset(p.OffsetDays)
	if orgUnitIDs == nil {
		orgUnitIDs = []string{}
	}
	return &PhaseView{
		ID:               p.ID,
		OffsetDays:       p.OffsetDays,
		TimingType:       timing,
		Days:             days,
		Label:            TimingLabel(p.OffsetDays),
		ShortLabel:       ShortLabel(p.OffsetDays),
		NotifyEmployee:   p.NotifyEmployee,
		NotifySupervisor: p.NotifySupervisor,
		OrgUnitIDs:       orgUnitIDs,
	}
}

func RuleFromDataModel(r *notificationDatamodel.Rule) *Rule {
	return &Rule{
		ID:          r.ID,
		UserID:      r.UserID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
	}
}

func PhaseFromDataModel(p *notificationDatamodel.Phase) *Phase {
	return &Phase{
		ID:               p.ID,
		UserID:           p.UserID,
		RuleID:           p.RuleID,
		OffsetDays:       p.OffsetDays,
		NotifyEmployee:   p.NotifyEmployee,
		NotifySupervisor: p.NotifySupervisor,
		CreatedAt:        p.CreatedAt,
	}
}

func RecipientFromDataModel(r *notificationDatamodel.Recipient) *Recipient {
	return &Recipient{
		ID:        r.ID,
		UserID:    r.UserID,
		PhaseID:   r.PhaseID,
		OrgUnitID: r.OrgUnitID,
		SortIndex: r.SortIndex,
		CreatedAt: r.CreatedAt,
	}
}
