package notification

import (
	"strings"

	"github.com/stayfix/stayfix/internal"
	"github.com/stayfix/stayfix/internal/core/common/validation"
	notificationDatamodel "github.com/stayfix/stayfix/internal/core/datamodel/notification"
)

var (
	ErrNameRequired   = internal.NewValidationError("Name der Benachrichtigungsregel ist erforderlich.", internal.ErrCodeNameRequired)
	ErrPhasesRequired = internal.NewValidationError("Mindestens ein Zeitpunkt (Phase) ist erforderlich.", internal.ErrCodePhasesRequired)
)

type SaveRuleInput struct {
	ID          *string      `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	IsActive    *bool        `json:"isActive"`
	Phases      []PhaseInput `json:"phases"`
}

// NormalizedRule is a validated SaveRuleInput with every offset resolved.
type NormalizedRule struct {
	ID          string
	Name        string
	Description *string
	IsActive    bool
	Phases      []NormalizedPhase
}

type NormalizedPhase struct {
	OffsetDays       int
	NotifyEmployee   bool
	NotifySupervisor bool
	OrgUnitIDs       []string
}

// PhaseRecord is one phase row plus its recipient rows, ready to insert.
type PhaseRecord struct {
	Phase      *notificationDatamodel.Phase
	Recipients []*notificationDatamodel.Recipient
}

// Normalize validates the whole input before anything is written.
func (in SaveRuleInput) Normalize() (*NormalizedRule, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(in.Phases) == 0 {
		return nil, ErrPhasesRequired
	}

	out := &NormalizedRule{
		Name:        name,
		Description: validation.TrimOrNil(in.Description),
		IsActive:    true,
		Phases:      make([]NormalizedPhase, 0, len(in.Phases)),
	}
	if in.ID != nil {
		out.ID = strings.TrimSpace(*in.ID)
	}
	if in.IsActive != nil {
		out.IsActive = *in.IsActive
	}

	for _, p := range in.Phases {
		offset, err := OffsetFromPhase(p)
		if err != nil {
			return nil, err
		}
		units := make([]string, 0, len(p.OrgUnitIDs))
		for _, id := range p.OrgUnitIDs {
			if id = strings.TrimSpace(id); id != "" {
				units = append(units, id)
			}
		}
		out.Phases = append(out.Phases, NormalizedPhase{
			OffsetDays:       offset,
			NotifyEmployee:   p.NotifyEmployee,
			NotifySupervisor: p.NotifySupervisor,
			OrgUnitIDs:       units,
		})
	}
	return out, nil
}

// OrgUnitIDs returns the distinct org units referenced by any phase.
func (n *NormalizedRule) OrgUnitIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range n.Phases {
		for _, id := range p.OrgUnitIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Records builds the phase and recipient rows for ruleID.
func (n *NormalizedRule) Records(userID, ruleID string) []PhaseRecord {
	records := make([]PhaseRecord, 0, len(n.Phases))
	for _, p := range n.Phases {
		rec := PhaseRecord{
			Phase: &notificationDatamodel.Phase{
				UserID:           userID,
				RuleID:           ruleID,
				OffsetDays:       p.OffsetDays,
				NotifyEmployee:   p.NotifyEmployee,
				NotifySupervisor: p.NotifySupervisor,
			},
		}
		for i, unitID := range p.OrgUnitIDs {
			rec.Recipients = append(rec.Recipients, &notificationDatamodel.Recipient{
				UserID:    userID,
				OrgUnitID: unitID,
				SortIndex: i,
			})
		}
		records = append(records, rec)
	}
	return records
}

type SaveRuleResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type GroupedRulesResponse struct {
	Rules []*RuleView `json:"rules"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
