package reminder

import (
	"sort"
	"time"

	"github.com/stayfix/stayfix/internal/core/common/validation"
	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/notification"
)

// Reminder is one phase of a rule falling due for one employee.
type Reminder struct {
	UserID              string    `json:"userId"`
	EmployeeID          string    `json:"employeeId"`
	EmployeeName        string    `json:"employeeName"`
	OrgUnitID           *string   `json:"orgUnitId"`
	RuleID              string    `json:"ruleId"`
	RuleName            string    `json:"ruleName"`
	PhaseID             string    `json:"phaseId"`
	OffsetDays          int       `json:"offsetDays"`
	Label               string    `json:"label"`
	ValidUntil          time.Time `json:"validUntil"`
	DueDate             time.Time `json:"dueDate"`
	NotifyEmployee      bool      `json:"notifyEmployee"`
	NotifySupervisor    bool      `json:"notifySupervisor"`
	RecipientOrgUnitIDs []string  `json:"recipientOrgUnitIds"`
}

// DueDate is the day a phase fires: offset days before valid_until.
func DueDate(validUntil time.Time, offsetDays int) time.Time {
	return validation.DateOnly(validUntil).AddDate(0, 0, -offsetDays)
}

// Plan lists the reminders due between from and to, both inclusive. Employees
// without valid_until or without an active assigned rule produce nothing.
// The result is ordered by due date, then employee name, then offset.
func Plan(employees []*employee.Employee, rules []*notification.RuleView, from, to time.Time) []Reminder {
	from, to = validation.DateOnly(from), validation.DateOnly(to)
	byID := make(map[string]*notification.RuleView, len(rules))
	for _, r := range rules {
		byID[r.ID] = r
	}

	out := []Reminder{}
	for _, e := range employees {
		if e.ValidUntil == nil || e.NotificationRuleID == nil {
			continue
		}
		rule, ok := byID[*e.NotificationRuleID]
		if !ok || !rule.IsActive {
			continue
		}
		validUntil := validation.DateOnly(time.Time(*e.ValidUntil))
		for _, p := range rule.Phases {
			due := DueDate(validUntil, p.OffsetDays)
			if due.Before(from) || due.After(to) {
				continue
			}
			out = append(out, Reminder{
				UserID:              e.UserID,
				EmployeeID:          e.ID,
				EmployeeName:        e.FullName(),
				OrgUnitID:           e.OrgUnitID,
				RuleID:              rule.ID,
				RuleName:            rule.Name,
				PhaseID:             p.ID,
				OffsetDays:          p.OffsetDays,
				Label:               p.Label,
				ValidUntil:          validUntil,
				DueDate:             due,
				NotifyEmployee:      p.NotifyEmployee,
				NotifySupervisor:    p.NotifySupervisor,
				RecipientOrgUnitIDs: append([]string{}, p.OrgUnitIDs...),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.OffsetDays > b.OffsetDays
	})
	return out
}

// Recipients names who is notified, for event payloads and logs.
func (r Reminder) Recipients() []string {
	var out []string
	if r.NotifyEmployee {
		out = append(out, "employee")
	}
	if r.NotifySupervisor {
		out = append(out, "supervisor")
	}
	for _, id := range r.RecipientOrgUnitIDs {
		out = append(out, "org_unit:"+id)
	}
	return out
}
