package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/stayfix/stayfix/internal/employee"
	"github.com/stayfix/stayfix/internal/notification"
)

type EmployeeLister interface {
	List(ctx context.Context, userID string, filter employee.ListFilter) ([]*employee.Employee, error)
}

type RuleLister interface {
	GroupedRules(ctx context.Context, userID string) ([]*notification.RuleView, error)
}

// Planner loads one user's employees and rules and plans their reminders.
type Planner struct {
	employees EmployeeLister
	rules     RuleLister
}

func NewPlanner(employees EmployeeLister, rules RuleLister) *Planner {
	return &Planner{employees: employees, rules: rules}
}

func (p *Planner) Upcoming(ctx context.Context, userID string, from, to time.Time) ([]Reminder, error) {
	employees, err := p.employees.List(ctx, userID, employee.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	rules, err := p.rules.GroupedRules(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return Plan(employees, rules, from, to), nil
}
