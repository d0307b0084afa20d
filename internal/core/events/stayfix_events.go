package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRuleSaved             = "notification_rule.saved"
	EventTypeRuleDeleted           = "notification_rule.deleted"
	EventTypeOrgUnitsReordered     = "org_unit.reordered"
	EventTypeEmployeeStatusChanged = "employee.status_changed"
	EventTypeReminderDue           = "reminder.due"
)

// AllTypes lists every domain event type.
var AllTypes = []string{
	EventTypeRuleSaved,
	EventTypeRuleDeleted,
	EventTypeOrgUnitsReordered,
	EventTypeEmployeeStatusChanged,
	EventTypeReminderDue,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// New builds a generic event, used by the debugging CLI.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return newBase(eventType, data)
}

func NewRuleSavedEvent(userID, ruleID string, created bool, phaseCount int) BaseEvent {
	return newBase(EventTypeRuleSaved, map[string]interface{}{
		"user_id":     userID,
		"rule_id":     ruleID,
		"created":     created,
		"phase_count": phaseCount,
	})
}

func NewRuleDeletedEvent(userID, ruleID string) BaseEvent {
	return newBase(EventTypeRuleDeleted, map[string]interface{}{
		"user_id": userID,
		"rule_id": ruleID,
	})
}

func NewOrgUnitsReorderedEvent(userID string, parentID *string, orderedIDs []string) BaseEvent {
	var parent interface{}
	if parentID != nil {
		parent = *parentID
	}
	return newBase(EventTypeOrgUnitsReordered, map[string]interface{}{
		"user_id":     userID,
		"parent_id":   parent,
		"ordered_ids": orderedIDs,
	})
}

func NewEmployeeStatusChangedEvent(userID, employeeID, from, to string) BaseEvent {
	return newBase(EventTypeEmployeeStatusChanged, map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"from":        from,
		"to":          to,
	})
}

func NewReminderDueEvent(userID, employeeID, ruleID, phaseID string, dueDate time.Time, offsetDays int, recipients []string) BaseEvent {
	return newBase(EventTypeReminderDue, map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"rule_id":     ruleID,
		"phase_id":    phaseID,
		"due_date":    dueDate.Format(time.DateOnly),
		"offset_days": offsetDays,
		"recipients":  recipients,
	})
}
