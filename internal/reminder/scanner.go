package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/internal/telemetry"
)

type UserLister interface {
	ActiveUserIDs(ctx context.Context) ([]string, error)
}

type UpcomingLister interface {
	Upcoming(ctx context.Context, userID string, from, to time.Time) ([]Reminder, error)
}

// LogStore remembers dispatched reminders. Record reports false when the
// reminder was recorded before.
type LogStore interface {
	Record(ctx context.Context, r Reminder) (bool, error)
}

type Result struct {
	Planned    int
	Dispatched int
	Skipped    int
	Failed     int
}

type Scanner struct {
	users     UserLister
	planner   UpcomingLister
	log       LogStore
	publisher events.Publisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

func NewScanner(users UserLister, planner UpcomingLister, log LogStore, publisher events.Publisher, metrics *telemetry.Metrics, logger *slog.Logger) *Scanner {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Scanner{
		users:     users,
		planner:   planner,
		log:       log,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// RunOnce dispatches every reminder due on today that was not dispatched yet.
// A failing user does not stop the scan; all failures are returned joined.
func (s *Scanner) RunOnce(ctx context.Context, today time.Time) (Result, error) {
	var res Result
	userIDs, err := s.users.ActiveUserIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}

	var errs []error
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		due, err := s.planner.Upcoming(ctx, userID, today, today)
		if err != nil {
			s.logger.Error("failed to plan reminders", "user_id", userID, "error", err)
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			res.Failed++
			continue
		}
		res.Planned += len(due)

		for _, r := range due {
			if err := s.dispatch(ctx, r, &res); err != nil {
				errs = append(errs, err)
			}
		}
	}

	s.metrics.ReminderOutcome(telemetry.OutcomeDispatched, res.Dispatched)
	s.metrics.ReminderOutcome(telemetry.OutcomeSkipped, res.Skipped)
	s.metrics.ReminderOutcome(telemetry.OutcomeFailed, res.Failed)
	s.logger.Info("reminder scan finished",
		"date", today.Format(time.DateOnly),
		"planned", res.Planned,
		"dispatched", res.Dispatched,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, errors.Join(errs...)
}

func (s *Scanner) dispatch(ctx context.Context, r Reminder, res *Result) error {
	inserted, err := s.log.Record(ctx, r)
	if err != nil {
		s.logger.Error("failed to record reminder", "employee_id", r.EmployeeID, "phase_id", r.PhaseID, "error", err)
		res.Failed++
		return fmt.Errorf("record reminder %s/%s: %w", r.EmployeeID, r.PhaseID, err)
	}
	if !inserted {
		res.Skipped++
		return nil
	}

	event := events.NewReminderDueEvent(r.UserID, r.EmployeeID, r.RuleID, r.PhaseID, r.DueDate, r.OffsetDays, r.Recipients())
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish reminder", "employee_id", r.EmployeeID, "error", err)
	}
	s.logger.Info("reminder due",
		"employee_id", r.EmployeeID,
		"employee", r.EmployeeName,
		"rule", r.RuleName,
		"label", r.Label,
		"valid_until", r.ValidUntil.Format(time.DateOnly),
	)
	res.Dispatched++
	return nil
}
