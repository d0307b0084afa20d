package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/stayfix/stayfix/internal/core/common/validation"
	"github.com/stayfix/stayfix/internal/reminder"
)

type RepositoryAPI interface {
	Counts(ctx context.Context, userID string) (Counts, error)
	ExpiryDates(ctx context.Context, userID string) ([]time.Time, error)
}

type ReminderPlanner interface {
	Upcoming(ctx context.Context, userID string, from, to time.Time) ([]reminder.Reminder, error)
}

type Service struct {
	repo    RepositoryAPI
	planner ReminderPlanner
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, planner ReminderPlanner, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		planner: planner,
		logger:  logger,
		now:     time.Now,
	}
}

// Stats summarises permit expiries relative to today.
func (s *Service) Stats(ctx context.Context, userID string, today time.Time) (*Stats, error) {
	today = validation.DateOnly(today)

	counts, err := s.repo.Counts(ctx, userID)
	if err != nil {
		s.logger.Error("failed to count employees", "user_id", userID, "error", err)
		return nil, fmt.Errorf("count employees: %w", err)
	}
	dates, err := s.repo.ExpiryDates(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load expiry dates", "user_id", userID, "error", err)
		return nil, fmt.Errorf("load expiry dates: %w", err)
	}

	stats := &Stats{
		TotalEmployees:         counts.Total,
		WithPermits:            counts.WithPermits,
		EmployeesWithoutPermit: counts.Total - counts.WithPermits,
		ExpiryBuckets:          make([]ExpiryBucket, len(bucketRanges)),
		GeneratedAt:            s.now().UTC(),
	}
	for i, r := range bucketRanges {
		stats.ExpiryBuckets[i] = ExpiryBucket{
			Label: strconv.Itoa(r.from) + "-" + strconv.Itoa(r.to),
			From:  r.from,
			To:    r.to,
		}
	}

	for _, d := range dates {
		days := validation.DaysBetween(today, d)
		if days < 0 {
			stats.Expired++
			continue
		}
		if days <= 90 {
			stats.Expiring90Days++
		}
		if days <= 30 {
			stats.Expiring30Days++
		}
		for i, r := range bucketRanges {
			if days >= r.from && days <= r.to {
				stats.ExpiryBuckets[i].Count++
			}
		}
	}

	week, err := s.planner.Upcoming(ctx, userID, today, today.AddDate(0, 0, 6))
	if err != nil {
		s.logger.Error("failed to plan reminders", "user_id", userID, "error", err)
		return nil, fmt.Errorf("plan reminders: %w", err)
	}
	stats.RemindersThisWeek = len(week)
	for _, r := range week {
		if r.DueDate.Equal(today) {
			stats.RemindersToday++
		}
	}
	return stats, nil
}

// Today is the service clock's current date.
func (s *Service) Today() time.Time {
	return validation.DateOnly(s.now())
}
