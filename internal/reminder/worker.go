package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultSchedule = "0 0 6 * * *"

// Worker runs the scanner on a cron schedule with a seconds field.
type Worker struct {
	cron    *cron.Cron
	scanner *Scanner
	logger  *slog.Logger
	now     func() time.Time
}

func NewWorker(scanner *Scanner, schedule string, logger *slog.Logger) (*Worker, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	w := &Worker{
		cron:    cron.New(cron.WithSeconds()),
		scanner: scanner,
		logger:  logger,
		now:     time.Now,
	}
	if _, err := w.cron.AddFunc(schedule, w.tick); err != nil {
		return nil, fmt.Errorf("schedule reminder scan %q: %w", schedule, err)
	}
	return w, nil
}

func (w *Worker) tick() {
	if _, err := w.scanner.RunOnce(context.Background(), w.now()); err != nil {
		w.logger.Error("reminder scan failed", "error", err)
	}
}

func (w *Worker) Start() {
	w.logger.Info("reminder worker started", "entries", len(w.cron.Entries()))
	w.cron.Start()
}

// Stop waits for a running scan to finish or ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	done := w.cron.Stop()
	select {
	case <-done.Done():
		w.logger.Info("reminder worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports when the next scan is scheduled.
func (w *Worker) Next() time.Time {
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
