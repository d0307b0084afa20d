package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/stayfix/stayfix/internal/reminder"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers such as the reminder scan.`,
}

var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Start the reminder scan worker",
	Long:  `Run the reminder scan on the configured cron schedule, or once with --once.`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

var (
	runOnce      bool
	scheduleFlag string
)

func startReminderWorker() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()
	logger := app.Logger

	if runOnce {
		res, err := app.Scanner.RunOnce(context.Background(), time.Now())
		if err != nil {
			logger.Error("reminder scan failed", "error", err)
			_ = app.Close()
			os.Exit(1)
		}
		logger.Info("reminder scan complete", "dispatched", res.Dispatched, "skipped", res.Skipped)
		return
	}

	worker, err := reminder.NewWorker(app.Scanner, getStringFlag(scheduleFlag, cfg.Reminder.Schedule), logger)
	if err != nil {
		logger.Error("failed to schedule reminders", "error", err)
		_ = app.Close()
		os.Exit(1)
	}
	worker.Start()
	logger.Info("reminder worker is running. Press Ctrl+C to stop.", "next", worker.Next())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// wait for shutdown signal
	sig := <-sigChan
	logger.Info("received signal, shutting down reminder worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := worker.Stop(ctx); err != nil {
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	reminderWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single scan for today and exit")
	reminderWorkerCmd.Flags().StringVar(&scheduleFlag, "schedule", "", "Cron schedule with seconds (overrides config)")

	workerCmd.AddCommand(reminderWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
