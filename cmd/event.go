package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/stayfix/stayfix/internal/core/events"
	"github.com/stayfix/stayfix/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus for testing and debugging`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0], eventData)
	},
}

var eventData string

func publishTestEvent(ctx context.Context, eventType, data string) error {
	logger := logger.LoggerWrapper()

	payload := map[string]interface{}{}
	if data != "" {
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return fmt.Errorf("--data must be a JSON object: %w", err)
		}
	}
	payload["source"] = "cli-command"

	eventBus := events.NewEventBus(logger)
	eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := events.New(eventType, payload)
	logger.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	if !slices.Contains(events.AllTypes, eventType) {
		fmt.Fprintf(os.Stderr, "warning: %s is not a domain event type\n", eventType)
	}

	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	logger.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", `{"message":"test message"}`, "Event payload as a JSON object")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
