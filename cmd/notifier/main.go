// The notifier drains reservation notification events from Kafka and hands
// them to the chat transport webhook fronting the service. Failed deliveries
// are retried by the consumer up to its retry budget, then dropped.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gearbook/pkg/client"
	"gearbook/pkg/config"
	"gearbook/pkg/kafka"
	kafka_config "gearbook/pkg/kafka/config"
	"gearbook/pkg/logger"
	"gearbook/pkg/notify"
)

const (
	ServiceName = "notifier"

	EnvWebhookURL      = "NOTIFIER_WEBHOOK_URL"
	EnvConsumerGroupID = "NOTIFIER_CONSUMER_GROUP_ID"

	DefaultConsumerGroupID = "gearbook-notifier"
)

type delivery struct {
	webhook *client.HttpClient
	log     *logger.Logger
}

func (d *delivery) handle(ctx context.Context, msg kafka.Message) error {
	var event notify.Event
	if err := msg.DecodeValue(&event); err != nil {
		d.log.Error("Dropping undecodable notification", "event_id", msg.GetEventID(), "error", err)
		return nil
	}

	d.log.Info("Delivering notification",
		"kind", event.Kind,
		"recipient", event.Recipient,
		"channel", event.Channel,
		"reservation_id", event.ReservationID,
	)

	if d.webhook == nil {
		return nil
	}

	resp, err := d.webhook.POST(ctx, "/", event)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, client.GetErrorMessage(resp))
	}
	return nil
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Notifier worker")

	d := &delivery{log: cfg.Log}
	if webhookURL := os.Getenv(EnvWebhookURL); webhookURL != "" {
		d.webhook = client.NewHttpClient(webhookURL)
		cfg.Log.Info("Webhook delivery enabled", "url", webhookURL)
	} else {
		cfg.Log.Warn("No webhook configured, notifications will only be logged")
	}

	groupID := os.Getenv(EnvConsumerGroupID)
	if groupID == "" {
		groupID = DefaultConsumerGroupID
	}

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.NotificationsTopic, groupID, d.handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Consuming notifications", "topic", cfg.NotificationsTopic, "group_id", groupID)
	if err := consumer.Start(ctx); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
