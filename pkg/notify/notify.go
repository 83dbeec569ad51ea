package notify

import (
	"context"

	"gearbook/pkg/kafka"
	"gearbook/pkg/logger"
)

const (
	EventUserNotification = "user_notification"
	EventApprovalRequest  = "approval_request"
	EventDecisionAnnounce = "decision_announcement"
)

// Event is the wire shape consumed by the notifier worker, which forwards it
// to whatever chat transport fronts the service.
type Event struct {
	Kind          string `json:"kind"`
	Recipient     string `json:"recipient,omitempty"`
	Channel       string `json:"channel,omitempty"`
	Text          string `json:"text"`
	ReservationID string `json:"reservation_id,omitempty"`
}

// Notifier is the delivery sink for user and approval-channel messages.
// Delivery failures are reported to the caller, never retried here.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, text string) error
	NotifyChannel(ctx context.Context, channel, kind, text, reservationID string) error
}

type KafkaNotifier struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (n *KafkaNotifier) NotifyUser(ctx context.Context, userID, text string) error {
	msg := kafka.NewMessage().
		WithKey(userID).
		WithEventType(EventUserNotification).
		WithSource(n.source).
		WithValue(Event{
			Kind:      EventUserNotification,
			Recipient: userID,
			Text:      text,
		}).
		Build()

	return n.producer.Publish(ctx, msg)
}

func (n *KafkaNotifier) NotifyChannel(ctx context.Context, channel, kind, text, reservationID string) error {
	msg := kafka.NewMessage().
		WithKey(channel).
		WithEventType(kind).
		WithSource(n.source).
		WithValue(Event{
			Kind:          kind,
			Channel:       channel,
			Text:          text,
			ReservationID: reservationID,
		}).
		Build()

	return n.producer.Publish(ctx, msg)
}

// Nop discards all notifications. Used when no broker is configured and in
// tests.
type Nop struct{}

func (Nop) NotifyUser(ctx context.Context, userID, text string) error { return nil }

func (Nop) NotifyChannel(ctx context.Context, channel, kind, text, reservationID string) error {
	return nil
}
