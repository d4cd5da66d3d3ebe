// Package notify publishes post-commit domain events. Dispatch is
// fire-and-forget: a failed publish is logged and never fails the operation
// that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fitting-scheduler/internal/pkg/config"
	"fitting-scheduler/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	KindBookingCreated        = "booking.created"
	KindApprovalRequested     = "booking.approval_requested"
	KindScheduleStatusChanged = "schedule.status_changed"
	KindScheduleRescheduled   = "schedule.rescheduled"
)

type Event struct {
	Kind       string         `json:"kind"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// NewDispatcher picks the AMQP publisher when a broker URL is configured and
// falls back to log-only delivery otherwise.
func NewDispatcher(cfg config.NotifierConfig) (Dispatcher, func(), error) {
	if cfg.AMQPURL == "" {
		return NewLogDispatcher(), func() {}, nil
	}
	return NewAMQPDispatcher(cfg)
}

type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(_ context.Context, event Event) {
	slog.Info("notification event",
		"kind", event.Kind,
		"occurred_at", event.OccurredAt,
		"payload", event.Payload)
}

type AMQPDispatcher struct {
	channel  *amqp.Channel
	exchange string
	timeout  time.Duration
}

func NewAMQPDispatcher(cfg config.NotifierConfig) (*AMQPDispatcher, func(), error) {
	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to connect to AMQP broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open AMQP channel")
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare exchange")
	}

	cleanup := func() {
		if err := ch.Close(); err != nil {
			slog.Warn("failed to close AMQP channel", "error", err.Error())
		}
		if err := conn.Close(); err != nil {
			slog.Warn("failed to close AMQP connection", "error", err.Error())
		}
	}

	return &AMQPDispatcher{
		channel:  ch,
		exchange: cfg.Exchange,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, cleanup, nil
}

// Dispatch publishes the event with its kind as routing key. The parent
// context may already be cancelled by the time a post-commit event fires, so
// publishing runs under its own timeout.
func (d *AMQPDispatcher) Dispatch(_ context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal notification event", "kind", event.Kind, "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err = d.channel.PublishWithContext(ctx, d.exchange, event.Kind, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		slog.Error("failed to publish notification event", "kind", event.Kind, "error", err.Error())
	}
}
