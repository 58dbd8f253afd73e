package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"cabin-booking/internal/pkg/config"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
)

// KafkaNotifier publishes the pending->paid transition for downstream
// consumers (confirmation mail, housekeeping schedule). Messages are keyed by
// booking id so replays of the same booking land on one partition in order.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaNotifier(cfg config.KafkaConfig, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.PaidTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

func (n *KafkaNotifier) BookingPaid(ctx context.Context, ev commands.BookingPaidEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return errs.Wrap(err, "failed to encode paid event")
	}
	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.BookingID.String()),
		Value: value,
	})
	if err != nil {
		return errs.Wrap(err, "failed to publish paid event")
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NoopNotifier stands in when no brokers are configured; the paid transition
// is still fully recorded in the audit log.
type NoopNotifier struct {
	logger *slog.Logger
}

func NewNoopNotifier(logger *slog.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

func (n *NoopNotifier) BookingPaid(_ context.Context, ev commands.BookingPaidEvent) error {
	n.logger.Info("paid notification skipped (no brokers configured)", "booking_id", ev.BookingID)
	return nil
}
