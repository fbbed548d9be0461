package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"unipool/internal/types"
)

// KafkaNotifier publishes events to a single topic keyed by recipient, so a
// consumer sees one user's notifications in order.
type KafkaNotifier struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewKafkaNotifier(brokers []string, topic string, log *slog.Logger) *KafkaNotifier {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaNotifier{writer: w, log: log}
}

type envelope struct {
	UserID  types.ID       `json:"user_id"`
	Kind    EventKind      `json:"kind"`
	Payload map[string]any `json:"payload,omitempty"`
	SentAt  time.Time      `json:"sent_at"`
}

func (n *KafkaNotifier) Notify(ctx context.Context, userID types.ID, kind EventKind, payload map[string]any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	b, err := json.Marshal(envelope{UserID: userID, Kind: kind, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		n.log.Error("notify marshal failed", "kind", kind, "error", err)
		return
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(userID), Value: b}); err != nil {
		n.log.Error("notify publish failed", "kind", kind, "user_id", userID, "error", err)
	}
}

func (n *KafkaNotifier) Close() error {
	if n.writer == nil {
		return nil
	}
	return n.writer.Close()
}
