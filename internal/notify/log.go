package notify

import (
	"context"
	"log/slog"

	"unipool/internal/types"
)

// LogNotifier is the fallback when no Kafka brokers are configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, userID types.ID, kind EventKind, payload map[string]any) {
	n.log.Info("notify", "user_id", userID, "kind", kind, "payload", payload)
}
