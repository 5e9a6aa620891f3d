package matchmaking

import (
	"context"
	"log/slog"
)

// Notifier delivers a "you matched" signal to a user. Delivery is
// best-effort: the service logs and discards failures, and a failed
// delivery never rolls back the match.
type Notifier interface {
	NotifyMatch(ctx context.Context, userID, mateID uint64) error
}

// LogNotifier is the default Notifier: it only records the event. The chat
// front end substitutes its own implementation to actually reach users.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) NotifyMatch(_ context.Context, userID, mateID uint64) error {
	n.Logger.Info("match notification", "user", userID, "mate", mateID)
	return nil
}
