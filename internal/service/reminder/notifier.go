package reminder

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogNotifier writes reminders to the structured log. It stands in for
// a real delivery channel (push, e-mail, bot) in local and research
// deployments.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("notifier", "log")}
}

// Notify logs the reminder.
func (n *LogNotifier) Notify(ctx context.Context, learnerID uuid.UUID, dueCount int) error {
	n.log.InfoContext(ctx, "review reminder",
		slog.String("learner_id", learnerID.String()),
		slog.Int("due_count", dueCount),
	)
	return nil
}
