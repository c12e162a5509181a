package notifier

import (
	"log/slog"

	"github.com/amishk599/jobintake/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly saved job records to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each record via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each record with its id, tenant, client, category and, when
// known, the resolved schedule. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(records []model.SavedRecord) error {
	for _, r := range records {
		args := []any{
			"id", r.ID,
			"tenant", r.TenantID,
			"client", r.Record.ClientName,
			"category", r.Record.Category,
			"source", r.Source,
		}
		if r.Record.Price > 0 {
			args = append(args, "price", r.Record.Price)
		}
		if r.Record.Schedule != nil {
			args = append(args, "schedule", r.Record.Schedule.Display)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
