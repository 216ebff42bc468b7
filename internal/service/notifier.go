package service

import (
	"context"
	"log/slog"

	"github.com/festo/gala/api/internal/model"
)

// LogNotifier is the default Notifier. It records standing changes to the
// structured log; deployments wire a push or email notifier in its place.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs standing changes
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// StandingChanged logs a standing transition
func (n *LogNotifier) StandingChanged(ctx context.Context, userID string, from, to model.SafetyStatus) {
	n.logger.InfoContext(ctx, "standing changed",
		"user_id", userID,
		"from", string(from),
		"to", string(to),
	)
}
