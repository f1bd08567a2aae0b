// Package console provides a development notifier that writes messages to the
// structured log instead of delivering them.
package console

import (
	"context"
	"log/slog"
)

type Notifier struct {
	logger *slog.Logger
}

func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{logger: logger}
}

func (n *Notifier) Send(ctx context.Context, to, subject, body string) error {
	n.logger.InfoContext(ctx, "notification", "to", to, "subject", subject, "body", body)
	return nil
}
