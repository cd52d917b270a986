package notify

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher delivers lifecycle notices to church administrators. The
// billing engine only depends on this interface; transports (email, SMS,
// in-app) plug in behind it.
type Dispatcher interface {
	SendDeletionWarning(ctx context.Context, churchID string, retentionEndDate time.Time) error
	SendSuspensionNotice(ctx context.Context, churchID string, retentionEndDate time.Time) error
	SendPaymentFailedNotice(ctx context.Context, churchID string, attempt int, reason string) error
}

type logDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that records notices in the
// structured log. Outbound delivery is handled by a downstream consumer
// of the log stream.
func NewLogDispatcher(logger *slog.Logger) Dispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) SendDeletionWarning(ctx context.Context, churchID string, retentionEndDate time.Time) error {
	d.logger.InfoContext(ctx, "deletion warning issued",
		slog.String("church_id", churchID),
		slog.Time("retention_end_date", retentionEndDate),
	)
	return nil
}

func (d *logDispatcher) SendSuspensionNotice(ctx context.Context, churchID string, retentionEndDate time.Time) error {
	d.logger.InfoContext(ctx, "suspension notice issued",
		slog.String("church_id", churchID),
		slog.Time("retention_end_date", retentionEndDate),
	)
	return nil
}

func (d *logDispatcher) SendPaymentFailedNotice(ctx context.Context, churchID string, attempt int, reason string) error {
	d.logger.InfoContext(ctx, "payment failed notice issued",
		slog.String("church_id", churchID),
		slog.Int("attempt", attempt),
		slog.String("reason", reason),
	)
	return nil
}
