package dispatch

import (
	"context"

	"go.uber.org/zap"

	"github.com/shipsync/backend/internal/application/notify"
	"github.com/shipsync/backend/internal/domain/notification"
)

// LogDispatcher writes notifications to the application log instead of
// an external provider. It is the default transport until a real email
// or SMS gateway is wired in; every message is visible in the log
// stream and the ledger still records the attempt.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a new LogDispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

var _ notify.MessageDispatcher = (*LogDispatcher)(nil)

// Dispatch implements notify.MessageDispatcher
func (d *LogDispatcher) Dispatch(ctx context.Context, n *notification.Notification) error {
	d.logger.Info("Dispatching notification",
		zap.String("type", n.Type.String()),
		zap.String("channel", string(n.Channel)),
		zap.String("recipient", n.Recipient),
		zap.String("subject", n.Subject),
	)
	return nil
}
