package messaging

import (
	"context"

	"posimarket/domain/notification"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

// LoggingDispatcher writes notifications to the log; used when no broker is configured
type LoggingDispatcher struct{}

func (LoggingDispatcher) Notify(ctx context.Context, n notification.Notification) error {
	logger.WithContext(ctx).Info("Notification dispatched",
		zap.String("user_id", n.UserID),
		zap.String("kind", n.Kind),
		zap.String("title", n.Title),
		zap.String("link", n.Link),
	)
	return nil
}

var _ notification.Dispatcher = LoggingDispatcher{}
