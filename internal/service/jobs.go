package service

import (
	"context"

	"avyyan/internal/worker"
)

// JobDispatcher is implemented by *worker.Dispatcher.
type JobDispatcher interface {
	EnqueueNotificationEmail(ctx context.Context, p worker.NotificationEmailPayload) error
	EnqueueAllotmentSheet(ctx context.Context, p worker.AllotmentSheetPayload) error
}
