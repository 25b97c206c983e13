package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"podcast-repurposer/pkg/tasks"
)

const maxRetry = 5

type notificationWriter interface {
	CreateNotification(ctx context.Context, userID, title, message string) error
}

// DirectNotifier writes the notification row in the request path.
type DirectNotifier struct {
	store notificationWriter
}

func NewDirectNotifier(store notificationWriter) *DirectNotifier {
	return &DirectNotifier{store: store}
}

func (n *DirectNotifier) Notify(ctx context.Context, userID, title, message string) error {
	if err := n.store.CreateNotification(ctx, userID, title, message); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// QueueNotifier hands the notification to the worker through asynq.
type QueueNotifier struct {
	client tasks.TaskEnqueuer
	log    zerolog.Logger
}

func NewQueueNotifier(client tasks.TaskEnqueuer, log zerolog.Logger) *QueueNotifier {
	return &QueueNotifier{client: client, log: log.With().Str("component", "notify").Logger()}
}

func (n *QueueNotifier) Notify(ctx context.Context, userID, title, message string) error {
	task, err := tasks.NewCreateNotificationTask(userID, title, message)
	if err != nil {
		return fmt.Errorf("failed to create notification task: %w", err)
	}

	info, err := n.client.EnqueueContext(ctx, task, asynq.MaxRetry(maxRetry))
	if err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}

	n.log.Debug().Str("task_id", info.ID).Str("user_id", userID).Msg("Enqueued notification")
	return nil
}
