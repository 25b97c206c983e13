package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/models"
	"podcast-repurposer/pkg/tasks"
)

// Store is the datastore surface the worker needs.
type Store interface {
	CreateNotification(ctx context.Context, userID, title, message string) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// MessageSender is implemented by *tgbotapi.BotAPI.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

var _ MessageSender = (*tgbotapi.BotAPI)(nil)

type TaskHandler struct {
	store  Store
	sender MessageSender
	log    zerolog.Logger
}

// NewTaskHandler builds the handler. A nil sender disables Telegram pushes.
func NewTaskHandler(store Store, sender MessageSender, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{store: store, sender: sender, log: log.With().Str("component", "worker").Logger()}
}

func (h *TaskHandler) HandleCreateNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.CreateNotificationTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.UserID == "" {
		return fmt.Errorf("notification task has no user: %w", asynq.SkipRetry)
	}

	if err := h.store.CreateNotification(ctx, p.UserID, p.Title, p.Message); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("notification for unknown user %s: %w", p.UserID, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}
	h.log.Info().Str("user_id", p.UserID).Msg("Created notification")

	// The row is in; a failed push must not cause a retry that duplicates it.
	h.pushTelegram(ctx, p)
	return nil
}

func (h *TaskHandler) pushTelegram(ctx context.Context, p tasks.CreateNotificationTaskPayload) {
	if h.sender == nil {
		return
	}

	user, err := h.store.GetUserByID(ctx, p.UserID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			h.log.Error().Err(err).Str("user_id", p.UserID).Msg("Error loading user for telegram push")
		}
		return
	}
	if user.TelegramID == nil {
		return
	}

	msg := tgbotapi.NewMessage(*user.TelegramID, p.Title+"\n\n"+p.Message)
	if _, err := h.sender.Send(msg); err != nil {
		h.log.Error().Err(err).Str("user_id", p.UserID).Msg("Error sending telegram message")
	}
}
