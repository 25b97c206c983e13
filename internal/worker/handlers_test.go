package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-repurposer/internal/test"
	"podcast-repurposer/pkg/tasks"
)

type mockSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg)
	}
	return tgbotapi.Message{}, m.err
}

var userRowColumns = []string{"id", "email", "full_name", "phone", "plan", "tokens_remaining", "telegram_id", "rss_uuid", "created_at", "updated_at"}

func notificationTask(t *testing.T) *asynq.Task {
	t.Helper()
	task, err := tasks.NewCreateNotificationTask("user-1", "Processing complete", "Your podcast content is ready to view.")
	require.NoError(t, err)
	return task
}

func TestHandleCreateNotificationTask(t *testing.T) {
	t.Run("inserts row and pushes to telegram", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		sender := &mockSender{}
		handler := NewTaskHandler(store, sender, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).
			WithArgs("user-1", "Processing complete", "Your podcast content is ready to view.").
			WillReturnResult(sqlmock.NewResult(1, 1))
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM profiles WHERE id = \$1`).WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("user-1", nil, "Test User", nil, "trial", 2, int64(555), "rss-1", now, now))

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Equal(t, int64(555), sender.sent[0].ChatID)
		assert.Equal(t, "Processing complete\n\nYour podcast content is ready to view.", sender.sent[0].Text)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("user without telegram gets no push", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		sender := &mockSender{}
		handler := NewTaskHandler(store, sender, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM profiles WHERE id = \$1`).WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("user-1", "a@example.com", nil, nil, "trial", 2, nil, "rss-1", now, now))

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		require.NoError(t, err)
		assert.Empty(t, sender.sent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no sender configured", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		handler := NewTaskHandler(store, nil, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("push failure does not fail the task", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		sender := &mockSender{err: errors.New("chat not found")}
		handler := NewTaskHandler(store, sender, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).WillReturnResult(sqlmock.NewResult(1, 1))
		now := time.Now()
		mock.ExpectQuery(`SELECT .* FROM profiles WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("user-1", nil, nil, nil, "trial", 2, int64(555), "rss-1", now, now))

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		assert.NoError(t, err)
	})

	t.Run("insert failure is retried", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		handler := NewTaskHandler(store, &mockSender{}, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).WillReturnError(errors.New("db down"))

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("unknown user is not retried", func(t *testing.T) {
		store, mock := test.NewMockDB(t)
		handler := NewTaskHandler(store, &mockSender{}, zerolog.Nop())

		mock.ExpectExec(`INSERT INTO notifications`).
			WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

		err := handler.HandleCreateNotificationTask(context.Background(), notificationTask(t))

		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad payload is not retried", func(t *testing.T) {
		store, _ := test.NewMockDB(t)
		handler := NewTaskHandler(store, nil, zerolog.Nop())

		err := handler.HandleCreateNotificationTask(context.Background(), asynq.NewTask(tasks.TypeCreateNotification, []byte("{")))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("payload without user is not retried", func(t *testing.T) {
		store, _ := test.NewMockDB(t)
		handler := NewTaskHandler(store, nil, zerolog.Nop())
		payload, _ := json.Marshal(tasks.CreateNotificationTaskPayload{Title: "t"})

		err := handler.HandleCreateNotificationTask(context.Background(), asynq.NewTask(tasks.TypeCreateNotification, payload))

		assert.ErrorIs(t, err, asynq.SkipRetry)
	})
}
