package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcast-repurposer/internal/db"
	"podcast-repurposer/internal/models"
	"podcast-repurposer/internal/test"
)

func generation() db.Generation {
	return db.Generation{
		UserID:    "user-1",
		PodcastID: "pod-1",
		Credits:   1,
		Outputs: []models.ContentOutput{
			{Type: models.TypeTranscript, Content: "Hello world", Metadata: models.Metadata{}},
			{Type: models.TypeBlog, Content: "# Ep 1", Metadata: models.Metadata{}},
			{Type: models.TypeTweet, Content: "Great ep!", Metadata: models.Metadata{"index": 1}},
		},
	}
}

func TestSaveGeneration(t *testing.T) {
	store, mock := test.NewMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_outputs WHERE podcast_id = \$1`).WithArgs("pod-1").WillReturnResult(sqlmock.NewResult(0, 14))
	mock.ExpectExec(`INSERT INTO content_outputs`).WithArgs("pod-1", "transcript", "Hello world", "{}").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO content_outputs`).WithArgs("pod-1", "blog", "# Ep 1", "{}").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO content_outputs`).WithArgs("pod-1", "tweet", "Great ep!", `{"index":1}`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE podcasts SET status = \$1 WHERE id = \$2 AND user_id = \$3`).WithArgs(db.StatusCompleted, "pod-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE profiles SET tokens_remaining = GREATEST\(tokens_remaining - \$1, 0\)`).WithArgs(1, "user-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.SaveGeneration(context.Background(), generation())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGenerationRollsBackOnInsertFailure(t *testing.T) {
	store, mock := test.NewMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_outputs`).WithArgs("pod-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO content_outputs`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := store.SaveGeneration(context.Background(), generation())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transcript")
	// No status update and no debit were attempted.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveGenerationPodcastGone(t *testing.T) {
	store, mock := test.NewMockDB(t)

	g := generation()
	g.Outputs = nil

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM content_outputs`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE podcasts SET status`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.SaveGeneration(context.Background(), g)

	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListContentOutputs(t *testing.T) {
	store, mock := test.NewMockDB(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "podcast_id", "type", "content", "metadata", "created_at"}).
		AddRow("c1", "pod-1", "transcript", "Hello", []byte(`{}`), now).
		AddRow("c2", "pod-1", "tweet", "Great ep!", []byte(`{"index":1}`), now)
	mock.ExpectQuery(`SELECT id, podcast_id, type, content, metadata, created_at FROM content_outputs WHERE podcast_id = \$1`).
		WithArgs("pod-1").WillReturnRows(rows)

	outputs, err := store.ListContentOutputs(context.Background(), "pod-1")

	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, models.TypeTweet, outputs[1].Type)
	assert.Equal(t, float64(1), outputs[1].Metadata["index"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContentOutputOwnerNotFound(t *testing.T) {
	store, mock := test.NewMockDB(t)

	mock.ExpectQuery(`SELECT p.user_id FROM content_outputs co JOIN podcasts p`).
		WithArgs("0b6f6c1e-5d1a-4e55-9a0c-2f3f3c9d7a10").WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := store.GetContentOutputOwner(context.Background(), "0b6f6c1e-5d1a-4e55-9a0c-2f3f3c9d7a10")

	assert.ErrorIs(t, err, db.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMalformedIDsReadAsMissing(t *testing.T) {
	store, mock := test.NewMockDB(t)

	_, err := store.GetContentOutputOwner(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.GetPodcastForOwner(context.Background(), "not-a-uuid", "user-1")
	assert.ErrorIs(t, err, db.ErrNotFound)

	_, err = store.GetUserByRSSUUID(context.Background(), "x")
	assert.ErrorIs(t, err, db.ErrNotFound)

	assert.NoError(t, store.SetNotificationRead(context.Background(), "user-1", "x", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
