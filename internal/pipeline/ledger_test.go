package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"podcast-repurposer/internal/pipeline"
)

type balanceFunc func(ctx context.Context, userID string) (int, error)

func (f balanceFunc) GetTokenBalance(ctx context.Context, userID string) (int, error) {
	return f(ctx, userID)
}

func TestLedgerCheck(t *testing.T) {
	boom := errors.New("db down")
	tests := []struct {
		name    string
		balance int
		err     error
		want    error
	}{
		{"enough", 1, nil, nil},
		{"plenty", 50, nil, nil},
		{"empty", 0, nil, pipeline.ErrInsufficientBalance},
		{"read error", 0, boom, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := pipeline.NewLedger(balanceFunc(func(ctx context.Context, userID string) (int, error) {
				return tt.balance, tt.err
			}))

			err := l.Check(context.Background(), "user-1")

			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHTTPStatusAndMessage(t *testing.T) {
	assert.Equal(t, 200, pipeline.HTTPStatus(nil))
	assert.Equal(t, 403, pipeline.HTTPStatus(pipeline.ErrForbidden))
	assert.Equal(t, 500, pipeline.HTTPStatus(errors.New("anything")))
	assert.Equal(t, "Internal server error", pipeline.PublicMessage(pipeline.ErrPersistence))
	assert.Equal(t, "podcastId is required", pipeline.PublicMessage(pipeline.ErrMissingPodcastID))
}
