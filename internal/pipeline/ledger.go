package pipeline

import (
	"context"
	"errors"
	"fmt"

	"podcast-repurposer/internal/db"
)

// CreditsPerRun is debited from the caller once a generation is persisted.
const CreditsPerRun = 1

type balanceReader interface {
	GetTokenBalance(ctx context.Context, userID string) (int, error)
}

// Ledger gates runs on the caller's remaining credits. The check is a plain
// read: two concurrent requests may both pass it.
type Ledger struct {
	store balanceReader
}

func NewLedger(store balanceReader) *Ledger {
	return &Ledger{store: store}
}

// Balance returns the caller's credits. A missing profile has none.
func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	n, err := l.store.GetTokenBalance(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return n, nil
}

// Check returns ErrInsufficientBalance when the caller cannot pay for a run.
func (l *Ledger) Check(ctx context.Context, userID string) error {
	n, err := l.Balance(ctx, userID)
	if err != nil {
		return err
	}
	if n < CreditsPerRun {
		return ErrInsufficientBalance
	}
	return nil
}
