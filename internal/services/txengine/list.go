package txengine

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// ListTransactions returns a wallet's transactions, newest first.
func (e *Engine) ListTransactions(ctx context.Context, caller domain.Caller, walletID int64) ([]domain.Transaction, error) {
	var out []domain.Transaction

	err := e.uow.Do(ctx, func(ctx context.Context) error {
		w, err := e.wallets.Get(ctx, walletID)
		if err != nil {
			return fmt.Errorf("get wallet %d: %w", walletID, err)
		}

		if !caller.CanAccess(w) {
			e.deny(ctx, caller, walletResource(w.ID), "LIST_TRANSACTIONS")
			return fmt.Errorf("%w: wallet %d belongs to another customer", domain.ErrUnauthorized, w.ID)
		}

		out, err = e.txns.ListByWallet(ctx, walletID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return out, nil
}

// ListPendingTransactions is the employee approval queue, oldest first.
func (e *Engine) ListPendingTransactions(ctx context.Context, caller domain.Caller) ([]domain.Transaction, error) {
	if !caller.IsEmployee() {
		e.deny(ctx, caller, "transactions:pending", "LIST_PENDING")
		return nil, fmt.Errorf("list pending: %w: employees only", domain.ErrUnauthorized)
	}

	out, err := e.txns.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return out, nil
}
