package transactions

import (
	"context"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// Transactions is the transaction store. Missing rows are reported as
// domain.ErrTransactionNotFound.
type Transactions interface {
	// Create persists a new record and returns it with its assigned id.
	Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error)
	FindByID(ctx context.Context, id int64) (domain.Transaction, error)
	// FindByIDForUpdate locks the row until the unit of work in ctx ends.
	FindByIDForUpdate(ctx context.Context, id int64) (domain.Transaction, error)
	// ListByWallet orders by created date, newest first, ties by id descending.
	ListByWallet(ctx context.Context, walletID int64) ([]domain.Transaction, error)
	// ListByStatus orders by created date, oldest first.
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)
	// Save persists a status decision.
	Save(ctx context.Context, t domain.Transaction) error
}
