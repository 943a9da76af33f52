package transactions

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *transactionsRepo) ListByWallet(ctx context.Context, walletID int64) ([]domain.Transaction, error) {
	var rows []transactionRow

	err := pgutils.Conn(ctx, r.db).SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_date DESC, id DESC
	`, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions of wallet %d: %w", walletID, err)
	}

	return toRows(rows), nil
}

func (r *transactionsRepo) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	var rows []transactionRow

	err := pgutils.Conn(ctx, r.db).SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE status = $1
		ORDER BY created_date, id
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list %s transactions: %w", status, err)
	}

	return toRows(rows), nil
}
