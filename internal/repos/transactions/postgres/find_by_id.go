package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *transactionsRepo) FindByID(ctx context.Context, id int64) (domain.Transaction, error) {
	var row transactionRow

	err := pgutils.Conn(ctx, r.db).GetContext(ctx, &row, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	if err != nil {
		return domain.Transaction{}, fmt.Errorf("find transaction %d: %w", id, err)
	}

	return row.toDomain(), nil
}

func (r *transactionsRepo) FindByIDForUpdate(ctx context.Context, id int64) (domain.Transaction, error) {
	tx, err := pgutils.MustTx(ctx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("lock transaction %d: %w", id, err)
	}

	var row transactionRow

	err = tx.GetContext(ctx, &row, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	if err != nil {
		return domain.Transaction{}, fmt.Errorf("lock transaction %d: %w", id, err)
	}

	return row.toDomain(), nil
}
