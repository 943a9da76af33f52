package transactions

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

// Save only touches status and processed_date; the rest of a transaction is immutable.
func (r *transactionsRepo) Save(ctx context.Context, t domain.Transaction) error {
	res, err := pgutils.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE transactions
		SET status = $2,
			processed_date = $3
		WHERE id = $1
	`, t.ID, string(t.Status), nullTime(t.ProcessedDate))
	if err != nil {
		if pgutils.IsCheckViolation(err) {
			return fmt.Errorf("%w: save transaction %d: %v", domain.ErrInternal, t.ID, err)
		}

		return fmt.Errorf("save transaction %d: %w", t.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save transaction %d rows affected: %w", t.ID, err)
	}

	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}
