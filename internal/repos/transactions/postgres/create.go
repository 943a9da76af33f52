package transactions

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *transactionsRepo) Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	var row transactionRow

	err := pgutils.Conn(ctx, r.db).GetContext(ctx, &row, `
		INSERT INTO transactions (wallet_id, amount, type, opposite_party_type, opposite_party,
			status, created_date, processed_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		t.WalletID, t.Amount, string(t.Type), string(t.OppositePartyType), t.OppositeParty,
		string(t.Status), t.CreatedDate, nullTime(t.ProcessedDate))
	if err != nil {
		if pgutils.IsForeignKeyViolation(err) {
			return domain.Transaction{}, domain.ErrWalletNotFound
		}

		if pgutils.IsNumericOverflow(err) {
			return domain.Transaction{}, fmt.Errorf("%w: amount out of range", domain.ErrInvalidArgument)
		}

		if pgutils.IsCheckViolation(err) {
			return domain.Transaction{}, fmt.Errorf("%w: insert transaction: %v", domain.ErrInternal, err)
		}

		return domain.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return row.toDomain(), nil
}
