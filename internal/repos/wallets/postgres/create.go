package wallets

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *walletsRepo) Create(ctx context.Context, w domain.Wallet) (domain.Wallet, error) {
	var row walletRow

	err := pgutils.Conn(ctx, r.db).GetContext(ctx, &row, `
		INSERT INTO wallets (customer_id, name, currency, active_for_shopping, active_for_withdraw,
			balance, usable_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+walletColumns,
		w.CustomerID, w.Name, string(w.Currency), w.ActiveForShopping, w.ActiveForWithdraw,
		w.Balance, w.UsableBalance)
	if err != nil {
		if pgutils.IsForeignKeyViolation(err) {
			return domain.Wallet{}, domain.ErrCustomerNotFound
		}

		return domain.Wallet{}, fmt.Errorf("insert wallet: %w", err)
	}

	return row.toDomain(), nil
}
