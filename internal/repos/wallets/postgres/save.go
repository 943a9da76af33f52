package wallets

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

// Save writes the mutable fields. Currency and owner are never updated.
func (r *walletsRepo) Save(ctx context.Context, w domain.Wallet) error {
	res, err := pgutils.Conn(ctx, r.db).ExecContext(ctx, `
		UPDATE wallets
		SET name = $2,
			active_for_shopping = $3,
			active_for_withdraw = $4,
			balance = $5,
			usable_balance = $6
		WHERE id = $1
	`, w.ID, w.Name, w.ActiveForShopping, w.ActiveForWithdraw, w.Balance, w.UsableBalance)
	if err != nil {
		if pgutils.IsNumericOverflow(err) {
			return fmt.Errorf("%w: wallet %d balance out of range", domain.ErrInvalidArgument, w.ID)
		}

		if pgutils.IsCheckViolation(err) {
			return fmt.Errorf("%w: save wallet %d: %v", domain.ErrInternal, w.ID, err)
		}

		return fmt.Errorf("save wallet %d: %w", w.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save wallet %d rows affected: %w", w.ID, err)
	}

	if n == 0 {
		return domain.ErrWalletNotFound
	}

	return nil
}
