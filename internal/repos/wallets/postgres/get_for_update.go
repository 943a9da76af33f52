package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *walletsRepo) GetForUpdate(ctx context.Context, walletID int64) (domain.Wallet, error) {
	tx, err := pgutils.MustTx(ctx)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("lock wallet %d: %w", walletID, err)
	}

	var row walletRow

	err = tx.GetContext(ctx, &row, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1
		FOR UPDATE
	`, walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	if err != nil {
		return domain.Wallet{}, fmt.Errorf("lock wallet %d: %w", walletID, err)
	}

	return row.toDomain(), nil
}
