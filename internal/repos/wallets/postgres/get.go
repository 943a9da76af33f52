package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
)

func (r *walletsRepo) Get(ctx context.Context, walletID int64) (domain.Wallet, error) {
	var row walletRow

	err := pgutils.Conn(ctx, r.db).GetContext(ctx, &row, `
		SELECT `+walletColumns+`
		FROM wallets
		WHERE id = $1
	`, walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	if err != nil {
		return domain.Wallet{}, fmt.Errorf("get wallet %d: %w", walletID, err)
	}

	return row.toDomain(), nil
}
