package wallets

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

func (r *walletsRepo) List(ctx context.Context, f wallets.Filter) ([]domain.Wallet, error) {
	var (
		conds []string
		args  []any
	)

	if f.CustomerID != 0 {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}

	if f.Currency != "" {
		args = append(args, string(f.Currency))
		conds = append(conds, fmt.Sprintf("currency = $%d", len(args)))
	}

	if f.MinBalance != nil {
		args = append(args, *f.MinBalance)
		conds = append(conds, fmt.Sprintf("balance >= $%d", len(args)))
	}

	query := `SELECT ` + walletColumns + ` FROM wallets`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	query += ` ORDER BY id`

	var rows []walletRow

	err := pgutils.Conn(ctx, r.db).SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	out := make([]domain.Wallet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
