package wallets

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

var _ wallets.Wallets = (*walletsRepo)(nil)

const walletColumns = `id, customer_id, name, currency, active_for_shopping, active_for_withdraw,
	balance, usable_balance, created_at`

type walletsRepo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *walletsRepo {
	return &walletsRepo{db: db}
}

type walletRow struct {
	ID                int64           `db:"id"`
	CustomerID        int64           `db:"customer_id"`
	Name              string          `db:"name"`
	Currency          string          `db:"currency"`
	ActiveForShopping bool            `db:"active_for_shopping"`
	ActiveForWithdraw bool            `db:"active_for_withdraw"`
	Balance           decimal.Decimal `db:"balance"`
	UsableBalance     decimal.Decimal `db:"usable_balance"`
	CreatedAt         time.Time       `db:"created_at"`
}

func (r walletRow) toDomain() domain.Wallet {
	return domain.Wallet{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		Name:              r.Name,
		Currency:          domain.Currency(r.Currency),
		ActiveForShopping: r.ActiveForShopping,
		ActiveForWithdraw: r.ActiveForWithdraw,
		Balance:           r.Balance,
		UsableBalance:     r.UsableBalance,
		CreatedAt:         r.CreatedAt,
	}
}
