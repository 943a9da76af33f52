package wallets

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// Filter narrows List. Zero values mean "any".
type Filter struct {
	CustomerID int64
	Currency   domain.Currency
	MinBalance *decimal.Decimal
}

// Wallets is the wallet store. Get and List do not lock; GetForUpdate takes
// an exclusive row lock held until the unit of work in ctx ends.
// Missing wallets are reported as domain.ErrWalletNotFound.
type Wallets interface {
	Get(ctx context.Context, walletID int64) (domain.Wallet, error)
	GetForUpdate(ctx context.Context, walletID int64) (domain.Wallet, error)
	Save(ctx context.Context, w domain.Wallet) error
	Create(ctx context.Context, w domain.Wallet) (domain.Wallet, error)
	List(ctx context.Context, f Filter) ([]domain.Wallet, error)
}
