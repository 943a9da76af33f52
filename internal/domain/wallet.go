package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyTRY Currency = "TRY"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(strings.ToUpper(strings.TrimSpace(s))); c {
	case CurrencyTRY, CurrencyUSD, CurrencyEUR:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unsupported currency %q", ErrInvalidArgument, s)
	}
}

// Wallet holds two balances: Balance is everything held, including funds
// reserved by pending withdrawals and credited by pending deposits;
// UsableBalance is what the next withdrawal is checked against.
type Wallet struct {
	ID                int64
	CustomerID        int64
	Name              string
	Currency          Currency
	ActiveForShopping bool
	ActiveForWithdraw bool
	Balance           decimal.Decimal
	UsableBalance     decimal.Decimal
	CreatedAt         time.Time
}

// CheckBalances verifies 0 <= usable <= balance.
func (w Wallet) CheckBalances() error {
	switch {
	case w.Balance.IsNegative():
		return fmt.Errorf("wallet %d: negative balance %s", w.ID, w.Balance)
	case w.UsableBalance.IsNegative():
		return fmt.Errorf("wallet %d: negative usable balance %s", w.ID, w.UsableBalance)
	case w.UsableBalance.GreaterThan(w.Balance):
		return fmt.Errorf("wallet %d: usable balance %s exceeds balance %s", w.ID, w.UsableBalance, w.Balance)
	}

	return nil
}
