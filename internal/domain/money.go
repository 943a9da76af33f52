package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of fractional digits stored for amounts and balances.
	MoneyScale = 2
	// MoneyIntDigits is the number of integer digits a stored amount can hold.
	MoneyIntDigits = 17
)

// MaxAmount is the smallest amount that no longer fits the money columns.
var MaxAmount = decimal.New(1, MoneyIntDigits)

// ValidateAmount accepts strictly positive amounts below MaxAmount with at
// most two fractional digits.
func ValidateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidArgument)
	}

	if a.GreaterThanOrEqual(MaxAmount) {
		return fmt.Errorf("%w: amount must be below %s", ErrInvalidArgument, MaxAmount)
	}

	if !a.Equal(a.Round(MoneyScale)) {
		return fmt.Errorf("%w: amount supports up to %d decimals", ErrInvalidArgument, MoneyScale)
	}

	return nil
}
