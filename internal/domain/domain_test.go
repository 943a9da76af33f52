package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{name: "one_cent", amount: "0.01"},
		{name: "two_decimals", amount: "999.99"},
		{name: "integer", amount: "1000"},
		{name: "trailing_zeros", amount: "12.500"},
		{name: "zero", amount: "0", wantErr: true},
		{name: "negative", amount: "-5.00", wantErr: true},
		{name: "three_decimals", amount: "1.234", wantErr: true},
		{name: "largest_storable", amount: "99999999999999999.99"},
		{name: "eighteen_integer_digits", amount: "100000000000000000", wantErr: true},
		{name: "huge", amount: "1e40", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("GBP")
	require.ErrorIs(t, err, ErrInvalidArgument)

	p, err := ParseOppositePartyType("iban")
	require.NoError(t, err)
	assert.Equal(t, PartyIBAN, p)

	_, err = ParseOppositePartyType("CARD")
	require.ErrorIs(t, err, ErrInvalidArgument)

	s, err := ParseTransactionStatus("Denied")
	require.NoError(t, err)
	assert.Equal(t, StatusDenied, s)
	assert.True(t, s.Terminal())
	assert.False(t, StatusPending.Terminal())

	r, err := ParseRole("employee")
	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, r)

	_, err = ParseRole("admin")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCaller_CanAccess(t *testing.T) {
	t.Parallel()

	w := Wallet{ID: 1, CustomerID: 7}

	assert.True(t, Caller{CustomerID: 7, Role: RoleCustomer}.CanAccess(w))
	assert.False(t, Caller{CustomerID: 8, Role: RoleCustomer}.CanAccess(w))
	assert.True(t, Caller{CustomerID: 99, Role: RoleEmployee}.CanAccess(w))
}

func TestNotFoundKinds(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrWalletNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrTransactionNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrCustomerNotFound, ErrNotFound)
}

func TestWallet_CheckBalances(t *testing.T) {
	t.Parallel()

	d := decimal.RequireFromString

	require.NoError(t, Wallet{Balance: d("10"), UsableBalance: d("10")}.CheckBalances())
	require.NoError(t, Wallet{Balance: d("10"), UsableBalance: d("0")}.CheckBalances())
	require.Error(t, Wallet{Balance: d("10"), UsableBalance: d("10.01")}.CheckBalances())
	require.Error(t, Wallet{Balance: d("-1"), UsableBalance: d("-2")}.CheckBalances())
	require.Error(t, Wallet{Balance: d("1"), UsableBalance: d("-0.01")}.CheckBalances())
}
