package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

func newStore(t *testing.T) (*Store, domain.Wallet) {
	t.Helper()

	s := New()
	s.PutCustomer(domain.Customer{ID: 1, Username: "ayse", Role: domain.RoleCustomer})
	w := s.PutWallet(domain.Wallet{
		CustomerID:        1,
		Currency:          domain.CurrencyTRY,
		ActiveForWithdraw: true,
		Balance:           decimal.NewFromInt(100),
		UsableBalance:     decimal.NewFromInt(100),
	})

	return s, w
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	err := s.Do(t.Context(), func(ctx context.Context) error {
		locked, err := s.Wallets().GetForUpdate(ctx, w.ID)
		if err != nil {
			return err
		}

		locked.Balance = locked.Balance.Add(decimal.NewFromInt(50))
		locked.UsableBalance = locked.UsableBalance.Add(decimal.NewFromInt(50))

		err = s.Wallets().Save(ctx, locked)
		if err != nil {
			return err
		}

		// Outside the session the staged write is not visible yet.
		committed, err := s.Wallets().Get(context.Background(), w.ID)
		require.NoError(t, err)
		assert.True(t, committed.Balance.Equal(decimal.NewFromInt(100)))

		return nil
	})
	require.NoError(t, err)

	got, err := s.Wallets().Get(t.Context(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(150)))
}

func TestDo_RollsBackOnError(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)
	boom := errors.New("boom")

	var createdID int64

	err := s.Do(t.Context(), func(ctx context.Context) error {
		locked, err := s.Wallets().GetForUpdate(ctx, w.ID)
		if err != nil {
			return err
		}

		locked.Balance = decimal.NewFromInt(1)
		locked.UsableBalance = decimal.NewFromInt(1)

		err = s.Wallets().Save(ctx, locked)
		if err != nil {
			return err
		}

		created, err := s.Transactions().Create(ctx, domain.Transaction{
			WalletID: w.ID, Amount: decimal.NewFromInt(99), Type: domain.TxWithdraw,
			Status: domain.StatusApproved, ProcessedDate: ptr(time.Now()),
		})
		if err != nil {
			return err
		}

		createdID = created.ID

		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Wallets().Get(t.Context(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	_, err = s.Transactions().FindByID(t.Context(), createdID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestDo_CancelledContextRollsBack(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	ctx, cancel := context.WithCancel(t.Context())

	err := s.Do(ctx, func(ctx context.Context) error {
		locked, err := s.Wallets().GetForUpdate(ctx, w.ID)
		if err != nil {
			return err
		}

		locked.Balance = decimal.NewFromInt(500)
		locked.UsableBalance = decimal.NewFromInt(500)
		cancel()

		return s.Wallets().Save(ctx, locked)
	})
	require.ErrorIs(t, err, context.Canceled)

	got, err := s.Wallets().Get(t.Context(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))
}

func TestGetForUpdate_Serializes(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	const workers = 20

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := s.Do(context.Background(), func(ctx context.Context) error {
				locked, err := s.Wallets().GetForUpdate(ctx, w.ID)
				if err != nil {
					return err
				}

				time.Sleep(time.Millisecond)

				locked.Balance = locked.Balance.Add(decimal.NewFromInt(1))
				locked.UsableBalance = locked.UsableBalance.Add(decimal.NewFromInt(1))

				return s.Wallets().Save(ctx, locked)
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	got, err := s.Wallets().Get(t.Context(), w.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100+workers)), got.Balance.String())
}

func TestGetForUpdate_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Do(context.Background(), func(ctx context.Context) error {
			_, err := s.Wallets().GetForUpdate(ctx, w.ID)
			close(locked)
			<-release

			return err
		})
	}()

	<-locked

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err := s.Do(ctx, func(ctx context.Context) error {
		_, err := s.Wallets().GetForUpdate(ctx, w.ID)
		return err
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-done)

	// The lock is free again.
	err = s.Do(t.Context(), func(ctx context.Context) error {
		_, err := s.Wallets().GetForUpdate(ctx, w.ID)
		return err
	})
	require.NoError(t, err)
}

func TestGetForUpdate_RequiresUnitOfWork(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	_, err := s.Wallets().GetForUpdate(t.Context(), w.ID)
	require.ErrorIs(t, err, ErrNoUnitOfWork)

	_, err = s.Transactions().FindByIDForUpdate(t.Context(), 1)
	require.ErrorIs(t, err, ErrNoUnitOfWork)

	err = s.Do(t.Context(), func(ctx context.Context) error {
		_, err := s.Wallets().GetForUpdate(ctx, 999)
		return err
	})
	require.ErrorIs(t, err, domain.ErrWalletNotFound)
}

func TestNestedDoJoins(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	err := s.Do(t.Context(), func(ctx context.Context) error {
		_, err := s.Wallets().GetForUpdate(ctx, w.ID)
		if err != nil {
			return err
		}

		// Re-entrant: the inner unit of work must not deadlock on the held lock.
		return s.Do(ctx, func(ctx context.Context) error {
			_, err := s.Wallets().GetForUpdate(ctx, w.ID)
			return err
		})
	})
	require.NoError(t, err)
}

func TestListByWalletOrdering(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []int64

	for _, created := range []time.Time{base, base.Add(time.Hour), base.Add(time.Hour)} {
		tx, err := s.Transactions().Create(t.Context(), domain.Transaction{
			WalletID: w.ID, Amount: decimal.NewFromInt(1000), Type: domain.TxDeposit,
			Status: domain.StatusPending, CreatedDate: created,
		})
		require.NoError(t, err)

		ids = append(ids, tx.ID)
	}

	got, err := s.Transactions().ListByWallet(t.Context(), w.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{got[0].ID, got[1].ID, got[2].ID})

	pending, err := s.Transactions().ListByStatus(t.Context(), domain.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, ids[0], pending[0].ID)
}

func TestConstraintChecks(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)

	w.UsableBalance = w.Balance.Add(decimal.NewFromInt(1))
	require.ErrorIs(t, s.Wallets().Save(t.Context(), w), domain.ErrInternal)

	_, err := s.Transactions().Create(t.Context(), domain.Transaction{
		WalletID: w.ID, Amount: decimal.Zero, Status: domain.StatusPending,
	})
	require.ErrorIs(t, err, domain.ErrInternal)

	_, err = s.Transactions().Create(t.Context(), domain.Transaction{
		WalletID: 404, Amount: decimal.NewFromInt(1), Status: domain.StatusPending,
	})
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	_, err = s.Wallets().Create(t.Context(), domain.Wallet{CustomerID: 42})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestWalletListFilter(t *testing.T) {
	t.Parallel()

	s, w := newStore(t)
	s.PutWallet(domain.Wallet{CustomerID: 1, Currency: domain.CurrencyUSD, Balance: decimal.NewFromInt(5), UsableBalance: decimal.NewFromInt(5)})
	s.PutWallet(domain.Wallet{CustomerID: 2, Currency: domain.CurrencyTRY, Balance: decimal.NewFromInt(500), UsableBalance: decimal.NewFromInt(500)})

	minBalance := decimal.NewFromInt(100)

	got, err := s.Wallets().List(t.Context(), wallets.Filter{CustomerID: 1, MinBalance: &minBalance})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, w.ID, got[0].ID)
}

func ptr[T any](v T) *T { return &v }
