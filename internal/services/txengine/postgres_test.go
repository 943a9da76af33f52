package txengine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgtestutil"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
	transactionspg "github.com/fastprodman/walletsvc/internal/repos/transactions/postgres"
	walletspg "github.com/fastprodman/walletsvc/internal/repos/wallets/postgres"
)

// pgFixture runs the engine on Postgres with row locks and CHECK constraints
// in play. The seeded wallet holds 100.00/100.00 and belongs to customer 1.
type pgFixture struct {
	db       *sqlx.DB
	engine   *Engine
	walletID int64
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)
	t.Cleanup(cleanup)

	_, err := db.Exec(`
		INSERT INTO customers (id, name, surname, tckn, username, role)
		VALUES (1, 'Ayse', 'Yilmaz', '00000000001', 'ayse', 'CUSTOMER')
	`)
	require.NoError(t, err)

	var walletID int64

	err = db.Get(&walletID, `
		INSERT INTO wallets (customer_id, name, currency, active_for_shopping, active_for_withdraw,
			balance, usable_balance)
		VALUES (1, 'Main', 'TRY', TRUE, TRUE, 100.00, 100.00)
		RETURNING id
	`)
	require.NoError(t, err)

	// Leave room for the concurrent tests; every goroutine holds a connection
	// while it waits on the row lock.
	db.SetMaxOpenConns(32)

	engine := New(pgutils.NewTxManager(db), walletspg.New(db), transactionspg.New(db),
		WithLogger(zerolog.Nop()))

	return &pgFixture{db: db, engine: engine, walletID: walletID}
}

func (f *pgFixture) deposit(amount string) (domain.Transaction, error) {
	return f.engine.Deposit(context.Background(), owner, DepositRequest{
		WalletID:          f.walletID,
		Amount:            dec(amount),
		Source:            "TR330006100519786457841326",
		OppositePartyType: domain.PartyIBAN,
	})
}

func (f *pgFixture) withdraw(amount string) (domain.Transaction, error) {
	return f.engine.Withdraw(context.Background(), owner, WithdrawRequest{
		WalletID:          f.walletID,
		Amount:            dec(amount),
		Destination:       "merchant-42",
		OppositePartyType: domain.PartyPayment,
	})
}

func (f *pgFixture) decide(txID int64, status domain.TransactionStatus) (domain.Transaction, error) {
	return f.engine.ApproveTransaction(context.Background(), employee, ApprovalRequest{
		TransactionID: txID,
		Status:        status,
	})
}

// requireBalances reads the row directly so the NUMERIC round trip is checked too.
func (f *pgFixture) requireBalances(t *testing.T, balance, usable string) {
	t.Helper()

	var row struct {
		Balance decimal.Decimal `db:"balance"`
		Usable  decimal.Decimal `db:"usable_balance"`
	}

	err := f.db.Get(&row, `SELECT balance, usable_balance FROM wallets WHERE id = $1`, f.walletID)
	require.NoError(t, err)
	require.Equal(t, balance, row.Balance.StringFixed(2), "balance")
	require.Equal(t, usable, row.Usable.StringFixed(2), "usable balance")
}

func (f *pgFixture) countTransactions(t *testing.T) int {
	t.Helper()

	var n int

	require.NoError(t, f.db.Get(&n, `SELECT count(*) FROM transactions WHERE wallet_id = $1`, f.walletID))

	return n
}

func TestPostgres_ConcurrentMovements(t *testing.T) {
	t.Parallel()

	f := newPGFixture(t)

	const n = 20

	var wg sync.WaitGroup

	for range n {
		wg.Add(2)

		go func() {
			defer wg.Done()

			_, err := f.deposit("12.34")
			assert.NoError(t, err)
		}()

		go func() {
			defer wg.Done()

			_, err := f.withdraw("2.50")
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// 100 + 20 * (12.34 - 2.50). A withdrawal scheduled before enough
	// deposits land still fits in the initial 100.00.
	f.requireBalances(t, "296.80", "296.80")
	assert.Equal(t, 2*n, f.countTransactions(t))
}

func TestPostgres_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	t.Parallel()

	f := newPGFixture(t)

	const n = 25

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.withdraw("10")
			if err == nil {
				succeeded.Add(1)
				return
			}

			assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	f.requireBalances(t, "0.00", "0.00")
	assert.Equal(t, 10, f.countTransactions(t))
}

// Large deposit approved, large withdrawal held then denied, and a second
// decision on a settled transaction.
func TestPostgres_LargeMovementsLifecycle(t *testing.T) {
	t.Parallel()

	f := newPGFixture(t)

	dep, err := f.deposit("1500")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, dep.Status)
	assert.Nil(t, dep.ProcessedDate)
	f.requireBalances(t, "1600.00", "100.00")

	_, err = f.decide(dep.ID, domain.StatusApproved)
	require.NoError(t, err)
	f.requireBalances(t, "1600.00", "1600.00")

	wd, err := f.withdraw("1000")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, wd.Status)
	f.requireBalances(t, "1600.00", "600.00")

	_, err = f.withdraw("600.01")
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	denied, err := f.decide(wd.ID, domain.StatusDenied)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDenied, denied.Status)
	assert.NotNil(t, denied.ProcessedDate)
	f.requireBalances(t, "1600.00", "1600.00")

	_, err = f.decide(wd.ID, domain.StatusApproved)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	f.requireBalances(t, "1600.00", "1600.00")

	history, err := f.engine.ListTransactions(context.Background(), owner, f.walletID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, wd.ID, history[0].ID)
	assert.True(t, history[0].Amount.Equal(dec("1000.00")))
}

func TestPostgres_ConcurrentApprovalsApplyOnce(t *testing.T) {
	t.Parallel()

	f := newPGFixture(t)

	_, err := f.deposit("900")
	require.NoError(t, err)

	pending, err := f.withdraw("1000")
	require.NoError(t, err)
	f.requireBalances(t, "1000.00", "0.00")

	const n = 10

	var (
		wg      sync.WaitGroup
		applied atomic.Int32
	)

	for range n {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := f.decide(pending.ID, domain.StatusApproved)
			switch {
			case err == nil:
				applied.Add(1)
			case errors.Is(err, domain.ErrInvalidState):
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), applied.Load())

	f.requireBalances(t, "0.00", "0.00")
}

// A balance that no longer fits NUMERIC(19,2) is a client error and leaves
// nothing behind.
func TestPostgres_BalanceOverflowRollsBack(t *testing.T) {
	t.Parallel()

	f := newPGFixture(t)

	_, err := f.deposit("99999999999999999.99")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	f.requireBalances(t, "100.00", "100.00")
	assert.Zero(t, f.countTransactions(t))
}
