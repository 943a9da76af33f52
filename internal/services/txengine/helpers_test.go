package txengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
	"github.com/fastprodman/walletsvc/internal/repos/memstore"
)

var (
	owner    = domain.Caller{CustomerID: 1, Username: "ayse", Role: domain.RoleCustomer}
	stranger = domain.Caller{CustomerID: 2, Username: "mehmet", Role: domain.RoleCustomer}
	employee = domain.Caller{CustomerID: 3, Username: "elif", Role: domain.RoleEmployee}
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(time.Second)

	return c.t
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Write(_ context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, e)

	return nil
}

func (s *recordingSink) count(typ audit.EventType) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, e := range s.events {
		if e.Type == typ {
			n++
		}
	}

	return n
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.keys = append(p.keys, msg.RoutingKey)

	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.keys...)
}

type fixture struct {
	store  *memstore.Store
	engine *Engine
	audit  *recordingSink
	pub    *recordingPublisher
	wallet domain.Wallet
}

// newFixture seeds the reference wallet: 100.00/100.00, withdrawals
// enabled, owned by customer 1.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	store.PutCustomer(domain.Customer{ID: 1, Username: "ayse", Role: domain.RoleCustomer})
	store.PutCustomer(domain.Customer{ID: 2, Username: "mehmet", Role: domain.RoleCustomer})
	store.PutCustomer(domain.Customer{ID: 3, Username: "elif", Role: domain.RoleEmployee})

	w := store.PutWallet(domain.Wallet{
		CustomerID:        1,
		Name:              "Main",
		Currency:          domain.CurrencyTRY,
		ActiveForShopping: true,
		ActiveForWithdraw: true,
		Balance:           dec("100.00"),
		UsableBalance:     dec("100.00"),
	})

	sink := &recordingSink{}
	pub := &recordingPublisher{}
	clock := &stepClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	return &fixture{
		store: store,
		engine: New(store, store.Wallets(), store.Transactions(),
			WithAudit(audit.New(zerolog.Nop(), []audit.Sink{sink})),
			WithPublisher(pub),
			WithClock(clock.Now),
			WithLogger(zerolog.Nop()),
		),
		audit:  sink,
		pub:    pub,
		wallet: w,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) requireBalances(t *testing.T, balance, usable string) {
	t.Helper()

	w, err := f.store.Wallets().Get(context.Background(), f.wallet.ID)
	require.NoError(t, err)
	require.Equal(t, balance, w.Balance.StringFixed(2), "balance")
	require.Equal(t, usable, w.UsableBalance.StringFixed(2), "usable balance")
}

func (f *fixture) deposit(t *testing.T, caller domain.Caller, amount string) (domain.Transaction, error) {
	t.Helper()

	return f.engine.Deposit(context.Background(), caller, DepositRequest{
		WalletID:          f.wallet.ID,
		Amount:            dec(amount),
		Source:            "TR330006100519786457841326",
		OppositePartyType: domain.PartyIBAN,
	})
}

func (f *fixture) withdraw(t *testing.T, caller domain.Caller, amount string) (domain.Transaction, error) {
	t.Helper()

	return f.engine.Withdraw(context.Background(), caller, WithdrawRequest{
		WalletID:          f.wallet.ID,
		Amount:            dec(amount),
		Destination:       "merchant-42",
		OppositePartyType: domain.PartyPayment,
	})
}

func (f *fixture) decide(t *testing.T, caller domain.Caller, txID int64, status domain.TransactionStatus) (domain.Transaction, error) {
	t.Helper()

	return f.engine.ApproveTransaction(context.Background(), caller, ApprovalRequest{
		TransactionID: txID,
		Status:        status,
	})
}

// requireHeldMatchesPending checks balance - usable against the pending
// transactions recorded for the wallet.
func (f *fixture) requireHeldMatchesPending(t *testing.T) {
	t.Helper()

	ctx := context.Background()

	w, err := f.store.Wallets().Get(ctx, f.wallet.ID)
	require.NoError(t, err)

	txns, err := f.store.Transactions().ListByWallet(ctx, f.wallet.ID)
	require.NoError(t, err)

	pending := decimal.Zero

	for _, tx := range txns {
		if tx.Status == domain.StatusPending {
			pending = pending.Add(tx.Amount)
		}

		require.Equal(t, tx.Status == domain.StatusPending, tx.ProcessedDate == nil, "transaction %d", tx.ID)
	}

	require.NoError(t, w.CheckBalances())
	require.True(t, w.Balance.Sub(w.UsableBalance).Equal(pending),
		"balance-usable=%s, pending=%s", w.Balance.Sub(w.UsableBalance), pending)
}
