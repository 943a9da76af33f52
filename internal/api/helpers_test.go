package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/idempotency"
	"github.com/fastprodman/walletsvc/internal/repos/memstore"
	"github.com/fastprodman/walletsvc/internal/services/txengine"
	"github.com/fastprodman/walletsvc/internal/services/wallets"
)

var (
	testSecret = []byte("test-secret")

	ayse   = domain.Caller{CustomerID: 1, Username: "ayse", Role: domain.RoleCustomer}
	mehmet = domain.Caller{CustomerID: 2, Username: "mehmet", Role: domain.RoleCustomer}
	elif   = domain.Caller{CustomerID: 3, Username: "elif", Role: domain.RoleEmployee}
)

type auditCapture struct {
	mu     sync.Mutex
	events []audit.Event
}

func (c *auditCapture) Write(_ context.Context, e audit.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)

	return nil
}

func (c *auditCapture) count(typ audit.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.events {
		if e.Type == typ {
			n++
		}
	}

	return n
}

// memIdempotency is a map-backed idempotency.Store; err forces every call to fail.
type memIdempotency struct {
	mu       sync.Mutex
	items    map[string]idempotency.CachedResponse
	inFlight map[string]bool
	err      error
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{
		items:    make(map[string]idempotency.CachedResponse),
		inFlight: make(map[string]bool),
	}
}

func (m *memIdempotency) Get(_ context.Context, key string) (*idempotency.CachedResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	if m.inFlight[key] {
		return nil, idempotency.ErrInFlight
	}

	resp, ok := m.items[key]
	if !ok {
		return nil, nil
	}

	return &resp, nil
}

func (m *memIdempotency) Reserve(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}

	if _, ok := m.items[key]; ok || m.inFlight[key] {
		return false, nil
	}

	m.inFlight[key] = true

	return true, nil
}

func (m *memIdempotency) Save(_ context.Context, key string, resp idempotency.CachedResponse, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	delete(m.inFlight, key)
	m.items[key] = resp

	return nil
}

func (m *memIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	delete(m.inFlight, key)

	return nil
}

type testAPI struct {
	handler http.Handler
	store   *memstore.Store
	audit   *auditCapture
	idem    *memIdempotency
	wallet  domain.Wallet
}

// newTestAPI serves the real services over memstore. Customer 1 owns a
// wallet holding 100.00/100.00.
func newTestAPI(t *testing.T) *testAPI {
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
		Balance:           decimal.RequireFromString("100.00"),
		UsableBalance:     decimal.RequireFromString("100.00"),
	})

	capture := &auditCapture{}
	auditLog := audit.New(zerolog.Nop(), []audit.Sink{capture})
	idem := newMemIdempotency()
	nop := zerolog.Nop()

	engine := txengine.New(store, store.Wallets(), store.Transactions(),
		txengine.WithAudit(auditLog),
		txengine.WithLogger(nop),
	)
	walletSvc := wallets.New(store, store.Wallets(), store.Customers(),
		wallets.WithAudit(auditLog),
		wallets.WithLogger(nop),
	)

	h := NewRouter(Deps{
		Transactions:   engine,
		Wallets:        walletSvc,
		Auth:           NewAuthenticator(testSecret, auditLog),
		Idempotency:    idem,
		IdempotencyTTL: time.Hour,
		Log:            &nop,
	})

	return &testAPI{handler: h, store: store, audit: capture, idem: idem, wallet: w}
}

func token(t *testing.T, c domain.Caller) string {
	t.Helper()

	tok, err := IssueToken(testSecret, c, time.Hour, time.Now())
	require.NoError(t, err)

	return tok
}

type call struct {
	method string
	path   string
	caller *domain.Caller
	body   any
	header map[string]string
}

func (a *testAPI) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if c.body != nil {
		switch b := c.body.(type) {
		case string:
			body.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&body).Encode(b))
		}
	}

	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")

	if c.caller != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, *c.caller))
	}

	for k, v := range c.header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())

	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	return decodeJSON[map[string]string](t, rec)["error"]
}

var errStoreDown = errors.New("store down")
