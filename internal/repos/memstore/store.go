// Package memstore keeps customers, wallets and transactions in memory behind
// the same store interfaces the Postgres repositories implement. Units of work
// stage their writes and take per-row locks that are held until commit or
// rollback, so services can be exercised without a database.
package memstore

import (
	"errors"
	"strconv"
	"sync"

	"github.com/fastprodman/walletsvc/internal/domain"
)

var ErrNoUnitOfWork = errors.New("memstore: no unit of work in context")

type Store struct {
	mu        sync.Mutex
	customers map[int64]domain.Customer
	wallets   map[int64]domain.Wallet
	txns      map[int64]domain.Transaction

	nextWalletID int64
	nextTxnID    int64

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

func New() *Store {
	return &Store{
		customers: make(map[int64]domain.Customer),
		wallets:   make(map[int64]domain.Wallet),
		txns:      make(map[int64]domain.Transaction),
		locks:     make(map[string]chan struct{}),
	}
}

func (s *Store) Wallets() *Wallets { return &Wallets{s: s} }

func (s *Store) Transactions() *Transactions { return &Transactions{s: s} }

func (s *Store) Customers() *Customers { return &Customers{s: s} }

// PutCustomer stores c as committed state.
func (s *Store) PutCustomer(c domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers[c.ID] = c
}

// PutWallet stores w as committed state, assigning an id when w.ID is zero.
func (s *Store) PutWallet(w domain.Wallet) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == 0 {
		s.nextWalletID++
		w.ID = s.nextWalletID
	} else if w.ID > s.nextWalletID {
		s.nextWalletID = w.ID
	}

	s.wallets[w.ID] = w

	return w
}

// DeleteWallet removes a wallet and cascades to its transactions.
func (s *Store) DeleteWallet(walletID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.wallets, walletID)

	for id, t := range s.txns {
		if t.WalletID == walletID {
			delete(s.txns, id)
		}
	}
}

func walletKey(id int64) string { return "wallet:" + strconv.FormatInt(id, 10) }

func txnKey(id int64) string { return "transaction:" + strconv.FormatInt(id, 10) }

func (s *Store) lockChan(key string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	ch, ok := s.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[key] = ch
	}

	return ch
}
