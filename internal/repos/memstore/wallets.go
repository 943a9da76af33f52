package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

var _ wallets.Wallets = (*Wallets)(nil)

type Wallets struct{ s *Store }

func (r *Wallets) Get(ctx context.Context, walletID int64) (domain.Wallet, error) {
	if sess, ok := sessionFrom(ctx); ok {
		if w, staged := sess.wallets[walletID]; staged {
			return w, nil
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.wallets[walletID]
	if !ok {
		return domain.Wallet{}, domain.ErrWalletNotFound
	}

	return w, nil
}

func (r *Wallets) GetForUpdate(ctx context.Context, walletID int64) (domain.Wallet, error) {
	sess, ok := sessionFrom(ctx)
	if !ok {
		return domain.Wallet{}, fmt.Errorf("lock wallet %d: %w", walletID, ErrNoUnitOfWork)
	}

	if !r.exists(walletID) {
		if _, staged := sess.wallets[walletID]; !staged {
			return domain.Wallet{}, domain.ErrWalletNotFound
		}
	}

	err := r.s.lock(ctx, sess, walletKey(walletID))
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("lock wallet %d: %w", walletID, err)
	}

	// Re-read after the lock: the previous holder may have committed.
	return r.Get(ctx, walletID)
}

func (r *Wallets) exists(walletID int64) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.wallets[walletID]

	return ok
}

func (r *Wallets) Save(ctx context.Context, w domain.Wallet) error {
	err := w.CheckBalances()
	if err != nil {
		return fmt.Errorf("%w: save wallet %d: %v", domain.ErrInternal, w.ID, err)
	}

	current, err := r.Get(ctx, w.ID)
	if err != nil {
		return err
	}

	current.Name = w.Name
	current.ActiveForShopping = w.ActiveForShopping
	current.ActiveForWithdraw = w.ActiveForWithdraw
	current.Balance = w.Balance
	current.UsableBalance = w.UsableBalance

	if sess, ok := sessionFrom(ctx); ok {
		sess.wallets[w.ID] = current

		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.wallets[w.ID] = current

	return nil
}

func (r *Wallets) Create(ctx context.Context, w domain.Wallet) (domain.Wallet, error) {
	r.s.mu.Lock()

	if _, ok := r.s.customers[w.CustomerID]; !ok {
		r.s.mu.Unlock()

		return domain.Wallet{}, domain.ErrCustomerNotFound
	}

	r.s.nextWalletID++
	w.ID = r.s.nextWalletID

	if sess, ok := sessionFrom(ctx); ok {
		r.s.mu.Unlock()
		sess.wallets[w.ID] = w

		return w, nil
	}

	r.s.wallets[w.ID] = w
	r.s.mu.Unlock()

	return w, nil
}

func (r *Wallets) List(ctx context.Context, f wallets.Filter) ([]domain.Wallet, error) {
	r.s.mu.Lock()

	all := make(map[int64]domain.Wallet, len(r.s.wallets))
	for id, w := range r.s.wallets {
		all[id] = w
	}

	r.s.mu.Unlock()

	if sess, ok := sessionFrom(ctx); ok {
		for id, w := range sess.wallets {
			all[id] = w
		}
	}

	out := make([]domain.Wallet, 0, len(all))

	for _, w := range all {
		if f.CustomerID != 0 && w.CustomerID != f.CustomerID {
			continue
		}

		if f.Currency != "" && w.Currency != f.Currency {
			continue
		}

		if f.MinBalance != nil && w.Balance.LessThan(*f.MinBalance) {
			continue
		}

		out = append(out, w)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}
