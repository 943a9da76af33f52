package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/transactions"
)

var _ transactions.Transactions = (*Transactions)(nil)

type Transactions struct{ s *Store }

func checkTransaction(t domain.Transaction) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: transaction amount %s", domain.ErrInternal, t.Amount)
	}

	if (t.Status == domain.StatusPending) != (t.ProcessedDate == nil) {
		return fmt.Errorf("%w: transaction status %s with processed date %v", domain.ErrInternal, t.Status, t.ProcessedDate)
	}

	return nil
}

func (r *Transactions) Create(ctx context.Context, t domain.Transaction) (domain.Transaction, error) {
	err := checkTransaction(t)
	if err != nil {
		return domain.Transaction{}, err
	}

	sess, inSession := sessionFrom(ctx)

	r.s.mu.Lock()

	_, walletExists := r.s.wallets[t.WalletID]
	if !walletExists && inSession {
		_, walletExists = sess.wallets[t.WalletID]
	}

	if !walletExists {
		r.s.mu.Unlock()

		return domain.Transaction{}, domain.ErrWalletNotFound
	}

	r.s.nextTxnID++
	t.ID = r.s.nextTxnID

	if !inSession {
		r.s.txns[t.ID] = t
	}

	r.s.mu.Unlock()

	if inSession {
		sess.txns[t.ID] = t
	}

	return t, nil
}

func (r *Transactions) FindByID(ctx context.Context, id int64) (domain.Transaction, error) {
	if sess, ok := sessionFrom(ctx); ok {
		if t, staged := sess.txns[id]; staged {
			return t, nil
		}
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.txns[id]
	if !ok {
		return domain.Transaction{}, domain.ErrTransactionNotFound
	}

	return t, nil
}

func (r *Transactions) FindByIDForUpdate(ctx context.Context, id int64) (domain.Transaction, error) {
	sess, ok := sessionFrom(ctx)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("lock transaction %d: %w", id, ErrNoUnitOfWork)
	}

	_, err := r.FindByID(ctx, id)
	if err != nil {
		return domain.Transaction{}, err
	}

	err = r.s.lock(ctx, sess, txnKey(id))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("lock transaction %d: %w", id, err)
	}

	return r.FindByID(ctx, id)
}

func (r *Transactions) visible(ctx context.Context) []domain.Transaction {
	r.s.mu.Lock()

	all := make(map[int64]domain.Transaction, len(r.s.txns))
	for id, t := range r.s.txns {
		all[id] = t
	}

	r.s.mu.Unlock()

	if sess, ok := sessionFrom(ctx); ok {
		for id, t := range sess.txns {
			all[id] = t
		}
	}

	out := make([]domain.Transaction, 0, len(all))
	for _, t := range all {
		out = append(out, t)
	}

	return out
}

func (r *Transactions) ListByWallet(ctx context.Context, walletID int64) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)

	for _, t := range r.visible(ctx) {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.After(out[j].CreatedDate)
		}

		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *Transactions) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)

	for _, t := range r.visible(ctx) {
		if t.Status == status {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedDate.Equal(out[j].CreatedDate) {
			return out[i].CreatedDate.Before(out[j].CreatedDate)
		}

		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *Transactions) Save(ctx context.Context, t domain.Transaction) error {
	err := checkTransaction(t)
	if err != nil {
		return err
	}

	current, err := r.FindByID(ctx, t.ID)
	if err != nil {
		return err
	}

	current.Status = t.Status
	current.ProcessedDate = t.ProcessedDate

	if sess, ok := sessionFrom(ctx); ok {
		sess.txns[t.ID] = current

		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.txns[t.ID] = current

	return nil
}
