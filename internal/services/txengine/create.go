package txengine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
)

type movement struct {
	typ       domain.TransactionType
	amount    decimal.Decimal
	party     string
	partyType domain.OppositePartyType
}

// record creates the transaction for m against the locked wallet w and
// applies its creation delta.
func (e *Engine) record(ctx context.Context, caller domain.Caller, w domain.Wallet, m movement, ob *outbox) (domain.Transaction, error) {
	now := e.timestamp()

	status := domain.StatusApproved
	if requiresApproval(m.amount) {
		status = domain.StatusPending
	}

	tx := domain.Transaction{
		WalletID:          w.ID,
		Amount:            m.amount,
		Type:              m.typ,
		OppositePartyType: m.partyType,
		OppositeParty:     m.party,
		Status:            status,
		CreatedDate:       now,
	}

	if status == domain.StatusApproved {
		tx.ProcessedDate = &now
	}

	d, err := creationDelta(m.typ, status, m.amount)
	if err != nil {
		return domain.Transaction{}, err
	}

	created, err := e.txns.Create(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	after, err := e.applyDelta(ctx, w, d)
	if err != nil {
		return domain.Transaction{}, err
	}

	ob.audits = append(ob.audits,
		audit.TransactionCreated(caller, created),
		audit.BalanceChanged(caller, w, after, fmt.Sprintf("%s %s", m.typ, status)),
	)
	ob.messages = append(ob.messages, events.ForTransaction(caller, created, true, now))

	return created, nil
}

// applyDelta moves w by d, checks 0 <= usable <= balance and saves it.
func (e *Engine) applyDelta(ctx context.Context, w domain.Wallet, d delta) (domain.Wallet, error) {
	after := d.apply(w)

	err := after.CheckBalances()
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	err = e.wallets.Save(ctx, after)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("save wallet: %w", err)
	}

	return after, nil
}
