package txengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
)

// ApproveTransaction settles a PENDING transaction as APPROVED or DENIED.
// Only employees may decide, including on their own wallets' transactions.
func (e *Engine) ApproveTransaction(ctx context.Context, caller domain.Caller, req ApprovalRequest) (domain.Transaction, error) {
	if !caller.IsEmployee() {
		e.deny(ctx, caller, transactionResource(req.TransactionID), "APPROVE")
		return domain.Transaction{}, fmt.Errorf("approve transaction: %w: employees only", domain.ErrUnauthorized)
	}

	decision, err := domain.ParseTransactionStatus(string(req.Status))
	if err != nil {
		return domain.Transaction{}, err
	}

	if !decision.Terminal() {
		return domain.Transaction{}, fmt.Errorf("%w: decision must be APPROVED or DENIED", domain.ErrInvalidArgument)
	}

	var (
		out       domain.Transaction
		oldStatus domain.TransactionStatus
		ob        outbox
	)

	err = e.uow.Do(ctx, func(ctx context.Context) error {
		tx, err := e.txns.FindByID(ctx, req.TransactionID)
		if err != nil {
			return fmt.Errorf("find transaction %d: %w", req.TransactionID, err)
		}

		if tx.Status != domain.StatusPending {
			return fmt.Errorf("%w: transaction %d is already %s", domain.ErrInvalidState, tx.ID, tx.Status)
		}

		w, err := e.wallets.GetForUpdate(ctx, tx.WalletID)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: transaction %d references missing wallet %d", domain.ErrInternal, tx.ID, tx.WalletID)
		}

		if err != nil {
			return fmt.Errorf("lock wallet %d: %w", tx.WalletID, err)
		}

		// Another approver may have decided while we waited for the wallet.
		tx, err = e.txns.FindByIDForUpdate(ctx, req.TransactionID)
		if err != nil {
			return fmt.Errorf("lock transaction %d: %w", req.TransactionID, err)
		}

		if tx.Status != domain.StatusPending {
			return fmt.Errorf("%w: transaction %d is already %s", domain.ErrInvalidState, tx.ID, tx.Status)
		}

		d, err := settlementDelta(tx.Type, decision, tx.Amount)
		if err != nil {
			return err
		}

		now := e.timestamp()
		oldStatus = tx.Status
		tx.Status = decision
		tx.ProcessedDate = &now

		err = e.txns.Save(ctx, tx)
		if err != nil {
			return fmt.Errorf("save transaction: %w", err)
		}

		after, err := e.applyDelta(ctx, w, d)
		if err != nil {
			return err
		}

		out = tx

		ob.audits = append(ob.audits,
			audit.TransactionDecided(caller, tx, oldStatus),
			audit.BalanceChanged(caller, w, after, fmt.Sprintf("%s %s", tx.Type, decision)),
		)
		ob.messages = append(ob.messages, events.ForTransaction(caller, tx, false, now))

		return nil
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("approve transaction: %w", err)
	}

	e.flush(ctx, &ob)

	e.log.Info().
		Int64("walletId", out.WalletID).
		Int64("transactionId", out.ID).
		Int64("customerId", caller.CustomerID).
		Str("from", string(oldStatus)).
		Str("to", string(out.Status)).
		Msg("transaction decided")

	return out, nil
}
