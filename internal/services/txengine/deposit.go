package txengine

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// Deposit credits a wallet. Deposits ignore the wallet's activity flags.
func (e *Engine) Deposit(ctx context.Context, caller domain.Caller, req DepositRequest) (domain.Transaction, error) {
	partyType, err := validateMovement(req.WalletID, req.Amount, req.Source, req.OppositePartyType)
	if err != nil {
		return domain.Transaction{}, err
	}

	var (
		out domain.Transaction
		ob  outbox
	)

	err = e.uow.Do(ctx, func(ctx context.Context) error {
		w, err := e.wallets.GetForUpdate(ctx, req.WalletID)
		if err != nil {
			return fmt.Errorf("lock wallet %d: %w", req.WalletID, err)
		}

		if !caller.CanAccess(w) {
			e.deny(ctx, caller, walletResource(w.ID), "DEPOSIT")
			return fmt.Errorf("%w: wallet %d belongs to another customer", domain.ErrUnauthorized, w.ID)
		}

		out, err = e.record(ctx, caller, w, movement{
			typ:       domain.TxDeposit,
			amount:    req.Amount,
			party:     req.Source,
			partyType: partyType,
		}, &ob)

		return err
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("deposit: %w", err)
	}

	e.flush(ctx, &ob)

	e.log.Info().
		Int64("walletId", out.WalletID).
		Int64("transactionId", out.ID).
		Int64("customerId", caller.CustomerID).
		Str("amount", out.Amount.StringFixed(domain.MoneyScale)).
		Str("status", string(out.Status)).
		Msg("deposit recorded")

	return out, nil
}
