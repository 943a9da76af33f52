package txengine

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// Withdraw debits a wallet. Sufficiency is checked against the usable
// balance only, so funds reserved by pending withdrawals cannot be spent twice.
func (e *Engine) Withdraw(ctx context.Context, caller domain.Caller, req WithdrawRequest) (domain.Transaction, error) {
	partyType, err := validateMovement(req.WalletID, req.Amount, req.Destination, req.OppositePartyType)
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
			e.deny(ctx, caller, walletResource(w.ID), "WITHDRAW")
			return fmt.Errorf("%w: wallet %d belongs to another customer", domain.ErrUnauthorized, w.ID)
		}

		if !w.ActiveForWithdraw {
			return fmt.Errorf("%w: wallet %d", domain.ErrWalletNotActive, w.ID)
		}

		if w.UsableBalance.LessThan(req.Amount) {
			return fmt.Errorf("%w: wallet %d has %s usable, %s requested", domain.ErrInsufficientBalance,
				w.ID, w.UsableBalance.StringFixed(domain.MoneyScale), req.Amount.StringFixed(domain.MoneyScale))
		}

		out, err = e.record(ctx, caller, w, movement{
			typ:       domain.TxWithdraw,
			amount:    req.Amount,
			party:     req.Destination,
			partyType: partyType,
		}, &ob)

		return err
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("withdraw: %w", err)
	}

	e.flush(ctx, &ob)

	e.log.Info().
		Int64("walletId", out.WalletID).
		Int64("transactionId", out.ID).
		Int64("customerId", caller.CustomerID).
		Str("amount", out.Amount.StringFixed(domain.MoneyScale)).
		Str("status", string(out.Status)).
		Msg("withdrawal recorded")

	return out, nil
}
