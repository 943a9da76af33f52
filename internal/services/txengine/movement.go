package txengine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// delta is the change one transition applies to a wallet's balance pair.
type delta struct {
	Balance decimal.Decimal
	Usable  decimal.Decimal
}

func (d delta) apply(w domain.Wallet) domain.Wallet {
	w.Balance = w.Balance.Add(d.Balance)
	w.UsableBalance = w.UsableBalance.Add(d.Usable)

	return w
}

// creationDelta covers a transaction entering APPROVED or PENDING.
//
//	DEPOSIT  APPROVED  +a +a
//	DEPOSIT  PENDING   +a  0
//	WITHDRAW APPROVED  -a -a
//	WITHDRAW PENDING    0 -a
func creationDelta(typ domain.TransactionType, status domain.TransactionStatus, a decimal.Decimal) (delta, error) {
	zero := decimal.Zero

	switch {
	case typ == domain.TxDeposit && status == domain.StatusApproved:
		return delta{Balance: a, Usable: a}, nil
	case typ == domain.TxDeposit && status == domain.StatusPending:
		return delta{Balance: a, Usable: zero}, nil
	case typ == domain.TxWithdraw && status == domain.StatusApproved:
		return delta{Balance: a.Neg(), Usable: a.Neg()}, nil
	case typ == domain.TxWithdraw && status == domain.StatusPending:
		return delta{Balance: zero, Usable: a.Neg()}, nil
	}

	return delta{}, fmt.Errorf("%w: no creation movement for %s %s", domain.ErrInternal, typ, status)
}

// settlementDelta covers a PENDING transaction being decided.
//
//	DEPOSIT  APPROVED   0 +a
//	DEPOSIT  DENIED    -a  0
//	WITHDRAW APPROVED  -a  0
//	WITHDRAW DENIED     0 +a
func settlementDelta(typ domain.TransactionType, decision domain.TransactionStatus, a decimal.Decimal) (delta, error) {
	zero := decimal.Zero

	switch {
	case typ == domain.TxDeposit && decision == domain.StatusApproved:
		return delta{Balance: zero, Usable: a}, nil
	case typ == domain.TxDeposit && decision == domain.StatusDenied:
		return delta{Balance: a.Neg(), Usable: zero}, nil
	case typ == domain.TxWithdraw && decision == domain.StatusApproved:
		return delta{Balance: a.Neg(), Usable: zero}, nil
	case typ == domain.TxWithdraw && decision == domain.StatusDenied:
		return delta{Balance: zero, Usable: a}, nil
	}

	return delta{}, fmt.Errorf("%w: no settlement movement for %s %s", domain.ErrInternal, typ, decision)
}
