package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxDeposit  TransactionType = "DEPOSIT"
	TxWithdraw TransactionType = "WITHDRAW"
)

type TransactionStatus string

const (
	StatusPending  TransactionStatus = "PENDING"
	StatusApproved TransactionStatus = "APPROVED"
	StatusDenied   TransactionStatus = "DENIED"
)

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	switch st := TransactionStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusDenied:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", ErrInvalidArgument, s)
	}
}

// Terminal reports whether the status can no longer change.
func (s TransactionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusDenied
}

type OppositePartyType string

const (
	PartyIBAN    OppositePartyType = "IBAN"
	PartyPayment OppositePartyType = "PAYMENT"
)

func ParseOppositePartyType(s string) (OppositePartyType, error) {
	switch p := OppositePartyType(strings.ToUpper(strings.TrimSpace(s))); p {
	case PartyIBAN, PartyPayment:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown opposite party type %q", ErrInvalidArgument, s)
	}
}

// Transaction is immutable once created except for Status and ProcessedDate,
// which change together exactly once when a pending transaction is decided.
type Transaction struct {
	ID                int64
	WalletID          int64
	Amount            decimal.Decimal
	Type              TransactionType
	OppositePartyType OppositePartyType
	OppositeParty     string
	Status            TransactionStatus
	CreatedDate       time.Time
	ProcessedDate     *time.Time
}
