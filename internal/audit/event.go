package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
)

type EventType string

const (
	WalletCreation      EventType = "WALLET_CREATION"
	TransactionCreation EventType = "TRANSACTION_CREATION"
	TransactionApproval EventType = "TRANSACTION_APPROVAL"
	BalanceChange       EventType = "BALANCE_CHANGE"
	UnauthorizedAccess  EventType = "UNAUTHORIZED_ACCESS"
	AuthFailure         EventType = "AUTH_FAILURE"
)

// Event is one audit record. Details carries the type-specific attributes as
// strings so every sink can store them without knowing the type.
type Event struct {
	ID            string            `json:"id" bson:"_id"`
	Type          EventType         `json:"type" bson:"type"`
	Username      string            `json:"username" bson:"username"`
	CustomerID    int64             `json:"customerId,omitempty" bson:"customer_id,omitempty"`
	Role          domain.Role       `json:"role,omitempty" bson:"role,omitempty"`
	WalletID      int64             `json:"walletId,omitempty" bson:"wallet_id,omitempty"`
	TransactionID int64             `json:"transactionId,omitempty" bson:"transaction_id,omitempty"`
	Details       map[string]string `json:"details,omitempty" bson:"details,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt" bson:"occurred_at"`
}

func newEvent(typ EventType, caller domain.Caller) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Username:   caller.Name(),
		CustomerID: caller.CustomerID,
		Role:       caller.Role,
		Details:    make(map[string]string),
	}
}

func WalletCreated(caller domain.Caller, w domain.Wallet) Event {
	e := newEvent(WalletCreation, caller)
	e.WalletID = w.ID
	e.Details["ownerId"] = formatID(w.CustomerID)
	e.Details["walletName"] = w.Name
	e.Details["currency"] = string(w.Currency)

	return e
}

func TransactionCreated(caller domain.Caller, t domain.Transaction) Event {
	e := newEvent(TransactionCreation, caller)
	e.WalletID = t.WalletID
	e.TransactionID = t.ID
	e.Details["transactionType"] = string(t.Type)
	e.Details["amount"] = t.Amount.StringFixed(domain.MoneyScale)
	e.Details["status"] = string(t.Status)

	return e
}

func TransactionDecided(caller domain.Caller, t domain.Transaction, oldStatus domain.TransactionStatus) Event {
	e := newEvent(TransactionApproval, caller)
	e.WalletID = t.WalletID
	e.TransactionID = t.ID
	e.Details["oldStatus"] = string(oldStatus)
	e.Details["newStatus"] = string(t.Status)
	e.Details["amount"] = t.Amount.StringFixed(domain.MoneyScale)

	return e
}

func BalanceChanged(caller domain.Caller, before, after domain.Wallet, reason string) Event {
	e := newEvent(BalanceChange, caller)
	e.WalletID = after.ID
	e.Details["oldBalance"] = money(before.Balance)
	e.Details["newBalance"] = money(after.Balance)
	e.Details["oldUsableBalance"] = money(before.UsableBalance)
	e.Details["newUsableBalance"] = money(after.UsableBalance)
	e.Details["reason"] = reason

	return e
}

// Denied records a policy refusal of action on resource.
func Denied(caller domain.Caller, resource, action string) Event {
	e := newEvent(UnauthorizedAccess, caller)
	e.Details["resource"] = resource
	e.Details["action"] = action

	return e
}

// AuthFailed records a request whose credentials could not be verified.
func AuthFailed(remote, reason string) Event {
	e := newEvent(AuthFailure, domain.Caller{Username: "anonymous"})
	e.Details["remoteAddr"] = remote
	e.Details["reason"] = reason

	return e
}

func money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyScale)
}
