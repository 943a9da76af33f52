// Package events defines the domain events published after a unit of work
// commits.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/walletsvc/internal/domain"
)

const (
	TransactionCreated  = "transaction.created"
	TransactionApproved = "transaction.approved"
	TransactionDenied   = "transaction.denied"
	WalletCreated       = "wallet.created"
)

// Publisher delivers a message under a routing key.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

type Message struct {
	ID         string    `json:"id"`
	RoutingKey string    `json:"routingKey"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type TransactionPayload struct {
	TransactionID     int64   `json:"transactionId"`
	WalletID          int64   `json:"walletId"`
	Amount            string  `json:"amount"`
	Type              string  `json:"type"`
	OppositePartyType string  `json:"oppositePartyType"`
	OppositeParty     string  `json:"oppositeParty"`
	Status            string  `json:"status"`
	CreatedDate       string  `json:"createdDate"`
	ProcessedDate     *string `json:"processedDate,omitempty"`
	Actor             string  `json:"actor"`
}

type WalletPayload struct {
	WalletID   int64  `json:"walletId"`
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Currency   string `json:"currency"`
	Actor      string `json:"actor"`
}

func newMessage(key string, now time.Time, payload any) Message {
	return Message{
		ID:         uuid.NewString(),
		RoutingKey: key,
		OccurredAt: now.UTC(),
		Payload:    payload,
	}
}

// ForTransaction builds the created/approved/denied message matching t's state.
// created selects transaction.created regardless of status.
func ForTransaction(caller domain.Caller, t domain.Transaction, created bool, now time.Time) Message {
	key := TransactionCreated

	switch {
	case created:
	case t.Status == domain.StatusApproved:
		key = TransactionApproved
	case t.Status == domain.StatusDenied:
		key = TransactionDenied
	}

	p := TransactionPayload{
		TransactionID:     t.ID,
		WalletID:          t.WalletID,
		Amount:            t.Amount.StringFixed(domain.MoneyScale),
		Type:              string(t.Type),
		OppositePartyType: string(t.OppositePartyType),
		OppositeParty:     t.OppositeParty,
		Status:            string(t.Status),
		CreatedDate:       t.CreatedDate.UTC().Format(time.RFC3339Nano),
		Actor:             caller.Name(),
	}

	if t.ProcessedDate != nil {
		processed := t.ProcessedDate.UTC().Format(time.RFC3339Nano)
		p.ProcessedDate = &processed
	}

	return newMessage(key, now, p)
}

func ForWallet(caller domain.Caller, w domain.Wallet, now time.Time) Message {
	return newMessage(WalletCreated, now, WalletPayload{
		WalletID:   w.ID,
		CustomerID: w.CustomerID,
		Name:       w.Name,
		Currency:   string(w.Currency),
		Actor:      caller.Name(),
	})
}
