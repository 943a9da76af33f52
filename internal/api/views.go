package api

import (
	"time"

	"github.com/fastprodman/walletsvc/internal/domain"
)

type walletView struct {
	ID                int64     `json:"id"`
	CustomerID        int64     `json:"customerId"`
	WalletName        string    `json:"walletName"`
	Currency          string    `json:"currency"`
	ActiveForShopping bool      `json:"activeForShopping"`
	ActiveForWithdraw bool      `json:"activeForWithdraw"`
	Balance           string    `json:"balance"`
	UsableBalance     string    `json:"usableBalance"`
	CreatedAt         time.Time `json:"createdAt"`
}

func newWalletView(w domain.Wallet) walletView {
	return walletView{
		ID:                w.ID,
		CustomerID:        w.CustomerID,
		WalletName:        w.Name,
		Currency:          string(w.Currency),
		ActiveForShopping: w.ActiveForShopping,
		ActiveForWithdraw: w.ActiveForWithdraw,
		Balance:           w.Balance.StringFixed(domain.MoneyScale),
		UsableBalance:     w.UsableBalance.StringFixed(domain.MoneyScale),
		CreatedAt:         w.CreatedAt,
	}
}

type transactionView struct {
	ID                int64      `json:"id"`
	WalletID          int64      `json:"walletId"`
	Amount            string     `json:"amount"`
	Type              string     `json:"type"`
	OppositePartyType string     `json:"oppositePartyType"`
	OppositeParty     string     `json:"oppositeParty"`
	Status            string     `json:"status"`
	CreatedDate       time.Time  `json:"createdDate"`
	ProcessedDate     *time.Time `json:"processedDate,omitempty"`
}

func newTransactionView(t domain.Transaction) transactionView {
	return transactionView{
		ID:                t.ID,
		WalletID:          t.WalletID,
		Amount:            t.Amount.StringFixed(domain.MoneyScale),
		Type:              string(t.Type),
		OppositePartyType: string(t.OppositePartyType),
		OppositeParty:     t.OppositeParty,
		Status:            string(t.Status),
		CreatedDate:       t.CreatedDate,
		ProcessedDate:     t.ProcessedDate,
	}
}

func newTransactionViews(ts []domain.Transaction) []transactionView {
	out := make([]transactionView, 0, len(ts))
	for _, t := range ts {
		out = append(out, newTransactionView(t))
	}

	return out
}
