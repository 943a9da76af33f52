package transactions

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
)

func seedWallet(t *testing.T, db *sqlx.DB, walletID int64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO customers (id, name, surname, tckn, username, role)
		VALUES (1, 'Ayse', 'Yilmaz', '10000000001', 'ayse', 'CUSTOMER')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO wallets (id, customer_id, name, currency, active_for_shopping, active_for_withdraw,
			balance, usable_balance)
		VALUES ($1, 1, 'Main', 'TRY', TRUE, TRUE, 0, 0)
	`, walletID)
	if err != nil {
		t.Fatalf("seed wallet %d: %v", walletID, err)
	}
}

func pendingDeposit(walletID int64, amount string, created time.Time) domain.Transaction {
	return domain.Transaction{
		WalletID:          walletID,
		Amount:            decimal.RequireFromString(amount),
		Type:              domain.TxDeposit,
		OppositePartyType: domain.PartyIBAN,
		OppositeParty:     "TR330006100519786457841326",
		Status:            domain.StatusPending,
		CreatedDate:       created,
	}
}
