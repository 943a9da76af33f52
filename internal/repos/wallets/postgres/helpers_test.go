package wallets

import (
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
)

func seedCustomer(t *testing.T, db *sqlx.DB, id int64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO customers (id, name, surname, tckn, username, role)
		VALUES ($1, 'Test', 'User', $2, $3, 'CUSTOMER')
	`, id, fmt.Sprintf("%011d", id), fmt.Sprintf("user%d", id))
	if err != nil {
		t.Fatalf("seed customer %d: %v", id, err)
	}
}

func seedWallet(t *testing.T, db *sqlx.DB, id, customerID int64, currency, balance, usable string, withdraw bool) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO wallets (id, customer_id, name, currency, active_for_shopping, active_for_withdraw,
			balance, usable_balance)
		VALUES ($1, $2, 'w', $3, TRUE, $4, $5, $6)
	`, id, customerID, currency, withdraw, balance, usable)
	if err != nil {
		t.Fatalf("seed wallet %d: %v", id, err)
	}
}
