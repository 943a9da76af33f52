package transactions

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

const transactionColumns = `id, wallet_id, amount, type, opposite_party_type, opposite_party,
	status, created_date, processed_date`

type transactionsRepo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

type transactionRow struct {
	ID                int64           `db:"id"`
	WalletID          int64           `db:"wallet_id"`
	Amount            decimal.Decimal `db:"amount"`
	Type              string          `db:"type"`
	OppositePartyType string          `db:"opposite_party_type"`
	OppositeParty     string          `db:"opposite_party"`
	Status            string          `db:"status"`
	CreatedDate       time.Time       `db:"created_date"`
	ProcessedDate     sql.NullTime    `db:"processed_date"`
}

func (r transactionRow) toDomain() domain.Transaction {
	t := domain.Transaction{
		ID:                r.ID,
		WalletID:          r.WalletID,
		Amount:            r.Amount,
		Type:              domain.TransactionType(r.Type),
		OppositePartyType: domain.OppositePartyType(r.OppositePartyType),
		OppositeParty:     r.OppositeParty,
		Status:            domain.TransactionStatus(r.Status),
		CreatedDate:       r.CreatedDate,
	}

	if r.ProcessedDate.Valid {
		processed := r.ProcessedDate.Time
		t.ProcessedDate = &processed
	}

	return t
}

func toRows(rows []transactionRow) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}

	return sql.NullTime{Time: *t, Valid: true}
}
