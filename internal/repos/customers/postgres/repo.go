package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
	"github.com/fastprodman/walletsvc/internal/repos/customers"
)

var _ customers.Customers = (*customersRepo)(nil)

type customersRepo struct{ db *sqlx.DB }

func New(db *sqlx.DB) *customersRepo {
	return &customersRepo{db: db}
}

type customerRow struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Surname  string `db:"surname"`
	TCKN     string `db:"tckn"`
	Username string `db:"username"`
	Role     string `db:"role"`
}

func (r *customersRepo) Get(ctx context.Context, customerID int64) (domain.Customer, error) {
	var row customerRow

	err := pgutils.Conn(ctx, r.db).GetContext(ctx, &row, `
		SELECT id, name, surname, tckn, username, role
		FROM customers
		WHERE id = $1
	`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	if err != nil {
		return domain.Customer{}, fmt.Errorf("get customer %d: %w", customerID, err)
	}

	return domain.Customer{
		ID:       row.ID,
		Name:     row.Name,
		Surname:  row.Surname,
		TCKN:     strings.TrimSpace(row.TCKN),
		Username: row.Username,
		Role:     domain.Role(row.Role),
	}, nil
}
