package customers

import (
	"context"

	"github.com/fastprodman/walletsvc/internal/domain"
)

// Customers is read-only: customers are provisioned outside this service.
type Customers interface {
	Get(ctx context.Context, customerID int64) (domain.Customer, error)
}
