package memstore

import (
	"context"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/customers"
)

var _ customers.Customers = (*Customers)(nil)

type Customers struct{ s *Store }

func (r *Customers) Get(_ context.Context, customerID int64) (domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.customers[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	return c, nil
}
