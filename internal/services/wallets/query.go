package wallets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

func (s *Service) List(ctx context.Context, caller domain.Caller, req ListRequest) ([]domain.Wallet, error) {
	var customerID int64

	switch {
	case caller.IsEmployee():
		if req.CustomerID == nil {
			return nil, fmt.Errorf("%w: customerId is required for employees", domain.ErrInvalidArgument)
		}

		customerID = *req.CustomerID
	case req.CustomerID != nil && *req.CustomerID != caller.CustomerID:
		s.deny(ctx, caller, "customer:"+strconv.FormatInt(*req.CustomerID, 10), "LIST_WALLETS")
		return nil, fmt.Errorf("list wallets: %w: not your wallets", domain.ErrUnauthorized)
	default:
		customerID = caller.CustomerID
	}

	filter := wallets.Filter{CustomerID: customerID, MinBalance: req.MinBalance}

	if req.Currency != "" {
		currency, err := domain.ParseCurrency(string(req.Currency))
		if err != nil {
			return nil, err
		}

		filter.Currency = currency
	}

	out, err := s.wallets.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, walletID int64) (domain.Wallet, error) {
	w, err := s.wallets.Get(ctx, walletID)
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("get wallet %d: %w", walletID, err)
	}

	if !caller.CanAccess(w) {
		s.deny(ctx, caller, "wallet:"+strconv.FormatInt(walletID, 10), "GET_WALLET")
		return domain.Wallet{}, fmt.Errorf("get wallet %d: %w", walletID, domain.ErrUnauthorized)
	}

	return w, nil
}
