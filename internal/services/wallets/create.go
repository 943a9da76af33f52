package wallets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
)

// Create opens a wallet with zero balances. Customers open wallets for
// themselves; employees name the owner explicitly.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req CreateRequest) (domain.Wallet, error) {
	ownerID, err := s.createOwner(caller, req.CustomerID)
	if err != nil {
		return domain.Wallet{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Wallet{}, fmt.Errorf("%w: wallet name is required", domain.ErrInvalidArgument)
	}

	currency, err := domain.ParseCurrency(string(req.Currency))
	if err != nil {
		return domain.Wallet{}, err
	}

	var created domain.Wallet

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		_, err := s.customers.Get(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("get customer %d: %w", ownerID, err)
		}

		created, err = s.wallets.Create(ctx, domain.Wallet{
			CustomerID:        ownerID,
			Name:              name,
			Currency:          currency,
			ActiveForShopping: req.ActiveForShopping,
			ActiveForWithdraw: req.ActiveForWithdraw,
			Balance:           decimal.Zero,
			UsableBalance:     decimal.Zero,
		})
		if err != nil {
			return fmt.Errorf("create wallet: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Wallet{}, fmt.Errorf("create wallet: %w", err)
	}

	s.audit.Record(ctx, audit.WalletCreated(caller, created))

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err = s.publisher.Publish(pubCtx, events.ForWallet(caller, created, s.now()))
		if err != nil {
			s.log.Error().Err(err).Int64("walletId", created.ID).Msg("publish wallet.created failed")
		}
	}

	s.log.Info().
		Int64("walletId", created.ID).
		Int64("customerId", ownerID).
		Str("currency", string(created.Currency)).
		Msg("wallet created")

	return created, nil
}

func (s *Service) createOwner(caller domain.Caller, requested *int64) (int64, error) {
	if caller.IsEmployee() {
		if requested == nil || *requested <= 0 {
			return 0, fmt.Errorf("%w: customerId is required for employees", domain.ErrInvalidArgument)
		}

		return *requested, nil
	}

	if requested != nil {
		return 0, fmt.Errorf("%w: customers cannot set customerId", domain.ErrInvalidArgument)
	}

	return caller.CustomerID, nil
}
