package wallets

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
	"github.com/fastprodman/walletsvc/internal/repos/customers"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type CreateRequest struct {
	// CustomerID must be set by employees and left nil by customers.
	CustomerID        *int64
	Name              string
	Currency          domain.Currency
	ActiveForShopping bool
	ActiveForWithdraw bool
}

type ListRequest struct {
	CustomerID *int64
	Currency   domain.Currency
	MinBalance *decimal.Decimal
}

type Service struct {
	uow       UnitOfWork
	wallets   wallets.Wallets
	customers customers.Customers

	audit     *audit.Logger
	publisher events.Publisher
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Service)

func WithAudit(l *audit.Logger) Option {
	return func(s *Service) { s.audit = l }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(uow UnitOfWork, w wallets.Wallets, c customers.Customers, opts ...Option) *Service {
	s := &Service{
		uow:       uow,
		wallets:   w,
		customers: c,
		now:       time.Now,
		log:       log.Logger.With().Str("component", "wallets").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) deny(ctx context.Context, caller domain.Caller, resource, action string) {
	s.log.Warn().
		Int64("customerId", caller.CustomerID).
		Str("resource", resource).
		Str("action", action).
		Msg("access denied")

	s.audit.Record(ctx, audit.Denied(caller, resource, action))
}
