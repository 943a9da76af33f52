// Package txengine moves money in and out of wallets. Every operation runs
// in one unit of work and locks the target wallet before touching its
// balances. Amounts at or above ApprovalThreshold stay PENDING until an
// employee approves or denies them.
package txengine

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/events"
	"github.com/fastprodman/walletsvc/internal/repos/transactions"
	"github.com/fastprodman/walletsvc/internal/repos/wallets"
)

// ApprovalThreshold is inclusive: an amount equal to it needs approval.
var ApprovalThreshold = decimal.NewFromInt(1000)

type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Engine struct {
	uow     UnitOfWork
	wallets wallets.Wallets
	txns    transactions.Transactions

	audit     *audit.Logger
	publisher events.Publisher
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Engine)

func WithAudit(l *audit.Logger) Option {
	return func(e *Engine) { e.audit = l }
}

// WithPublisher enables post-commit domain events. A nil publisher disables them.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

func New(uow UnitOfWork, w wallets.Wallets, t transactions.Transactions, opts ...Option) *Engine {
	e := &Engine{
		uow:     uow,
		wallets: w,
		txns:    t,
		now:     time.Now,
		log:     log.Logger.With().Str("component", "txengine").Logger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// timestamp is truncated to what the database stores.
func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Microsecond)
}

func requiresApproval(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(ApprovalThreshold)
}

// outbox collects side effects that must only happen once the unit of work
// has committed.
type outbox struct {
	audits   []audit.Event
	messages []events.Message
}

func (e *Engine) flush(ctx context.Context, ob *outbox) {
	for _, ev := range ob.audits {
		e.audit.Record(ctx, ev)
	}

	if e.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	for _, msg := range ob.messages {
		err := e.publisher.Publish(pubCtx, msg)
		if err != nil {
			e.log.Error().Err(err).Str("routingKey", msg.RoutingKey).Msg("publish event failed")
		}
	}
}

// deny records a refused attempt right away; the surrounding unit of work
// is about to roll back.
func (e *Engine) deny(ctx context.Context, caller domain.Caller, resource, action string) {
	e.log.Warn().
		Int64("customerId", caller.CustomerID).
		Str("role", string(caller.Role)).
		Str("resource", resource).
		Str("action", action).
		Msg("access denied")

	e.audit.Record(ctx, audit.Denied(caller, resource, action))
}
