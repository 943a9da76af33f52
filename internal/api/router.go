package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fastprodman/walletsvc/internal/repos/idempotency"
)

const requestTimeout = 30 * time.Second

// Deps is everything the router needs. Idempotency may be nil.
type Deps struct {
	Transactions   TransactionService
	Wallets        WalletService
	Auth           *Authenticator
	Idempotency    idempotency.Store
	IdempotencyTTL time.Duration
	Log            *zerolog.Logger
}

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(d Deps) http.Handler {
	logger := log.Logger.With().Str("component", "api").Logger()
	if d.Log != nil {
		logger = *d.Log
	}

	h := NewHandler(d.Transactions, d.Wallets, logger)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(d.Auth.Middleware)

		r.Route("/wallets", func(r chi.Router) {
			r.With(Idempotency(d.Idempotency, d.IdempotencyTTL, logger)).Post("/", h.CreateWallet)
			r.Get("/", h.ListWallets)
			r.Get("/{walletId}", h.GetWallet)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(Idempotency(d.Idempotency, d.IdempotencyTTL, logger))
				r.Post("/deposit", h.Deposit)
				r.Post("/withdraw", h.Withdraw)
				r.Post("/approve", h.Approve)
			})

			r.Get("/wallet/{walletId}", h.ListTransactions)
			r.Get("/pending", h.ListPending)
		})
	})

	return r
}

func accessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("requestId", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
