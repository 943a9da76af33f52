package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fastprodman/walletsvc/internal/api"
	"github.com/fastprodman/walletsvc/internal/audit"
	"github.com/fastprodman/walletsvc/internal/infra/logging"
	"github.com/fastprodman/walletsvc/internal/infra/pgutils"
	customerspg "github.com/fastprodman/walletsvc/internal/repos/customers/postgres"
	transactionspg "github.com/fastprodman/walletsvc/internal/repos/transactions/postgres"
	walletspg "github.com/fastprodman/walletsvc/internal/repos/wallets/postgres"
	"github.com/fastprodman/walletsvc/internal/services/txengine"
	"github.com/fastprodman/walletsvc/internal/services/wallets"
	"github.com/fastprodman/walletsvc/pkg/envconf"
	"github.com/fastprodman/walletsvc/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	envErr := godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("init config: JWT_SECRET is empty")
	}

	logging.SetupJSON(cfg.LogLevel)

	if envErr != nil {
		log.Warn().Err(envErr).Msg(".env not loaded")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.AddCloser("postgres", db.Close)

	idem, err := openIdempotency(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("open idempotency store: %w", err)
	}

	sinks, err := openAuditSinks(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("open audit sinks: %w", err)
	}

	publisher, err := openPublisher(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("open event publisher: %w", err)
	}

	// --- Services ---
	auditLog := audit.New(logging.Component("audit"), sinks)
	uow := pgutils.NewTxManager(db)
	walletRepo := walletspg.New(db)

	engine := txengine.New(uow, walletRepo, transactionspg.New(db),
		txengine.WithAudit(auditLog),
		txengine.WithPublisher(publisher),
		txengine.WithLogger(logging.Component("txengine")),
	)

	walletSvc := wallets.New(uow, walletRepo, customerspg.New(db),
		wallets.WithAudit(auditLog),
		wallets.WithPublisher(publisher),
		wallets.WithLogger(logging.Component("wallets")),
	)

	// --- HTTP server ---
	apiLog := logging.Component("api")

	srv := api.NewServer(cfg.Port, api.Deps{
		Transactions:   engine,
		Wallets:        walletSvc,
		Auth:           api.NewAuthenticator([]byte(cfg.Auth.JWTSecret), auditLog),
		Idempotency:    idem,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Log:            &apiLog,
	})

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		log.Info().Msg("shutting down http server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	log.Info().Uint16("port", cfg.Port).Msg("API started")

	select {
	case <-ctx.Done():
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
