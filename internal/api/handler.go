package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/services/txengine"
	"github.com/fastprodman/walletsvc/internal/services/wallets"
)

// TransactionService is the part of the transaction engine the API exposes.
type TransactionService interface {
	Deposit(ctx context.Context, caller domain.Caller, req txengine.DepositRequest) (domain.Transaction, error)
	Withdraw(ctx context.Context, caller domain.Caller, req txengine.WithdrawRequest) (domain.Transaction, error)
	ListTransactions(ctx context.Context, caller domain.Caller, walletID int64) ([]domain.Transaction, error)
	ListPendingTransactions(ctx context.Context, caller domain.Caller) ([]domain.Transaction, error)
	ApproveTransaction(ctx context.Context, caller domain.Caller, req txengine.ApprovalRequest) (domain.Transaction, error)
}

type WalletService interface {
	Create(ctx context.Context, caller domain.Caller, req wallets.CreateRequest) (domain.Wallet, error)
	List(ctx context.Context, caller domain.Caller, req wallets.ListRequest) ([]domain.Wallet, error)
	Get(ctx context.Context, caller domain.Caller, walletID int64) (domain.Wallet, error)
}

// Handler exposes the wallet and transaction services over HTTP.
type Handler struct {
	txns    TransactionService
	wallets WalletService
	log     zerolog.Logger
}

func NewHandler(txns TransactionService, ws WalletService, log zerolog.Logger) *Handler {
	return &Handler{txns: txns, wallets: ws, log: log}
}

// --- Helpers ---

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps error kinds to status codes. Internal failures are
// logged and answered with a generic message.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().
			Err(err).
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")

		h.writeError(w, status, "internal error")
		return
	}

	h.writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInternal):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrWalletNotActive),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody limits the body to 1MB and rejects unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}

		return errors.New("invalid JSON")
	}

	err = validate.Struct(dst)
	if err != nil {
		return validationMessage(err)
	}

	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}

	return id, nil
}

// callerOrFail writes 401 when the route was mounted without authentication.
func (h *Handler) callerOrFail(w http.ResponseWriter, r *http.Request) (domain.Caller, bool) {
	caller, ok := CallerFrom(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthenticated")
		return domain.Caller{}, false
	}

	return caller, true
}
