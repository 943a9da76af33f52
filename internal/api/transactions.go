package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/services/txengine"
)

type depositRequest struct {
	WalletID          int64           `json:"walletId" validate:"required,gt=0"`
	Amount            decimal.Decimal `json:"amount" validate:"money"`
	Source            string          `json:"source" validate:"required,max=255"`
	OppositePartyType string          `json:"oppositePartyType" validate:"required"`
}

type withdrawRequest struct {
	WalletID          int64           `json:"walletId" validate:"required,gt=0"`
	Amount            decimal.Decimal `json:"amount" validate:"money"`
	Destination       string          `json:"destination" validate:"required,max=255"`
	OppositePartyType string          `json:"oppositePartyType" validate:"required"`
}

type approveRequest struct {
	TransactionID int64  `json:"transactionId" validate:"required,gt=0"`
	Status        string `json:"status" validate:"required"`
}

// Deposit handles POST /api/transactions/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	var req depositRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.txns.Deposit(r.Context(), caller, txengine.DepositRequest{
		WalletID:          req.WalletID,
		Amount:            req.Amount,
		Source:            req.Source,
		OppositePartyType: domain.OppositePartyType(req.OppositePartyType),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newTransactionView(t))
}

// Withdraw handles POST /api/transactions/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	var req withdrawRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.txns.Withdraw(r.Context(), caller, txengine.WithdrawRequest{
		WalletID:          req.WalletID,
		Amount:            req.Amount,
		Destination:       req.Destination,
		OppositePartyType: domain.OppositePartyType(req.OppositePartyType),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newTransactionView(t))
}

// ListTransactions handles GET /api/transactions/wallet/{walletId}
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	walletID, err := parseIDParam(r, "walletId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ts, err := h.txns.ListTransactions(r.Context(), caller, walletID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionViews(ts))
}

// ListPending handles GET /api/transactions/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	ts, err := h.txns.ListPendingTransactions(r.Context(), caller)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionViews(ts))
}

// Approve handles POST /api/transactions/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	var req approveRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.txns.ApproveTransaction(r.Context(), caller, txengine.ApprovalRequest{
		TransactionID: req.TransactionID,
		Status:        domain.TransactionStatus(req.Status),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newTransactionView(t))
}
