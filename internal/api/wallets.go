package api

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/walletsvc/internal/domain"
	"github.com/fastprodman/walletsvc/internal/services/wallets"
)

type createWalletRequest struct {
	CustomerID        *int64 `json:"customerId" validate:"omitempty,gt=0"`
	WalletName        string `json:"walletName" validate:"required,max=100"`
	Currency          string `json:"currency" validate:"required"`
	ActiveForShopping bool   `json:"activeForShopping"`
	ActiveForWithdraw bool   `json:"activeForWithdraw"`
}

// CreateWallet handles POST /api/wallets
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	var req createWalletRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wl, err := h.wallets.Create(r.Context(), caller, wallets.CreateRequest{
		CustomerID:        req.CustomerID,
		Name:              req.WalletName,
		Currency:          domain.Currency(req.Currency),
		ActiveForShopping: req.ActiveForShopping,
		ActiveForWithdraw: req.ActiveForWithdraw,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, newWalletView(wl))
}

// ListWallets handles GET /api/wallets?customerId=&currency=&minBalance=
func (h *Handler) ListWallets(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := wallets.ListRequest{Currency: domain.Currency(q.Get("currency"))}

	if raw := q.Get("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.writeError(w, http.StatusBadRequest, "invalid customerId")
			return
		}

		req.CustomerID = &id
	}

	if raw := q.Get("minBalance"); raw != "" {
		minBalance, err := decimal.NewFromString(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid minBalance")
			return
		}

		req.MinBalance = &minBalance
	}

	ws, err := h.wallets.List(r.Context(), caller, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]walletView, 0, len(ws))
	for _, wl := range ws {
		out = append(out, newWalletView(wl))
	}

	h.writeJSON(w, http.StatusOK, out)
}

// GetWallet handles GET /api/wallets/{walletId}
func (h *Handler) GetWallet(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.callerOrFail(w, r)
	if !ok {
		return
	}

	walletID, err := parseIDParam(r, "walletId")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	wl, err := h.wallets.Get(r.Context(), caller, walletID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, newWalletView(wl))
}
