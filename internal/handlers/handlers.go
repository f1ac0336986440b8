package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/CesarGorge/mini-wallet-api/internal/etherscan"
	"github.com/CesarGorge/mini-wallet-api/internal/httputil"
	"github.com/CesarGorge/mini-wallet-api/internal/logger"
	"github.com/CesarGorge/mini-wallet-api/internal/models"
	"github.com/CesarGorge/mini-wallet-api/internal/store"
	"github.com/CesarGorge/mini-wallet-api/internal/token"
)

// Handlers holds the service dependencies each route needs. The store
// connects lazily on first use, so constructing Handlers touches nothing.
type Handlers struct {
	store   *store.Store
	tokens  *token.Service
	balance *etherscan.Client
}

func New(s *store.Store, tokens *token.Service, balance *etherscan.Client) *Handlers {
	return &Handlers{store: s, tokens: tokens, balance: balance}
}

type LoginRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login issues a bearer token for a self-asserted identity. There is no
// credential check and no user registry.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	signed, err := h.tokens.Issue(req.UserID, req.Email)
	if err != nil {
		if errors.Is(err, token.ErrMissingFields) {
			httputil.WriteError(w, http.StatusBadRequest, "userId and email are required")
			return
		}
		logger.Log.Error("failed to sign token", zap.Error(err))
		httputil.WriteInternalError(w, "failed to create token", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, LoginResponse{Token: signed})
}

type CreateTransactionRequest struct {
	UserID   string   `json:"userId"`
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	Status   string   `json:"status"`
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UserID == "" || req.Amount == nil || req.Currency == "" {
		httputil.WriteError(w, http.StatusBadRequest, "userId, amount and currency are required")
		return
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		httputil.WriteError(w, http.StatusBadRequest, "status must be pending, completed or failed")
		return
	}

	tx, err := h.store.Create(r.Context(), req.UserID, *req.Amount, req.Currency, req.Status)
	if err != nil {
		if errors.Is(err, store.ErrMissingFields) {
			httputil.WriteError(w, http.StatusBadRequest, "userId, amount and currency are required")
			return
		}
		logger.Log.Error("failed to create transaction", zap.Error(err))
		httputil.WriteInternalError(w, "internal server error", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, tx)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "txId")

	tx, err := h.store.GetByTxID(r.Context(), txID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		logger.Log.Error("failed to fetch transaction", zap.Error(err), zap.String("txId", txID))
		httputil.WriteInternalError(w, "internal server error", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "userId query parameter is required")
		return
	}

	txs, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Log.Error("failed to list transactions", zap.Error(err), zap.String("userId", userID))
		httputil.WriteInternalError(w, "internal server error", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, txs)
}

type UpdateTransactionRequest struct {
	Amount *float64 `json:"amount"`
	Status *string  `json:"status"`
}

// UpdateTransaction merges only the supplied fields; absent fields are left
// untouched.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "txId")

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != nil && !models.ValidStatus(*req.Status) {
		httputil.WriteError(w, http.StatusBadRequest, "status must be pending, completed or failed")
		return
	}

	tx, err := h.store.Update(r.Context(), txID, store.UpdateFields{
		Amount: req.Amount,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		logger.Log.Error("failed to update transaction", zap.Error(err), zap.String("txId", txID))
		httputil.WriteInternalError(w, "internal server error", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, tx)
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "txId")

	if err := h.store.Delete(r.Context(), txID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "transaction not found")
			return
		}
		logger.Log.Error("failed to delete transaction", zap.Error(err), zap.String("txId", txID))
		httputil.WriteInternalError(w, "internal server error", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type BalanceResponse struct {
	WalletAddress string  `json:"walletAddress"`
	Currency      string  `json:"currency"`
	Balance       float64 `json:"balance"`
}

type upstreamErrorResponse struct {
	Message string `json:"message"`
	Result  string `json:"result"`
}

// Balance proxies a single balance lookup to the explorer API. An error the
// explorer reports is passed through as a 400 with its message and result
// verbatim; a transport failure is a 500.
func (h *Handlers) Balance(w http.ResponseWriter, r *http.Request) {
	walletAddress := chi.URLParam(r, "walletAddress")

	bal, err := h.balance.TokenBalance(r.Context(), walletAddress)
	if err != nil {
		var upErr *etherscan.UpstreamError
		if errors.As(err, &upErr) && upErr.Reported() {
			httputil.WriteJSON(w, http.StatusBadRequest, upstreamErrorResponse{
				Message: upErr.Message,
				Result:  upErr.Result,
			})
			return
		}
		logger.Log.Error("balance lookup failed", zap.Error(err), zap.String("walletAddress", walletAddress))
		httputil.WriteInternalError(w, "failed to fetch balance from upstream", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{
		WalletAddress: walletAddress,
		Currency:      models.DefaultCurrency,
		Balance:       bal.InexactFloat64(),
	})
}
