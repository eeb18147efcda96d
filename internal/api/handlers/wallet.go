package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/talx-hub/eisc-ledger/internal/api/dto"
	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/metrics"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

const (
	opPurchase          = "purchase"
	opRelease           = "release"
	opPayment           = "payment"
	opCompleteMilestone = "complete_milestone"
)

type WalletHandler struct {
	logger   *slog.Logger
	wallets  WalletProvider
	observer OperationObserver
}

func NewWalletHandler(wallets WalletProvider, observer OperationObserver, log *slog.Logger) *WalletHandler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &WalletHandler{
		logger:   log,
		wallets:  wallets,
		observer: observer,
	}
}

// open resolves the ledger of the authenticated user. It writes the error
// response itself and returns nil on failure.
func (h *WalletHandler) open(w http.ResponseWriter, r *http.Request) *ledger.Ledger {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		h.logger.LogAttrs(r.Context(), slog.LevelError, err.Error())
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil
	}

	l, err := h.wallets.Open(r.Context(), userID)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrNotFound) {
			http.Error(w, "account not found", http.StatusUnauthorized)
			return nil
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to open wallet",
			slog.String("user_id", userID),
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return l
}

func (h *WalletHandler) observe(operation string, err error) {
	switch {
	case err == nil:
		h.observer.ObserveOperation(operation, metrics.OutcomeOK)
	case errors.Is(err, serviceerrs.ErrInsufficientFunds),
		errors.Is(err, serviceerrs.ErrInvalidAmount),
		errors.Is(err, serviceerrs.ErrNotFound):
		h.observer.ObserveOperation(operation, metrics.OutcomeRejected)
	default:
		h.observer.ObserveOperation(operation, metrics.OutcomeError)
	}
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	l := h.open(w, r)
	if l == nil {
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewBalanceResponse(l.Balance()))
}

func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	filter, ok := transaction.ParseFilter(r.URL.Query().Get("filter"))
	if !ok {
		http.Error(w, "unknown filter", http.StatusBadRequest)
		return
	}
	l := h.open(w, r)
	if l == nil {
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewTransactionResponses(l.Transactions(filter)))
}

func (h *WalletHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := req.IsValid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l := h.open(w, r)
	if l == nil {
		return
	}

	id, err := l.Purchase(r.Context(), req.ToLedger())
	h.observe(opPurchase, err)
	switch {
	case err == nil:
		writeJSON(w, h.logger, r, http.StatusCreated, dto.TransactionCreatedResponse{TransactionID: id})
	case errors.Is(err, serviceerrs.ErrInsufficientFunds):
		http.Error(w, serviceerrs.ErrInsufficientFunds.Error(), http.StatusPaymentRequired)
	case errors.Is(err, serviceerrs.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to purchase",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *WalletHandler) ReleaseEscrow(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "id")
	l := h.open(w, r)
	if l == nil {
		return
	}

	err := l.ReleaseEscrow(r.Context(), transactionID)
	h.observe(opRelease, err)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrNotFound) {
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to release escrow",
			slog.String("transaction_id", transactionID),
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewBalanceResponse(l.Balance()))
}

func (h *WalletHandler) ReceivePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := req.IsValid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	l := h.open(w, r)
	if l == nil {
		return
	}

	id, err := l.ReceivePayment(r.Context(), req.ToLedger())
	h.observe(opPayment, err)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrInvalidAmount) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to receive payment",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, r, http.StatusCreated, dto.TransactionCreatedResponse{TransactionID: id})
}

func (h *WalletHandler) GetMilestones(w http.ResponseWriter, r *http.Request) {
	l := h.open(w, r)
	if l == nil {
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewMilestoneResponses(l.Milestones()))
}

func (h *WalletHandler) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	l := h.open(w, r)
	if l == nil {
		return
	}

	err := l.CompleteMilestone(r.Context(), key)
	h.observe(opCompleteMilestone, err)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrNotFound) {
			http.Error(w, "milestone not found", http.StatusNotFound)
			return
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to complete milestone",
			slog.String("key", key),
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewMilestoneResponses(l.Milestones()))
}
