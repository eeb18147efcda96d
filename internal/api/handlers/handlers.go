package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/user"
	"github.com/talx-hub/eisc-ledger/internal/utils/auth"
)

type AccountDirectory interface {
	Register(ctx context.Context, email, password, displayName string) (user.Account, error)
	Authenticate(ctx context.Context, email, password string) (user.Account, error)
}

type WalletProvider interface {
	Open(ctx context.Context, userID string) (*ledger.Ledger, error)
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

type OperationObserver interface {
	ObserveOperation(operation, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveOperation(string, string) {}

func writeJSON(w http.ResponseWriter, log *slog.Logger, r *http.Request, code int, v any) {
	w.Header().Set(model.HeaderContentType, "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to encode response",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}

func setAuthCookie(w http.ResponseWriter, userID string, secret []byte) error {
	cookie, err := auth.Authenticate(userID, secret)
	if err != nil {
		return err //nolint:wrapcheck // already wrapped
	}
	http.SetCookie(w, &cookie)
	return nil
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(model.KeyContextUserID).(string)
	if !ok || userID == "" {
		return "", errors.New("failed to retrieve user id from context")
	}
	return userID, nil
}
