package handlers

import (
	"log/slog"
	"net/http"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

type HealthHandler struct {
	logger   *slog.Logger
	checkers []HealthChecker
}

func NewHealthHandler(log *slog.Logger, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		logger:   log,
		checkers: checkers,
	}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	for _, c := range h.checkers {
		if err := c.CheckHealth(r.Context()); err != nil {
			h.logger.LogAttrs(r.Context(),
				slog.LevelError,
				"health check failed",
				slog.Any(model.KeyLoggerError, err),
			)
			http.Error(w, "storage is unavailable", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}
