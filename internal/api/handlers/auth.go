package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/talx-hub/eisc-ledger/internal/api/dto"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

type AuthHandler struct {
	logger    *slog.Logger
	directory AccountDirectory
	secret    string
}

func NewAuthHandler(directory AccountDirectory, secret string, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		logger:    log,
		directory: directory,
		secret:    secret,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := req.IsValid(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acct, err := h.directory.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrConflict) {
			http.Error(w, "email is already registered", http.StatusConflict)
			return
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to register account",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	if err = setAuthCookie(w, acct.ID, []byte(h.secret)); err != nil {
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to issue token",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewAccountResponse(acct))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := req.IsValid(); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	acct, err := h.directory.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, serviceerrs.ErrUnauthorized) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to authenticate",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	if err = setAuthCookie(w, acct.ID, []byte(h.secret)); err != nil {
		h.logger.LogAttrs(r.Context(),
			slog.LevelError,
			"failed to issue token",
			slog.Any(model.KeyLoggerError, err),
		)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, r, http.StatusOK, dto.NewAccountResponse(acct))
}
