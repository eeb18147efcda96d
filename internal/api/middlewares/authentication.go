package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
	"github.com/talx-hub/eisc-ledger/internal/utils/auth"
)

func Authentication(secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authFunc := func(w http.ResponseWriter, r *http.Request) {
			jwtCookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				log.LogAttrs(r.Context(),
					slog.LevelInfo,
					"failed to find token in request",
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			claims, err := auth.CheckToken(jwtCookie.Value, secret)
			if err != nil {
				level := slog.LevelWarn
				if errors.Is(err, serviceerrs.ErrTokenExpired) {
					level = slog.LevelInfo
				}
				log.LogAttrs(r.Context(),
					level,
					"authentication failed",
					slog.Any(model.KeyLoggerError, err),
				)
				http.Error(w, "authentication failed", http.StatusUnauthorized)
				return
			}

			idCtx := context.WithValue(
				r.Context(), model.KeyContextUserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(idCtx))
		}
		return http.HandlerFunc(authFunc)
	}
}
