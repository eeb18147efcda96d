package middlewares

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

func RateLimit(l *limiter.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := l.GetIPKey(r)
			lctx, err := l.Get(r.Context(), key)
			if err != nil {
				log.LogAttrs(r.Context(), slog.LevelError, "rate limit check failed",
					slog.String("client", key),
					slog.Any(model.KeyLoggerError, err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			if lctx.Reached {
				log.LogAttrs(r.Context(), slog.LevelWarn, "rate limit exceeded",
					slog.String("client", key),
					slog.Int64("limit", lctx.Limit))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
