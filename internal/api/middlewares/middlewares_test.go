package middlewares

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/utils/auth"
	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
)

var secret = []byte("super-secret-key")

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := r.Context().Value(model.KeyContextUserID).(string)
	w.Header().Set("X-User", id)
	w.WriteHeader(http.StatusTeapot)
}

func TestAuthentication(t *testing.T) {
	valid, err := auth.Authenticate("demo-user-001", secret)
	require.NoError(t, err)

	tests := []struct {
		cookie   *http.Cookie
		name     string
		wantUser string
		wantCode int
	}{
		{name: "no cookie", wantCode: http.StatusUnauthorized},
		{
			name:     "bad token",
			cookie:   &http.Cookie{Name: auth.CookieName, Value: "garbage"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "valid token",
			cookie:   &valid,
			wantUser: "demo-user-001",
			wantCode: http.StatusTeapot,
		},
	}
	h := Authentication(secret, slog.Default())(http.HandlerFunc(echoUser))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/wallet/balance", http.NoBody)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantUser, rr.Header().Get("X-User"))
		})
	}
}

func TestLogging_puts_logger_into_context(t *testing.T) {
	log := slog.Default().With("test", true)
	var got *slog.Logger
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", http.NoBody))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, got)
	assert.NotSame(t, slog.Default(), got)
}

func TestRateLimit(t *testing.T) {
	rate, err := limiter.NewRateFromFormatted("2-M")
	require.NoError(t, err)
	h := RateLimit(limiter.New(memory.NewStore(), rate), slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	codes := make([]int, 0, 3)
	for range 3 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/user/login", http.NoBody))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/user/login", http.NoBody)
	other.RemoteAddr = "198.51.100.7:4242"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusOK, rr.Code)
}
