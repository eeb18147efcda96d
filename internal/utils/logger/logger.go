package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

const keyModule = "module"

func New(logLevel slog.Level) *slog.Logger {
	return slog.New(
		slog.NewTextHandler(
			os.Stdout,
			&slog.HandlerOptions{Level: logLevel},
		))
}

func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	ctxWithLogger := context.WithValue(ctx, model.KeyContextLogger, log)
	return ctxWithLogger
}

func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(model.KeyContextLogger).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// ForModule returns the context logger tagged with the module name.
func ForModule(ctx context.Context, name string) *slog.Logger {
	return FromContext(ctx).With(keyModule, name)
}

// ForUser tags log with the acting user.
func ForUser(log *slog.Logger, userID string) *slog.Logger {
	return log.With(slog.String("user_id", userID))
}
