package dbmanager

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

type queryTracer struct {
	log *slog.Logger
}

func (t *queryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	t.log.LogAttrs(ctx,
		slog.LevelDebug,
		"running query",
		slog.String("query", data.SQL),
		slog.Any("args", data.Args),
	)
	return ctx
}

func (t *queryTracer) TraceQueryEnd(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	if data.Err != nil {
		t.log.LogAttrs(ctx,
			slog.LevelDebug,
			"query failed",
			slog.String("command", data.CommandTag.String()),
			slog.Any(model.KeyLoggerError, data.Err),
		)
	}
}
