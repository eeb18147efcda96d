package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/service"
	"github.com/talx-hub/eisc-ledger/internal/service/config"
	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
)

func main() {
	cfg := config.NewBuilder(logger.New(slog.LevelInfo)).
		FromDotEnv().
		FromEnv().
		FromFlags(os.Args[1:]).
		GetConfig()
	log := logger.New(cfg.Level())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.New(ctx, cfg, log)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelError, "failed to init service",
			slog.Any(model.KeyLoggerError, err))
		os.Exit(1)
	}
	if err = svc.Run(ctx); err != nil {
		log.LogAttrs(ctx, slog.LevelError, "service stopped with error",
			slog.Any(model.KeyLoggerError, err))
		os.Exit(1)
	}
}
