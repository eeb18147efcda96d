package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/talx-hub/eisc-ledger/internal/api/handlers"
	"github.com/talx-hub/eisc-ledger/internal/cache"
	"github.com/talx-hub/eisc-ledger/internal/dbmanager"
	"github.com/talx-hub/eisc-ledger/internal/events"
	"github.com/talx-hub/eisc-ledger/internal/identity"
	"github.com/talx-hub/eisc-ledger/internal/metrics"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/repo"
	"github.com/talx-hub/eisc-ledger/internal/router"
	"github.com/talx-hub/eisc-ledger/internal/service/config"
	"github.com/talx-hub/eisc-ledger/internal/syncer"
	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
	"github.com/talx-hub/eisc-ledger/internal/wallet"
)

const (
	connectTimeout    = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type accountStore interface {
	InsertTransaction(ctx context.Context, tx transaction.Transaction) error
	ReleaseTransaction(ctx context.Context, userID, transactionID string) error
	ListTransactions(ctx context.Context, userID string) ([]transaction.Transaction, error)
	CompleteMilestone(ctx context.Context,
		userID string, m milestone.Milestone, reward transaction.Transaction) error
	UpsertMilestone(ctx context.Context, userID string, m milestone.Milestone) error
	ListMilestones(ctx context.Context, userID string) ([]milestone.Milestone, error)
	CheckHealth(ctx context.Context) error
}

type postgresStore struct {
	*repo.AccountStore
	*dbmanager.DBManager
}

// Service is the wired application: HTTP API, wallet sessions and the
// persistence pipeline behind them.
type Service struct {
	log       *slog.Logger
	server    *http.Server
	syncer    *syncer.Syncer
	scheduler *wallet.Scheduler
	closers   []func()
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Service, error) {
	s := &Service{log: log}

	catalog := milestone.DefaultCatalog()
	if cfg.MilestonesFile != "" {
		c, err := milestone.LoadCatalogFile(cfg.MilestonesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load milestones: %w", err)
		}
		catalog = c
	}

	if cfg.SecretKey == "" {
		cfg.SecretKey = uuid.NewString()
		log.LogAttrs(ctx, slog.LevelWarn, "no secret key configured, sessions will not survive restart")
	}

	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid auth rate limit %q: %w", cfg.AuthRateLimit, err)
	}

	m := metrics.New()
	directory, err := identity.NewDemoDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to init identity directory: %w", err)
	}

	store, storeName, err := s.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	targets := []syncer.Target{syncer.NewStoreTarget(storeName, store)}

	walletOpts := []wallet.Option{
		wallet.WithCatalog(catalog),
		wallet.WithBonusObserver(m),
		wallet.WithLogger(log),
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s.closers = append(s.closers, func() { _ = client.Close() })
		mirror := cache.NewMirror(client, cfg.CacheTTL)
		if err = mirror.CheckHealth(ctx); err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "redis is not reachable yet",
				slog.Any(model.KeyLoggerError, err))
		}
		targets = append(targets, mirror)
		walletOpts = append(walletOpts, wallet.WithCache(mirror))
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, perr := events.NewProducer(cfg.KafkaBrokers)
		if perr != nil {
			log.LogAttrs(ctx, slog.LevelError, "ledger events are disabled",
				slog.Any(model.KeyLoggerError, perr))
		} else {
			publisher := events.NewPublisher(producer, cfg.KafkaTopic)
			s.closers = append(s.closers, func() { _ = publisher.Close() })
			targets = append(targets, publisher)
		}
	}

	s.syncer = syncer.New(syncer.Config{
		Workers:     cfg.SyncWorkers,
		QueueSize:   cfg.SyncQueueSize,
		MaxAttempts: cfg.SyncMaxAttempts,
		RetryDelay:  cfg.SyncRetryDelay,
	}, m, targets...)
	walletOpts = append(walletOpts, wallet.WithSink(s.syncer))

	manager := wallet.NewManager(directory, store, walletOpts...)
	s.scheduler = wallet.NewScheduler(manager, cfg.BonusCheckInterval)

	rr := router.New(cfg, log).
		WithMetrics(m.Handler()).
		WithRateLimit(limiter.New(memory.NewStore(), rate))
	rr.SetRouter(&struct {
		*handlers.AuthHandler
		*handlers.WalletHandler
		*handlers.HealthHandler
	}{
		AuthHandler:   handlers.NewAuthHandler(directory, cfg.SecretKey, log),
		WalletHandler: handlers.NewWalletHandler(manager, m, log),
		HealthHandler: handlers.NewHealthHandler(log, store),
	})

	s.server = &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           rr.GetRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

func (s *Service) openStore(ctx context.Context, cfg *config.Config) (accountStore, string, error) {
	if cfg.DatabaseURI == "" {
		s.log.LogAttrs(ctx, slog.LevelWarn, "no database configured, accounts are kept in memory")
		return repo.NewMemoryStore(), "memory", nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	dbManager := dbmanager.New(cfg.DatabaseURI, s.log).
		Connect(connectCtx).
		ApplyMigrations(connectCtx).
		Ping(connectCtx)
	if err := dbManager.Error(); err != nil {
		dbManager.Close()
		return nil, "", fmt.Errorf("failed to start service: db connection error: %w", err)
	}
	pool, err := dbManager.GetPool(connectCtx)
	if err != nil {
		dbManager.Close()
		return nil, "", fmt.Errorf("failed to start service: failed to get DB pool: %w", err)
	}
	s.closers = append(s.closers, dbManager.Close)

	return postgresStore{
		AccountStore: repo.NewAccountStore(pool, s.log),
		DBManager:    dbManager,
	}, "postgres", nil
}

// Run serves until ctx is done, then drains the persistence queue.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithContext(ctx, s.log)
	syncCtx, cancelSync := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelSync()

	s.syncer.Start(syncCtx)
	go s.scheduler.Run(ctx)

	serveErr := make(chan error, 1)
	go func() {
		s.log.LogAttrs(ctx, slog.LevelInfo, "listening", slog.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("listen and serve error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), model.DefaultShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "failed to shutdown http server",
			slog.Any(model.KeyLoggerError, err))
	}

	drained := make(chan struct{})
	go func() {
		s.syncer.Stop()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		s.log.LogAttrs(ctx, slog.LevelWarn, "persistence queue was not drained in time")
		cancelSync()
		<-drained
	}

	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.log.LogAttrs(ctx, slog.LevelInfo, "stopped")
	return runErr
}
