package dbmanager

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type DBManager struct {
	log         *slog.Logger
	Pool        *pgxpool.Pool
	err         error
	dsn         string
	IsConnected bool
}

func New(dsn string, log *slog.Logger) *DBManager {
	return &DBManager{
		log:         log,
		Pool:        nil,
		IsConnected: false,
		dsn:         dsn,
	}
}

func (m *DBManager) Connect(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}

	cfg, err := pgxpool.ParseConfig(m.dsn)
	if err != nil {
		m.log.LogAttrs(ctx,
			slog.LevelError,
			"failed to parse DSN",
			slog.Any(model.KeyLoggerError, err),
		)
		m.err = fmt.Errorf("failed to parse DSN: %w", err)
		return m
	}
	cfg.MinConns = 1
	cfg.MaxConns = 10
	cfg.ConnConfig.Tracer = &queryTracer{m.log}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		m.log.LogAttrs(ctx,
			slog.LevelError,
			"failed to init pgxpool",
			slog.Any(model.KeyLoggerError, err),
		)
		m.err = fmt.Errorf("failed to init pgxpool: %w", err)
		return m
	}

	m.Pool = pool
	return m.Ping(ctx)
}

func (m *DBManager) Ping(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}

	if err := m.CheckHealth(ctx); err != nil {
		m.log.LogAttrs(ctx,
			slog.LevelError,
			"failed to ping the DB",
			slog.Any(model.KeyLoggerError, err),
		)
		m.IsConnected = false
		m.err = err
		return m
	}

	m.IsConnected = true
	return m
}

func (m *DBManager) ApplyMigrations(ctx context.Context) *DBManager {
	if m.err != nil {
		return m
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		m.err = fmt.Errorf("failed to open embedded migrations: %w", err)
		return m
	}
	mg, err := migrate.NewWithSourceInstance("iofs", src, migrationDSN(m.dsn))
	if err != nil {
		m.err = fmt.Errorf("failed to init migrations: %w", err)
		return m
	}
	defer func() {
		srcErr, dbErr := mg.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			m.log.LogAttrs(ctx,
				slog.LevelWarn,
				"failed to close migrator",
				slog.Any(model.KeyLoggerError, err),
			)
		}
	}()

	if err = mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		m.err = fmt.Errorf("failed to apply migrations: %w", err)
		return m
	}

	m.log.LogAttrs(ctx, slog.LevelInfo, "migrations applied")
	return m
}

func (m *DBManager) GetPool(_ context.Context) (*pgxpool.Pool, error) {
	if m.Pool == nil {
		return nil, errors.New("DB pool is not initialized, call Connect first")
	}
	return m.Pool, nil
}

func (m *DBManager) CheckHealth(ctx context.Context) error {
	if m.Pool == nil {
		return errors.New("DB pool is not initialized")
	}
	if err := m.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping the DB: %w", err)
	}
	return nil
}

func (m *DBManager) Error() error {
	return m.err
}

func (m *DBManager) Close() {
	if m.Pool == nil {
		return
	}

	m.Pool.Close()
	m.log.LogAttrs(context.TODO(),
		slog.LevelInfo,
		"connection to DB closed",
	)
}

// migrationDSN switches a postgres URL to the scheme of the pgx/v5 migrate driver.
func migrationDSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
