package pgcontainer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

const (
	pgUser     = "eisc"
	pgPassword = "eisc-secret"
	pgDatabase = "eisc"

	expireSeconds = 180
	maxWait       = 90 * time.Second
)

// PGContainer runs a disposable PostgreSQL container for integration tests.
type PGContainer struct {
	log      *slog.Logger
	pool     *dockertest.Pool
	resource *dockertest.Resource
	dsn      string
}

func New(log *slog.Logger) *PGContainer {
	return &PGContainer{log: log}
}

func (c *PGContainer) RunContainer() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("failed to construct docker pool: %w", err)
	}
	if err = pool.Client.Ping(); err != nil {
		return fmt.Errorf("failed to connect to docker: %w", err)
	}
	pool.MaxWait = maxWait
	c.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
			"listen_addresses = '*'",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}
	c.resource = resource
	if err = resource.Expire(expireSeconds); err != nil {
		c.log.LogAttrs(context.TODO(),
			slog.LevelWarn,
			"failed to set container expiration",
			slog.Any(model.KeyLoggerError, err),
		)
	}

	c.dsn = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		pgUser, pgPassword, resource.GetHostPort("5432/tcp"), pgDatabase)

	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, c.dsn)
		if err != nil {
			return err //nolint: wrapcheck // retried by dockertest
		}
		defer func() { _ = conn.Close(context.Background()) }()
		return conn.Ping(ctx) //nolint: wrapcheck // retried by dockertest
	})
	if err != nil {
		return fmt.Errorf("postgres container is not ready: %w", err)
	}

	c.log.LogAttrs(context.TODO(), slog.LevelInfo,
		"postgres container started", slog.String("container", resource.Container.Name))
	return nil
}

func (c *PGContainer) GetDSN() string {
	return c.dsn
}

func (c *PGContainer) Close() {
	if c.pool == nil || c.resource == nil {
		return
	}
	if err := c.pool.Purge(c.resource); err != nil {
		c.log.LogAttrs(context.TODO(),
			slog.LevelError,
			"failed to purge postgres container",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}
