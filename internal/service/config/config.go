package config

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

type Config struct {
	RunAddr            string        `env:"RUN_ADDRESS"          envDefault:"localhost:8080"`
	DatabaseURI        string        `env:"DATABASE_URI"         envDefault:""`
	RedisAddr          string        `env:"REDIS_ADDRESS"        envDefault:""`
	RedisPassword      string        `env:"REDIS_PASSWORD"       envDefault:""`
	KafkaTopic         string        `env:"KAFKA_TOPIC"          envDefault:"eisc.ledger.changes"`
	SecretKey          string        `env:"SECRET_KEY"           envDefault:""`
	LogLevel           string        `env:"LOG_LEVEL"            envDefault:"info"`
	MilestonesFile     string        `env:"MILESTONES_FILE"      envDefault:""`
	AuthRateLimit      string        `env:"AUTH_RATE_LIMIT"      envDefault:"20-M"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS"        envSeparator:","`
	RedisDB            int           `env:"REDIS_DB"             envDefault:"0"`
	CacheTTL           time.Duration `env:"CACHE_TTL"            envDefault:"24h"`
	SyncWorkers        int           `env:"SYNC_WORKERS"         envDefault:"4"`
	SyncQueueSize      int           `env:"SYNC_QUEUE_SIZE"      envDefault:"256"`
	SyncMaxAttempts    int           `env:"SYNC_MAX_ATTEMPTS"    envDefault:"3"`
	SyncRetryDelay     time.Duration `env:"SYNC_RETRY_DELAY"     envDefault:"200ms"`
	BonusCheckInterval time.Duration `env:"BONUS_CHECK_INTERVAL" envDefault:"1h"`
}

func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

type Builder struct {
	cfg *Config
	log *slog.Logger
}

func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{
		cfg: &Config{},
		log: log,
	}
}

// FromDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func (b *Builder) FromDotEnv(files ...string) *Builder {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			b.log.LogAttrs(context.Background(),
				slog.LevelError, "Failed to load dotenv file",
				slog.String("file", f),
				slog.Any(model.KeyLoggerError, err))
		}
	}
	return b
}

func (b *Builder) FromEnv() *Builder {
	if err := env.Parse(b.cfg); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse config", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) FromFlags(args []string) *Builder {
	flags := flag.NewFlagSet("eisc", flag.ContinueOnError)
	flags.StringVar(&b.cfg.RunAddr, "a", b.cfg.RunAddr, "Run address")
	flags.StringVar(&b.cfg.DatabaseURI, "d", b.cfg.DatabaseURI, "Database URI")
	flags.StringVar(&b.cfg.SecretKey, "k", b.cfg.SecretKey, "Secret key")
	flags.StringVar(&b.cfg.LogLevel, "l", b.cfg.LogLevel, "Log level")
	flags.StringVar(&b.cfg.RedisAddr, "redis", b.cfg.RedisAddr, "Redis address")
	flags.IntVar(&b.cfg.RedisDB, "redis-db", b.cfg.RedisDB, "Redis database")
	flags.DurationVar(&b.cfg.CacheTTL, "cache-ttl", b.cfg.CacheTTL, "Cached wallet lifetime")
	flags.Func("kafka", "Comma separated Kafka brokers", func(s string) error {
		b.cfg.KafkaBrokers = splitList(s)
		return nil
	})
	flags.StringVar(&b.cfg.KafkaTopic, "kafka-topic", b.cfg.KafkaTopic, "Kafka topic")
	flags.StringVar(&b.cfg.MilestonesFile, "milestones", b.cfg.MilestonesFile, "Milestone catalog (TOML)")
	flags.StringVar(&b.cfg.AuthRateLimit, "auth-rate", b.cfg.AuthRateLimit,
		"Login and register rate per client, e.g. 20-M")
	flags.IntVar(&b.cfg.SyncWorkers, "sync-workers", b.cfg.SyncWorkers, "Persistence workers")
	flags.IntVar(&b.cfg.SyncQueueSize, "sync-queue", b.cfg.SyncQueueSize, "Persistence queue size per worker")
	flags.IntVar(&b.cfg.SyncMaxAttempts, "sync-attempts", b.cfg.SyncMaxAttempts, "Persistence attempts per change")
	flags.DurationVar(&b.cfg.SyncRetryDelay, "sync-retry", b.cfg.SyncRetryDelay, "Persistence retry step")
	flags.DurationVar(&b.cfg.BonusCheckInterval, "bonus-interval", b.cfg.BonusCheckInterval,
		"Monthly bonus check interval")

	if err := flags.Parse(args); err != nil {
		b.log.LogAttrs(context.Background(),
			slog.LevelError, "Failed to parse flags", slog.Any(model.KeyLoggerError, err))
	}
	return b
}

func (b *Builder) GetConfig() *Config {
	return b.cfg
}

func splitList(s string) []string {
	var res []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
