package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
)

const (
	keyPrefix  = "eisc:ledger:"
	DefaultTTL = 24 * time.Hour
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// Mirror keeps the latest snapshot of every account in Redis. It is read only
// when the account store cannot be reached.
type Mirror struct {
	client redisClient
	ttl    time.Duration
}

func NewMirror(client redisClient, ttl time.Duration) *Mirror {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Mirror{client: client, ttl: ttl}
}

func Key(userID string) string {
	return keyPrefix + userID
}

func (m *Mirror) Name() string {
	return "redis"
}

// Apply overwrites the cached snapshot with the one carried by the change.
func (m *Mirror) Apply(ctx context.Context, ch ledger.Change) error {
	return m.Save(ctx, ch.UserID, ch.Snapshot)
}

func (m *Mirror) Save(ctx context.Context, userID string, snap ledger.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err = m.client.Set(ctx, Key(userID), data, m.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot of %s: %w", userID, err)
	}
	return nil
}

// Load returns the cached snapshot. A missing key is reported with ok == false
// and a nil error.
func (m *Mirror) Load(ctx context.Context, userID string) (ledger.Snapshot, bool, error) {
	data, err := m.client.Get(ctx, Key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ledger.Snapshot{}, false, nil
		}
		return ledger.Snapshot{}, false, fmt.Errorf("failed to read cached snapshot of %s: %w", userID, err)
	}

	var snap ledger.Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return ledger.Snapshot{}, false, fmt.Errorf("cached snapshot of %s is corrupted: %w", userID, err)
	}
	return snap, true, nil
}

func (m *Mirror) CheckHealth(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis is unavailable: %w", err)
	}
	return nil
}
