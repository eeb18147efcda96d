package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

type fakeRedis struct {
	err  error
	data map[string]string
	ttls map[string]time.Duration
	mu   sync.Mutex
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(context.Context) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	return redis.NewStatusResult("PONG", nil)
}

func TestMirror_Apply_and_Load(t *testing.T) {
	client := newFakeRedis()
	m := NewMirror(client, time.Hour)
	ctx := context.Background()

	created := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	snap := ledger.Snapshot{
		Milestones: map[string]milestone.Milestone{
			milestone.KeyRegistration: {
				CompletedAt: created,
				Key:         milestone.KeyRegistration,
				Label:       "Registro completado",
				Credits:     1,
				Completed:   true,
			},
		},
		Transactions: []transaction.Transaction{{
			CreatedAt: created,
			ID:        "tx-001",
			UserID:    "u1",
			Type:      transaction.TypeCredit,
			Status:    transaction.StatusCompleted,
			Category:  transaction.CategoryMilestone,
			Amount:    1,
		}},
	}
	require.NoError(t, m.Apply(ctx, ledger.Change{UserID: "u1", Snapshot: snap}))
	assert.Equal(t, time.Hour, client.ttls["eisc:ledger:u1"])

	got, ok, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.Transactions[0].ID, got.Transactions[0].ID)
	assert.True(t, created.Equal(got.Transactions[0].CreatedAt))
	assert.True(t, got.Milestones[milestone.KeyRegistration].Completed)
}

func TestMirror_Load(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fakeRedis)
		wantOK  bool
		wantErr bool
	}{
		{
			name:    "missing key",
			prepare: func(*fakeRedis) {},
		},
		{
			name: "redis down",
			prepare: func(f *fakeRedis) {
				f.err = errors.New("dial tcp: connection refused")
			},
			wantErr: true,
		},
		{
			name: "corrupted value",
			prepare: func(f *fakeRedis) {
				f.data[Key("u1")] = "{not json"
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeRedis()
			tt.prepare(client)

			_, ok, err := NewMirror(client, 0).Load(context.Background(), "u1")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMirror_defaults_and_health(t *testing.T) {
	client := newFakeRedis()
	m := NewMirror(client, 0)
	assert.Equal(t, DefaultTTL, m.ttl)
	assert.Equal(t, "redis", m.Name())
	assert.NoError(t, m.CheckHealth(context.Background()))

	client.err = errors.New("timeout")
	assert.Error(t, m.CheckHealth(context.Background()))
	assert.Error(t, m.Save(context.Background(), "u1", ledger.Snapshot{}))
}
