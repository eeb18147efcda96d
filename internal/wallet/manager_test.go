package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/eisc-ledger/internal/identity"
	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/model/user"
	"github.com/talx-hub/eisc-ledger/internal/repo"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
	"github.com/talx-hub/eisc-ledger/internal/syncer"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type brokenStore struct{}

func (brokenStore) ListTransactions(context.Context, string) ([]transaction.Transaction, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) ListMilestones(context.Context, string) ([]milestone.Milestone, error) {
	return nil, errors.New("connection refused")
}

type mapCache struct {
	err   error
	snaps map[string]ledger.Snapshot
}

func (c mapCache) Load(_ context.Context, userID string) (ledger.Snapshot, bool, error) {
	if c.err != nil {
		return ledger.Snapshot{}, false, c.err
	}
	s, ok := c.snaps[userID]
	return s, ok, nil
}

type bonusCounter struct {
	n  int
	mu sync.Mutex
}

func (b *bonusCounter) BonusAwarded() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.n++
}

func (b *bonusCounter) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

type fixture struct {
	directory *identity.Directory
	clock     *testClock
	bonus     *bonusCounter
	changes   []ledger.Change
	mu        sync.Mutex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	d, err := identity.NewDemoDirectory()
	require.NoError(t, err)
	return &fixture{
		directory: d,
		clock:     &testClock{now: testNow},
		bonus:     &bonusCounter{},
	}
}

func (f *fixture) manager(store AccountStore, opts ...Option) *Manager {
	base := []Option{
		WithClock(f.clock.Now),
		WithBonusObserver(f.bonus),
		WithSink(ledger.SinkFunc(func(_ context.Context, ch ledger.Change) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.changes = append(f.changes, ch)
		})),
	}
	return NewManager(f.directory, store, append(base, opts...)...)
}

func (f *fixture) register(t *testing.T, email string) user.Account {
	t.Helper()

	a, err := f.directory.Register(context.Background(), email, "very-strong-password", "")
	require.NoError(t, err)
	return a
}

func TestManager_Open_demo_account(t *testing.T) {
	f := newFixture(t)
	m := f.manager(repo.NewMemoryStore())

	l, err := m.Open(context.Background(), identity.DemoUserID)
	require.NoError(t, err)

	b := l.Balance()
	assert.Equal(t, model.Credits(0), b.Available, "demo history is -1, plus the monthly bonus")
	assert.Equal(t, model.Credits(8), b.InEscrow)
	assert.Equal(t, model.Credits(11), b.TotalEarned)
	assert.Equal(t, model.Credits(3), b.TotalSpent)
	assert.Equal(t, 1, f.bonus.count())

	ms := l.Milestones()
	assert.True(t, ms[milestone.KeyRegistration].Completed)
	assert.True(t, ms[milestone.KeyPortfolio].Completed)
	assert.True(t, ms[milestone.KeyIdentity].Completed)
	assert.False(t, ms[milestone.KeyFirstSale].Completed)

	again, err := m.Open(context.Background(), identity.DemoUserID)
	require.NoError(t, err)
	assert.Same(t, l, again)
	assert.Equal(t, 1, f.bonus.count())
}

func TestManager_demo_history_survives_restart(t *testing.T) {
	f := newFixture(t)
	store := repo.NewMemoryStore()
	ctx := context.Background()

	run := func(t *testing.T, use func(l *ledger.Ledger)) {
		t.Helper()
		s := syncer.New(syncer.Config{Workers: 1, RetryDelay: time.Millisecond}, nil,
			syncer.NewStoreTarget("memory", store))
		s.Start(ctx)
		l, err := f.manager(store, WithSink(s)).Open(ctx, identity.DemoUserID)
		require.NoError(t, err)
		use(l)
		s.Stop()
	}

	var before ledger.Balance
	run(t, func(l *ledger.Ledger) {
		require.NoError(t, l.ReleaseEscrow(ctx, "tx-004"))
		before = l.Balance()
	})
	assert.Equal(t, model.Credits(0), before.InEscrow)
	assert.Equal(t, model.Credits(11), before.TotalSpent)

	run(t, func(l *ledger.Ledger) {
		assert.Equal(t, before, l.Balance())
		assert.Len(t, l.Snapshot().Transactions, 7, "six demo rows and one monthly bonus")
		ms := l.Milestones()
		assert.True(t, ms[milestone.KeyPortfolio].Completed)
		assert.True(t, ms[milestone.KeyIdentity].Completed)

		require.NoError(t, l.CompleteMilestone(ctx, milestone.KeyIdentity))
		assert.Equal(t, before, l.Balance(), "identity reward is paid once")
	})
	assert.Equal(t, 1, f.bonus.count())
}

func TestManager_Open_new_account(t *testing.T) {
	f := newFixture(t)
	m := f.manager(repo.NewMemoryStore())
	ctx := context.Background()
	acct := f.register(t, "ana@eisc.io")

	l, err := m.Open(ctx, acct.ID)
	require.NoError(t, err)

	b := l.Balance()
	assert.Equal(t, model.Credits(2), b.Available, "registration milestone plus monthly bonus")
	assert.True(t, l.Milestones()[milestone.KeyRegistration].Completed)

	stored, err := f.directory.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsNew)

	kinds := make([]ledger.ChangeKind, 0, len(f.changes))
	for _, ch := range f.changes {
		kinds = append(kinds, ch.Kind)
	}
	assert.Equal(t, []ledger.ChangeKind{ledger.ChangeMilestone, ledger.ChangeAppend}, kinds)
}

func TestManager_Open_prefers_store(t *testing.T) {
	f := newFixture(t)
	store := repo.NewMemoryStore()
	ctx := context.Background()
	acct := f.register(t, "roberto@eisc.io")
	require.NoError(t, f.directory.ClearNew(ctx, acct.ID))

	older := transaction.Transaction{
		CreatedAt: testNow.Add(-48 * time.Hour), ID: "stored-1", UserID: acct.ID,
		Type: transaction.TypeCredit, Status: transaction.StatusCompleted,
		Category: transaction.CategoryMonthlyBonus, Amount: 1,
	}
	newer := transaction.Transaction{
		CreatedAt: testNow.Add(-time.Hour), ID: "stored-2", UserID: acct.ID,
		Type: transaction.TypeDebit, Status: transaction.StatusEscrow,
		Category: transaction.CategoryServicePurchase, Amount: 4,
	}
	require.NoError(t, store.InsertTransaction(ctx, newer))
	require.NoError(t, store.InsertTransaction(ctx, older))
	require.NoError(t, store.UpsertMilestone(ctx, acct.ID, milestone.Milestone{
		Key: milestone.KeyPortfolio, Completed: true, CompletedAt: testNow.Add(-72 * time.Hour),
	}))

	cached := ledger.Snapshot{Transactions: []transaction.Transaction{{ID: "cached", Amount: 9}}}
	m := f.manager(store, WithCache(mapCache{snaps: map[string]ledger.Snapshot{acct.ID: cached}}))

	l, err := m.Open(ctx, acct.ID)
	require.NoError(t, err)

	snap := l.Snapshot()
	require.Len(t, snap.Transactions, 2)
	assert.Equal(t, "stored-1", snap.Transactions[0].ID, "ledger keeps oldest first")
	assert.Equal(t, model.Credits(-3), l.Balance().Available)
	assert.True(t, snap.Milestones[milestone.KeyPortfolio].Completed)
	assert.Equal(t, "Portafolio subido", snap.Milestones[milestone.KeyPortfolio].Label)
	assert.Zero(t, f.bonus.count(), "bonus granted two days ago")
}

func TestManager_Open_fallbacks(t *testing.T) {
	cached := ledger.Snapshot{
		Transactions: []transaction.Transaction{{
			CreatedAt: testNow.Add(-time.Hour), ID: "cached-1",
			Type: transaction.TypeCredit, Status: transaction.StatusCompleted,
			Category: transaction.CategoryMonthlyBonus, Amount: 1,
		}},
	}
	tests := []struct {
		cache       SnapshotCache
		name        string
		userID      string
		wantIDs     []string
		wantAvail   model.Credits
		wantBonuses int
	}{
		{
			name:        "cache hit",
			userID:      identity.DemoUserID,
			cache:       mapCache{snaps: map[string]ledger.Snapshot{identity.DemoUserID: cached}},
			wantIDs:     []string{"cached-1"},
			wantAvail:   1,
			wantBonuses: 0,
		},
		{
			name:        "cache failure falls back to demo",
			userID:      identity.DemoUserID,
			cache:       mapCache{err: errors.New("redis down")},
			wantIDs:     []string{"tx-001", "tx-002", "tx-003", "tx-004", "tx-005", "tx-006"},
			wantAvail:   0,
			wantBonuses: 1,
		},
		{
			name:        "no cache",
			userID:      identity.DemoUserID,
			wantIDs:     []string{"tx-001", "tx-002", "tx-003", "tx-004", "tx-005", "tx-006"},
			wantAvail:   0,
			wantBonuses: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			var opts []Option
			if tt.cache != nil {
				opts = append(opts, WithCache(tt.cache))
			}
			m := f.manager(brokenStore{}, opts...)

			l, err := m.Open(context.Background(), tt.userID)
			require.NoError(t, err)

			txs := l.Snapshot().Transactions
			ids := make([]string, 0, len(txs))
			for _, tx := range txs {
				if tx.Category != transaction.CategoryMonthlyBonus || tx.ID == "cached-1" {
					ids = append(ids, tx.ID)
				}
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantAvail, l.Balance().Available)
			assert.Equal(t, tt.wantBonuses, f.bonus.count())
			assert.Len(t, l.Milestones(), len(milestone.DefaultCatalog().Keys()))
		})
	}
}

func TestManager_Open_unknown_account(t *testing.T) {
	f := newFixture(t)
	m := f.manager(repo.NewMemoryStore())

	_, err := m.Open(context.Background(), "ghost")
	assert.ErrorIs(t, err, serviceerrs.ErrNotFound)
	assert.Empty(t, m.Ledgers())
}

func TestManager_Open_concurrent(t *testing.T) {
	f := newFixture(t)
	m := f.manager(repo.NewMemoryStore())

	const n = 16
	got := make([]*ledger.Ledger, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := m.Open(context.Background(), identity.DemoUserID)
			assert.NoError(t, err)
			got[i] = l
		}()
	}
	wg.Wait()

	for _, l := range got {
		assert.Same(t, got[0], l)
	}
	assert.Len(t, m.Ledgers(), 1)
}

func TestScheduler_Tick(t *testing.T) {
	f := newFixture(t)
	m := f.manager(repo.NewMemoryStore())
	ctx := context.Background()

	_, err := m.Open(ctx, identity.DemoUserID)
	require.NoError(t, err)
	acct := f.register(t, "maria@eisc.io")
	_, err = m.Open(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, 2, f.bonus.count())

	s := NewScheduler(m, 0)
	assert.Equal(t, DefaultBonusCheckInterval, s.interval)
	assert.Zero(t, s.Tick(ctx))

	f.clock.Advance(ledger.MonthlyBonusWindow - time.Second)
	assert.Zero(t, s.Tick(ctx))

	f.clock.Advance(time.Second)
	assert.Equal(t, 2, s.Tick(ctx))
	assert.Zero(t, s.Tick(ctx))
	assert.Equal(t, 4, f.bonus.count())
}

func TestScheduler_Run_stops_on_cancel(t *testing.T) {
	f := newFixture(t)
	s := NewScheduler(f.manager(repo.NewMemoryStore()), time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
