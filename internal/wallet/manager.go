package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/talx-hub/eisc-ledger/internal/identity"
	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/model/user"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

type AccountDirectory interface {
	FindByID(ctx context.Context, id string) (user.Account, error)
	ClearNew(ctx context.Context, id string) error
}

type AccountStore interface {
	ListTransactions(ctx context.Context, userID string) ([]transaction.Transaction, error)
	ListMilestones(ctx context.Context, userID string) ([]milestone.Milestone, error)
}

type SnapshotCache interface {
	Load(ctx context.Context, userID string) (ledger.Snapshot, bool, error)
}

type BonusObserver interface {
	BonusAwarded()
}

type nopObserver struct{}

func (nopObserver) BonusAwarded() {}

type source string

const (
	sourceStore source = "store"
	sourceCache source = "cache"
	sourceDemo  source = "demo"
	sourceEmpty source = "empty"
)

// Manager owns the in-memory ledgers of every account that has been used since
// start. A ledger is built once and then kept for the process lifetime.
type Manager struct {
	directory AccountDirectory
	store     AccountStore
	cache     SnapshotCache
	sink      ledger.Sink
	observer  BonusObserver
	catalog   *milestone.Catalog
	log       *slog.Logger
	now       func() time.Time
	ledgers   map[string]*ledger.Ledger
	mu        sync.Mutex
}

type Option func(*Manager)

func WithCache(c SnapshotCache) Option {
	return func(m *Manager) {
		m.cache = c
	}
}

func WithSink(s ledger.Sink) Option {
	return func(m *Manager) {
		m.sink = s
	}
}

func WithCatalog(c *milestone.Catalog) Option {
	return func(m *Manager) {
		if c != nil {
			m.catalog = c
		}
	}
}

func WithBonusObserver(o BonusObserver) Option {
	return func(m *Manager) {
		if o != nil {
			m.observer = o
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

func NewManager(directory AccountDirectory, store AccountStore, opts ...Option) *Manager {
	m := &Manager{
		directory: directory,
		store:     store,
		observer:  nopObserver{},
		catalog:   milestone.DefaultCatalog(),
		log:       slog.Default(),
		now:       time.Now,
		ledgers:   make(map[string]*ledger.Ledger),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("module", "wallet")
	return m
}

// Open returns the ledger of the account, loading it on first use.
func (m *Manager) Open(ctx context.Context, userID string) (*ledger.Ledger, error) {
	if l, ok := m.Get(userID); ok {
		return l, nil
	}

	acct, err := m.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet: %w", err)
	}

	snap, src := m.load(ctx, userID)
	l := ledger.New(userID, snap,
		ledger.WithSink(m.sink),
		ledger.WithClock(m.now),
		ledger.WithLogger(m.log),
	)

	m.mu.Lock()
	if existing, ok := m.ledgers[userID]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.ledgers[userID] = l
	m.mu.Unlock()

	m.log.LogAttrs(ctx, slog.LevelInfo, "wallet opened",
		slog.String("user_id", userID),
		slog.String("source", string(src)),
		slog.Int("transactions", len(snap.Transactions)),
	)

	if src == sourceDemo {
		l.Seed(ctx)
	}
	if acct.IsNew {
		m.welcome(ctx, l)
	}
	if l.CheckMonthlyBonus(ctx, m.now()) {
		m.observer.BonusAwarded()
	}
	return l, nil
}

func (m *Manager) Get(userID string) (*ledger.Ledger, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[userID]
	return l, ok
}

// Ledgers returns every open ledger ordered by user id.
func (m *Manager) Ledgers() []*ledger.Ledger {
	m.mu.Lock()
	res := make([]*ledger.Ledger, 0, len(m.ledgers))
	for _, l := range m.ledgers {
		res = append(res, l)
	}
	m.mu.Unlock()

	sort.Slice(res, func(i, j int) bool {
		return res[i].UserID() < res[j].UserID()
	})
	return res
}

func (m *Manager) welcome(ctx context.Context, l *ledger.Ledger) {
	err := l.CompleteMilestone(ctx, milestone.KeyRegistration)
	if err != nil && !errors.Is(err, serviceerrs.ErrNotFound) {
		m.log.LogAttrs(ctx, slog.LevelError, "failed to grant registration milestone",
			slog.String("user_id", l.UserID()),
			slog.Any(model.KeyLoggerError, err))
		return
	}
	if err = m.directory.ClearNew(ctx, l.UserID()); err != nil {
		m.log.LogAttrs(ctx, slog.LevelWarn, "failed to clear new account flag",
			slog.String("user_id", l.UserID()),
			slog.Any(model.KeyLoggerError, err))
	}
}

// load reads the account from the store. The cache is consulted only when the
// store fails, and the demo history only when the store has nothing for the
// demo account.
func (m *Manager) load(ctx context.Context, userID string) (ledger.Snapshot, source) {
	txs, err := m.store.ListTransactions(ctx, userID)
	var stored []milestone.Milestone
	if err == nil {
		stored, err = m.store.ListMilestones(ctx, userID)
	}
	if err == nil {
		if len(txs) == 0 && len(stored) == 0 && userID == identity.DemoUserID {
			return DemoSnapshot(userID, m.catalog), sourceDemo
		}
		return ledger.Snapshot{
			Milestones:   m.catalog.Merge(stored),
			Transactions: oldestFirst(txs),
		}, sourceStore
	}

	m.log.LogAttrs(ctx, slog.LevelWarn, "account store is unavailable, trying cache",
		slog.String("user_id", userID),
		slog.Any(model.KeyLoggerError, err))
	if m.cache != nil {
		snap, ok, cerr := m.cache.Load(ctx, userID)
		switch {
		case cerr != nil:
			m.log.LogAttrs(ctx, slog.LevelWarn, "failed to read cached wallet",
				slog.String("user_id", userID),
				slog.Any(model.KeyLoggerError, cerr))
		case ok:
			snap.Milestones = m.catalog.Merge(milestoneList(snap.Milestones))
			return snap, sourceCache
		}
	}
	if userID == identity.DemoUserID {
		return DemoSnapshot(userID, m.catalog), sourceDemo
	}
	return ledger.Snapshot{Milestones: m.catalog.Merge(nil)}, sourceEmpty
}

func oldestFirst(txs []transaction.Transaction) []transaction.Transaction {
	res := make([]transaction.Transaction, len(txs))
	copy(res, txs)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

func milestoneList(ms map[string]milestone.Milestone) []milestone.Milestone {
	res := make([]milestone.Milestone, 0, len(ms))
	for _, m := range ms {
		res = append(res, m)
	}
	return res
}
