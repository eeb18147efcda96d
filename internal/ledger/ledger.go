package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
)

const (
	MonthlyBonusCredits model.Credits = 1
	MonthlyBonusWindow                = 30 * 24 * time.Hour
)

const monthlyBonusDescription = "Bono mensual"

type PurchaseRequest struct {
	ServiceID   string
	Description string
	Provider    string
	Amount      model.Credits
}

type PaymentRequest struct {
	ServiceID   string
	Description string
	Buyer       string
	Amount      model.Credits
}

// Ledger is the in-memory transaction log of one account. Balances are never
// stored: every query folds the log again.
type Ledger struct {
	sink       Sink
	log        *slog.Logger
	now        func() time.Time
	newID      func() string
	milestones map[string]milestone.Milestone
	userID     string
	txs        []transaction.Transaction
	mu         sync.Mutex
}

type Option func(*Ledger)

func WithSink(s Sink) Option {
	return func(l *Ledger) {
		if s != nil {
			l.sink = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		l.log = log
	}
}

func New(userID string, snap Snapshot, opts ...Option) *Ledger {
	snap = snap.clone()
	l := &Ledger{
		sink:       nopSink{},
		log:        slog.Default(),
		now:        time.Now,
		newID:      uuid.NewString,
		milestones: snap.Milestones,
		userID:     userID,
		txs:        snap.Transactions,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = logger.ForUser(l.log, userID)
	return l
}

func (l *Ledger) UserID() string {
	return l.userID
}

func (l *Ledger) Balance() Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ComputeBalance(l.txs)
}

// Transactions returns the matching transactions, newest first.
func (l *Ledger) Transactions(f transaction.Filter) []transaction.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := make([]int, 0, len(l.txs))
	for i := range l.txs {
		if f.Match(&l.txs[i]) {
			idx = append(idx, i)
		}
	}
	// Equal timestamps keep the later append first.
	sort.Slice(idx, func(a, b int) bool {
		ta, tb := l.txs[idx[a]].CreatedAt, l.txs[idx[b]].CreatedAt
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return idx[a] > idx[b]
	})

	res := make([]transaction.Transaction, len(idx))
	for i, j := range idx {
		res[i] = l.txs[j]
	}
	return res
}

func (l *Ledger) Milestones() map[string]milestone.Milestone {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshotLocked().Milestones
}

func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.snapshotLocked()
}

// Seed hands the whole current history to the sink as one ChangeSeed.
func (l *Ledger) Seed(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sink.Record(ctx, Change{
		OccurredAt: l.now(),
		Snapshot:   l.snapshotLocked(),
		Kind:       ChangeSeed,
		UserID:     l.userID,
	})
}

// Purchase holds amount in escrow for the provider. It fails without touching
// the log when the purchase would push the account below MinCreditLine.
func (l *Ledger) Purchase(ctx context.Context, req PurchaseRequest) (string, error) {
	if req.Amount <= 0 || req.Amount > model.MaxTransactionAmount {
		return "", serviceerrs.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !CanAfford(ComputeBalance(l.txs), req.Amount) {
		l.log.LogAttrs(ctx,
			slog.LevelInfo,
			"purchase rejected: credit line reached",
			slog.Int64("amount", int64(req.Amount)),
		)
		return "", serviceerrs.ErrInsufficientFunds
	}

	tx := l.newTransaction(
		transaction.TypeDebit,
		transaction.StatusEscrow,
		transaction.CategoryServicePurchase,
		req.Amount)
	tx.Description = req.Description
	tx.Counterparty = req.Provider
	tx.ServiceID = req.ServiceID
	l.txs = append(l.txs, tx)

	l.record(ctx, ChangeAppend, tx, milestone.Milestone{})
	return tx.ID, nil
}

// ReleaseEscrow confirms delivery of a purchase. Releasing a transaction that is
// not in escrow is a no-op.
func (l *Ledger) ReleaseEscrow(ctx context.Context, transactionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.txs {
		if l.txs[i].ID == transactionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, serviceerrs.ErrNotFound)
	}
	if l.txs[idx].Status != transaction.StatusEscrow {
		l.log.LogAttrs(ctx,
			slog.LevelDebug,
			"release skipped: transaction is not in escrow",
			slog.String("transaction_id", transactionID),
			slog.String("status", string(l.txs[idx].Status)),
		)
		return nil
	}

	l.txs[idx].Status = transaction.StatusCompleted
	l.record(ctx, ChangeRelease, l.txs[idx], milestone.Milestone{})
	return nil
}

// ReceivePayment credits the account for a delivered service. Earning is never
// limited by the credit line.
func (l *Ledger) ReceivePayment(ctx context.Context, req PaymentRequest) (string, error) {
	if req.Amount <= 0 || req.Amount > model.MaxTransactionAmount {
		return "", serviceerrs.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := l.newTransaction(
		transaction.TypeCredit,
		transaction.StatusCompleted,
		transaction.CategoryServiceCompleted,
		req.Amount)
	tx.Description = req.Description
	tx.Counterparty = req.Buyer
	tx.ServiceID = req.ServiceID
	l.txs = append(l.txs, tx)
	l.record(ctx, ChangeAppend, tx, milestone.Milestone{})

	if l.countCategory(transaction.CategoryServiceCompleted) == 1 {
		if _, ok := l.milestones[milestone.KeyFirstSale]; ok {
			if err := l.completeMilestoneLocked(ctx, milestone.KeyFirstSale); err != nil {
				return tx.ID, err
			}
		}
	}
	return tx.ID, nil
}

// CompleteMilestone grants the milestone reward once. Repeated calls are no-ops.
func (l *Ledger) CompleteMilestone(ctx context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.completeMilestoneLocked(ctx, key)
}

func (l *Ledger) completeMilestoneLocked(ctx context.Context, key string) error {
	m, ok := l.milestones[key]
	if !ok {
		return fmt.Errorf("milestone %s: %w", key, serviceerrs.ErrNotFound)
	}
	if m.Completed {
		return nil
	}

	tx := l.newTransaction(
		transaction.TypeCredit,
		transaction.StatusCompleted,
		transaction.CategoryMilestone,
		m.Credits)
	tx.Description = m.Label
	tx.Counterparty = model.SystemCounterparty

	m.Completed = true
	m.CompletedAt = tx.CreatedAt
	l.milestones[key] = m
	l.txs = append(l.txs, tx)

	l.record(ctx, ChangeMilestone, tx, m)
	return nil
}

// CheckMonthlyBonus awards MonthlyBonusCredits when no bonus was granted within
// MonthlyBonusWindow before now. It reports whether a bonus was awarded.
func (l *Ledger) CheckMonthlyBonus(ctx context.Context, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	var last time.Time
	found := false
	for i := range l.txs {
		if l.txs[i].Category != transaction.CategoryMonthlyBonus {
			continue
		}
		if !found || l.txs[i].CreatedAt.After(last) {
			last = l.txs[i].CreatedAt
			found = true
		}
	}
	if found && now.Sub(last) < MonthlyBonusWindow {
		return false
	}

	tx := l.newTransaction(
		transaction.TypeCredit,
		transaction.StatusCompleted,
		transaction.CategoryMonthlyBonus,
		MonthlyBonusCredits)
	tx.CreatedAt = now
	tx.Description = monthlyBonusDescription
	tx.Counterparty = model.SystemCounterparty
	l.txs = append(l.txs, tx)

	l.record(ctx, ChangeAppend, tx, milestone.Milestone{})
	return true
}

func (l *Ledger) newTransaction(
	tp transaction.Type,
	st transaction.Status,
	cat transaction.Category,
	amount model.Credits,
) transaction.Transaction {
	return transaction.Transaction{
		CreatedAt: l.now(),
		ID:        l.newID(),
		UserID:    l.userID,
		Type:      tp,
		Status:    st,
		Category:  cat,
		Amount:    amount,
	}
}

func (l *Ledger) countCategory(cat transaction.Category) int {
	n := 0
	for i := range l.txs {
		if l.txs[i].Category == cat {
			n++
		}
	}
	return n
}

func (l *Ledger) snapshotLocked() Snapshot {
	return Snapshot{
		Transactions: l.txs,
		Milestones:   l.milestones,
	}.clone()
}

func (l *Ledger) record(ctx context.Context,
	kind ChangeKind, tx transaction.Transaction, m milestone.Milestone,
) {
	l.sink.Record(ctx, Change{
		OccurredAt:  l.now(),
		Snapshot:    l.snapshotLocked(),
		Milestone:   m,
		Transaction: tx,
		Kind:        kind,
		UserID:      l.userID,
	})
}
