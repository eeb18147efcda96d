package ledger

import (
	"context"
	"time"

	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

type ChangeKind string

const (
	// ChangeAppend carries a new transaction.
	ChangeAppend ChangeKind = "append"
	// ChangeRelease carries a transaction moved from escrow to completed.
	ChangeRelease ChangeKind = "release"
	// ChangeMilestone carries a completed milestone together with its reward
	// transaction; both must be persisted atomically.
	ChangeMilestone ChangeKind = "milestone"
	// ChangeSeed carries a history that so far exists only in memory, in
	// Snapshot. Applying it more than once is harmless.
	ChangeSeed ChangeKind = "seed"
)

// Snapshot is the full state of one account's ledger.
type Snapshot struct {
	Milestones   map[string]milestone.Milestone `json:"milestones"`
	Transactions []transaction.Transaction      `json:"transactions"`
}

func (s Snapshot) clone() Snapshot {
	c := Snapshot{
		Transactions: make([]transaction.Transaction, len(s.Transactions)),
		Milestones:   make(map[string]milestone.Milestone, len(s.Milestones)),
	}
	copy(c.Transactions, s.Transactions)
	for k, m := range s.Milestones {
		c.Milestones[k] = m
	}
	return c
}

// Change is a single mutation already applied to the in-memory ledger.
type Change struct {
	OccurredAt  time.Time
	Snapshot    Snapshot
	Milestone   milestone.Milestone
	Transaction transaction.Transaction
	Kind        ChangeKind
	UserID      string
}

// Sink receives every applied change. Record is called with the ledger locked,
// so it must not block for long and must not call back into the ledger.
type Sink interface {
	Record(ctx context.Context, ch Change)
}

type SinkFunc func(ctx context.Context, ch Change)

func (f SinkFunc) Record(ctx context.Context, ch Change) {
	f(ctx, ch)
}

type nopSink struct{}

func (nopSink) Record(context.Context, Change) {}
