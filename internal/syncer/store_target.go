package syncer

import (
	"context"
	"fmt"
	"sort"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

type accountStore interface {
	InsertTransaction(ctx context.Context, tx transaction.Transaction) error
	ReleaseTransaction(ctx context.Context, userID, transactionID string) error
	CompleteMilestone(ctx context.Context,
		userID string, m milestone.Milestone, reward transaction.Transaction) error
	UpsertMilestone(ctx context.Context, userID string, m milestone.Milestone) error
}

// StoreTarget writes changes to the authoritative account store.
type StoreTarget struct {
	store accountStore
	name  string
}

func NewStoreTarget(name string, store accountStore) *StoreTarget {
	return &StoreTarget{store: store, name: name}
}

func (t *StoreTarget) Name() string {
	return t.name
}

func (t *StoreTarget) Apply(ctx context.Context, ch ledger.Change) error {
	var err error
	switch ch.Kind {
	case ledger.ChangeAppend:
		err = t.store.InsertTransaction(ctx, ch.Transaction)
	case ledger.ChangeRelease:
		err = t.store.ReleaseTransaction(ctx, ch.UserID, ch.Transaction.ID)
	case ledger.ChangeMilestone:
		err = t.store.CompleteMilestone(ctx, ch.UserID, ch.Milestone, ch.Transaction)
	case ledger.ChangeSeed:
		err = t.seed(ctx, ch)
	default:
		return fmt.Errorf("unknown change kind %q", ch.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s change: %w", ch.Kind, err)
	}
	return nil
}

// seed relies on the store ignoring known transaction ids and never clearing
// a completed milestone.
func (t *StoreTarget) seed(ctx context.Context, ch ledger.Change) error {
	for _, tx := range ch.Snapshot.Transactions {
		if err := t.store.InsertTransaction(ctx, tx); err != nil {
			return err
		}
	}
	keys := make([]string, 0, len(ch.Snapshot.Milestones))
	for k, m := range ch.Snapshot.Milestones {
		if m.Completed {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := t.store.UpsertMilestone(ctx, ch.UserID, ch.Snapshot.Milestones[k]); err != nil {
			return err
		}
	}
	return nil
}
