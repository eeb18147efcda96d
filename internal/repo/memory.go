package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

// MemoryStore keeps accounts in process memory. It is used when no database is
// configured and as an isolated store in tests.
type MemoryStore struct {
	txs        map[string][]transaction.Transaction
	milestones map[string]map[string]milestone.Milestone
	mu         sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txs:        make(map[string][]transaction.Transaction),
		milestones: make(map[string]map[string]milestone.Milestone),
	}
}

func (s *MemoryStore) InsertTransaction(_ context.Context, tx transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(tx)
	return nil
}

func (s *MemoryStore) insertLocked(tx transaction.Transaction) {
	for _, stored := range s.txs[tx.UserID] {
		if stored.ID == tx.ID {
			return
		}
	}
	s.txs[tx.UserID] = append(s.txs[tx.UserID], tx)
}

func (s *MemoryStore) ReleaseTransaction(_ context.Context, userID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.txs[userID]
	for i := range txs {
		if txs[i].ID != transactionID {
			continue
		}
		switch txs[i].Status {
		case transaction.StatusEscrow:
			txs[i].Status = transaction.StatusCompleted
			return nil
		case transaction.StatusCompleted:
			return nil
		default:
			return fmt.Errorf("transaction %s has status %s, cannot release",
				transactionID, txs[i].Status)
		}
	}
	return fmt.Errorf("transaction %s: %w", transactionID, serviceerrs.ErrNotFound)
}

func (s *MemoryStore) ListTransactions(_ context.Context, userID string,
) ([]transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]transaction.Transaction, len(s.txs[userID]))
	copy(res, s.txs[userID])
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) CompleteMilestone(_ context.Context,
	userID string, m milestone.Milestone, reward transaction.Transaction,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertLocked(reward)
	s.upsertLocked(userID, m)
	return nil
}

func (s *MemoryStore) UpsertMilestone(_ context.Context, userID string, m milestone.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.upsertLocked(userID, m)
	return nil
}

func (s *MemoryStore) upsertLocked(userID string, m milestone.Milestone) {
	if s.milestones[userID] == nil {
		s.milestones[userID] = make(map[string]milestone.Milestone)
	}
	if stored, ok := s.milestones[userID][m.Key]; ok && stored.Completed {
		return
	}
	s.milestones[userID][m.Key] = milestone.Milestone{
		CompletedAt: m.CompletedAt,
		Key:         m.Key,
		Completed:   m.Completed,
	}
}

func (s *MemoryStore) ListMilestones(_ context.Context, userID string,
) ([]milestone.Milestone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]milestone.Milestone, 0, len(s.milestones[userID]))
	for _, m := range s.milestones[userID] {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Key < res[j].Key
	})
	return res, nil
}

func (s *MemoryStore) CheckHealth(context.Context) error {
	return nil
}
