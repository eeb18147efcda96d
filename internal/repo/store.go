package repo

import (
	"log/slog"
)

// AccountStore is the PostgreSQL-backed account store: one transaction log and
// one milestone set per user.
type AccountStore struct {
	*TransactionRepository
	*MilestoneRepository
}

func NewAccountStore(pool connectionPool, log *slog.Logger) *AccountStore {
	return &AccountStore{
		TransactionRepository: NewTransactionRepository(pool, log),
		MilestoneRepository:   NewMilestoneRepository(pool, log),
	}
}
