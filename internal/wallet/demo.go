package wallet

import (
	"time"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

func demoTx(userID, id string, at time.Time,
	tp transaction.Type, st transaction.Status, cat transaction.Category,
	amount model.Credits, description, counterparty, serviceID string,
) transaction.Transaction {
	return transaction.Transaction{
		CreatedAt:    at,
		ID:           id,
		UserID:       userID,
		Type:         tp,
		Status:       st,
		Category:     cat,
		Description:  description,
		Counterparty: counterparty,
		ServiceID:    serviceID,
		Amount:       amount,
	}
}

// DemoSnapshot is the history of the seeded demo account: three welcome
// milestones, one purchase still in escrow, one sale and one settled purchase.
func DemoSnapshot(userID string, catalog *milestone.Catalog) ledger.Snapshot {
	at := func(month time.Month, day, hour, minute int) time.Time {
		return time.Date(2026, month, day, hour, minute, 0, 0, time.UTC)
	}
	const (
		credit    = transaction.TypeCredit
		debit     = transaction.TypeDebit
		completed = transaction.StatusCompleted
		escrow    = transaction.StatusEscrow
	)

	txs := []transaction.Transaction{
		demoTx(userID, "tx-001", at(time.February, 1, 10, 0), credit, completed,
			transaction.CategoryMilestone, 1, "Bono de registro", model.SystemCounterparty, ""),
		demoTx(userID, "tx-002", at(time.February, 3, 14, 30), credit, completed,
			transaction.CategoryMilestone, 2, "Portafolio verificado", model.SystemCounterparty, ""),
		demoTx(userID, "tx-003", at(time.February, 5, 9, 15), credit, completed,
			transaction.CategoryMilestone, 2, "Identidad verificada", model.SystemCounterparty, ""),
		demoTx(userID, "tx-004", at(time.February, 10, 16, 0), debit, escrow,
			transaction.CategoryServicePurchase, 8, "Diseño de Logo Profesional", "Ana García", "svc-001"),
		demoTx(userID, "tx-005", at(time.February, 11, 11, 0), credit, completed,
			transaction.CategoryServiceCompleted, 5, "Consultoría Legal", "Roberto Silva", "svc-002"),
		demoTx(userID, "tx-006", at(time.February, 12, 8, 0), debit, completed,
			transaction.CategoryServicePurchase, 3, "Revisión de Código React", "María López", "svc-003"),
	}

	stored := []milestone.Milestone{
		{Key: milestone.KeyRegistration, Completed: true, CompletedAt: txs[0].CreatedAt},
		{Key: milestone.KeyPortfolio, Completed: true, CompletedAt: txs[1].CreatedAt},
		{Key: milestone.KeyIdentity, Completed: true, CompletedAt: txs[2].CreatedAt},
	}
	return ledger.Snapshot{
		Milestones:   catalog.Merge(stored),
		Transactions: txs,
	}
}
