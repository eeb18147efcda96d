package ledger

import (
	"math"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

// MinCreditLine is the most negative available balance an account may reach.
const MinCreditLine model.Credits = -10

type Balance struct {
	Available             model.Credits `json:"available"`
	InEscrow              model.Credits `json:"in_escrow"`
	TotalEarned           model.Credits `json:"total_earned"`
	TotalSpent            model.Credits `json:"total_spent"`
	CreditLine            model.Credits `json:"credit_line"`
	CanSpend              model.Credits `json:"can_spend"`
	DebtAmount            model.Credits `json:"debt_amount"`
	CreditLineUtilization float64       `json:"credit_line_utilization"`
}

// ComputeBalance folds the whole log. The fold is commutative, so the order of
// txs does not matter.
func ComputeBalance(txs []transaction.Transaction) Balance {
	var b Balance
	for i := range txs {
		tx := &txs[i]
		switch {
		case tx.Type == transaction.TypeCredit && tx.Status == transaction.StatusCompleted:
			b.Available = model.AddSaturating(b.Available, tx.Amount)
			b.TotalEarned = model.AddSaturating(b.TotalEarned, tx.Amount)
		case tx.Type == transaction.TypeDebit && tx.Status == transaction.StatusCompleted:
			b.Available = model.AddSaturating(b.Available, -tx.Amount)
			b.TotalSpent = model.AddSaturating(b.TotalSpent, tx.Amount)
		case tx.Type == transaction.TypeDebit && tx.Status == transaction.StatusEscrow:
			b.Available = model.AddSaturating(b.Available, -tx.Amount)
			b.InEscrow = model.AddSaturating(b.InEscrow, tx.Amount)
		}
	}

	b.CreditLine = MinCreditLine
	b.CanSpend = model.AddSaturating(b.Available, -MinCreditLine)
	if b.Available < 0 {
		b.DebtAmount = -b.Available
		if b.DebtAmount < 0 {
			b.DebtAmount = math.MaxInt64
		}
		b.CreditLineUtilization = float64(-b.Available) * 100 / float64(-MinCreditLine)
	}
	return b
}

// CanAfford reports whether available - amount stays at or above MinCreditLine.
func CanAfford(b Balance, amount model.Credits) bool {
	return amount <= model.AddSaturating(b.Available, -MinCreditLine)
}
