package ledger

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

func tx(tp transaction.Type, st transaction.Status, amount model.Credits) transaction.Transaction {
	return transaction.Transaction{Type: tp, Status: st, Amount: amount}
}

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		name string
		txs  []transaction.Transaction
		want Balance
	}{
		{
			name: "empty log",
			txs:  nil,
			want: Balance{CreditLine: MinCreditLine, CanSpend: 10},
		},
		{
			name: "earned only",
			txs: []transaction.Transaction{
				tx(transaction.TypeCredit, transaction.StatusCompleted, 1),
				tx(transaction.TypeCredit, transaction.StatusCompleted, 2),
			},
			want: Balance{
				Available:   3,
				TotalEarned: 3,
				CreditLine:  MinCreditLine,
				CanSpend:    13,
			},
		},
		{
			name: "escrow in debt",
			txs: []transaction.Transaction{
				tx(transaction.TypeDebit, transaction.StatusEscrow, 8),
			},
			want: Balance{
				Available:             -8,
				InEscrow:              8,
				CreditLine:            MinCreditLine,
				CanSpend:              2,
				DebtAmount:            8,
				CreditLineUtilization: 80,
			},
		},
		{
			name: "pending is ignored",
			txs: []transaction.Transaction{
				tx(transaction.TypeDebit, transaction.StatusPending, 5),
				tx(transaction.TypeCredit, transaction.StatusPending, 5),
			},
			want: Balance{CreditLine: MinCreditLine, CanSpend: 10},
		},
		{
			name: "demo account",
			txs: []transaction.Transaction{
				tx(transaction.TypeCredit, transaction.StatusCompleted, 1),
				tx(transaction.TypeCredit, transaction.StatusCompleted, 2),
				tx(transaction.TypeCredit, transaction.StatusCompleted, 2),
				tx(transaction.TypeDebit, transaction.StatusEscrow, 8),
				tx(transaction.TypeCredit, transaction.StatusCompleted, 5),
				tx(transaction.TypeDebit, transaction.StatusCompleted, 3),
			},
			want: Balance{
				Available:   -1,
				InEscrow:    8,
				TotalEarned: 10,
				TotalSpent:  3,
				CreditLine:  MinCreditLine,
				CanSpend:    9,
				DebtAmount:  1,

				CreditLineUtilization: 10,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeBalance(tt.txs))
		})
	}
}

func TestComputeBalance_order_independent(t *testing.T) {
	txs := []transaction.Transaction{
		tx(transaction.TypeCredit, transaction.StatusCompleted, 1),
		tx(transaction.TypeCredit, transaction.StatusCompleted, 4),
		tx(transaction.TypeDebit, transaction.StatusEscrow, 8),
		tx(transaction.TypeDebit, transaction.StatusCompleted, 3),
		tx(transaction.TypeCredit, transaction.StatusCompleted, 5),
		tx(transaction.TypeDebit, transaction.StatusEscrow, 2),
	}
	want := ComputeBalance(txs)

	rnd := rand.New(rand.NewSource(42))
	for range 50 {
		shuffled := make([]transaction.Transaction, len(txs))
		copy(shuffled, txs)
		rnd.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		assert.Equal(t, want, ComputeBalance(shuffled))
	}
}

func TestComputeBalance_saturates(t *testing.T) {
	const huge model.Credits = math.MaxInt64
	b := ComputeBalance([]transaction.Transaction{
		tx(transaction.TypeDebit, transaction.StatusEscrow, huge),
		tx(transaction.TypeDebit, transaction.StatusEscrow, huge),
	})
	assert.Equal(t, model.Credits(math.MinInt64), b.Available)
	assert.Equal(t, model.Credits(math.MaxInt64), b.InEscrow)
	assert.Equal(t, model.Credits(math.MaxInt64), b.DebtAmount)
	assert.False(t, CanAfford(b, 1))

	b = ComputeBalance([]transaction.Transaction{
		tx(transaction.TypeCredit, transaction.StatusCompleted, huge),
		tx(transaction.TypeCredit, transaction.StatusCompleted, huge),
	})
	assert.Equal(t, model.Credits(math.MaxInt64), b.Available)
	assert.Equal(t, model.Credits(math.MaxInt64), b.TotalEarned)
	assert.Equal(t, model.Credits(math.MaxInt64), b.CanSpend)
}

func TestCanAfford(t *testing.T) {
	tests := []struct {
		available model.Credits
		amount    model.Credits
		want      bool
	}{
		{0, 8, true},
		{0, 10, true},
		{0, 11, false},
		{-8, 2, true},
		{-8, 5, false},
		{5, 15, true},
		{5, 16, false},
		{-8, math.MaxInt64, false},
		{math.MinInt64, 1, false},
		{math.MaxInt64, math.MaxInt64, true},
	}
	for _, tt := range tests {
		b := Balance{Available: tt.available}
		assert.Equal(t, tt.want, CanAfford(b, tt.amount),
			"available=%d amount=%d", tt.available, tt.amount)
	}
}
