package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
)

func TestRegisterRequest_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"ok", RegisterRequest{Email: "ana@eisc.io", Password: "very-strong-password"}, false},
		{"bad email", RegisterRequest{Email: "ana", Password: "very-strong-password"}, true},
		{"empty email", RegisterRequest{Password: "very-strong-password"}, true},
		{"weak password", RegisterRequest{Email: "ana@eisc.io", Password: "password"}, true},
		{"empty password", RegisterRequest{Email: "ana@eisc.io"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.IsValid()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoginRequest_IsValid(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "carlos@eisc.io", Password: "demo1234"}).IsValid())
	assert.Error(t, (&LoginRequest{Email: "carlos@eisc.io"}).IsValid())
	assert.Error(t, (&LoginRequest{Password: "demo1234"}).IsValid())
}

func TestPurchaseRequest_IsValid(t *testing.T) {
	tests := []struct {
		name    string
		req     PurchaseRequest
		wantErr bool
	}{
		{"ok", PurchaseRequest{ServiceID: "svc-001", Provider: "Ana García", Amount: 8}, false},
		{"zero amount", PurchaseRequest{ServiceID: "svc-001", Provider: "Ana García"}, true},
		{"negative amount", PurchaseRequest{ServiceID: "svc-001", Provider: "Ana García", Amount: -1}, true},
		{"too large", PurchaseRequest{ServiceID: "svc-001", Provider: "Ana García", Amount: 1_000_001}, true},
		{"max amount", PurchaseRequest{ServiceID: "svc-001", Provider: "Ana García", Amount: 1_000_000}, false},
		{"no service", PurchaseRequest{Provider: "Ana García", Amount: 1}, true},
		{"no provider", PurchaseRequest{ServiceID: "svc-001", Amount: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.IsValid()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lr := tt.req.ToLedger()
			assert.Equal(t, model.Credits(tt.req.Amount), lr.Amount)
			assert.Equal(t, tt.req.Provider, lr.Provider)
		})
	}
}

func TestPaymentRequest_IsValid(t *testing.T) {
	req := PaymentRequest{ServiceID: "svc-002", Buyer: "Roberto Silva", Amount: 5}
	require.NoError(t, req.IsValid())
	assert.Equal(t, "Roberto Silva", req.ToLedger().Buyer)

	req.Amount = 0
	assert.Error(t, req.IsValid())

	req.Amount = 1 << 62
	assert.Error(t, req.IsValid())
}

func TestNewBalanceResponse(t *testing.T) {
	b := ledger.ComputeBalance([]transaction.Transaction{
		{Type: transaction.TypeCredit, Status: transaction.StatusCompleted, Amount: 2},
		{Type: transaction.TypeDebit, Status: transaction.StatusEscrow, Amount: 5},
	})
	data, err := json.Marshal(NewBalanceResponse(b))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"available_usd": "-30",
		"in_escrow_usd": "50",
		"debt_usd": "30",
		"available": -3,
		"in_escrow": 5,
		"total_earned": 2,
		"total_spent": 0,
		"credit_line": -10,
		"can_spend": 7,
		"debt_amount": 3,
		"credit_line_utilization": 30
	}`, string(data))
}

func TestNewMilestoneResponses(t *testing.T) {
	done := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	res := NewMilestoneResponses(map[string]milestone.Milestone{
		milestone.KeyRegistration: {Key: milestone.KeyRegistration, Completed: true, CompletedAt: done, Credits: 1},
		milestone.KeyIdentity:     {Key: milestone.KeyIdentity, Credits: 2},
	})
	require.Len(t, res, 2)
	assert.Equal(t, milestone.KeyIdentity, res[0].Key)
	assert.Nil(t, res[0].CompletedAt)
	require.NotNil(t, res[1].CompletedAt)
	assert.True(t, done.Equal(*res[1].CompletedAt))
}

func TestNewTransactionResponses(t *testing.T) {
	res := NewTransactionResponses([]transaction.Transaction{
		{ID: "tx-004", Type: transaction.TypeDebit, Amount: 8, ServiceID: "svc-001"},
	})
	require.Len(t, res, 1)
	assert.Equal(t, "80", res[0].AmountUSD.String())
	assert.Equal(t, "svc-001", res[0].ServiceID)
}
