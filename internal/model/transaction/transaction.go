package transaction

import (
	"time"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

type Type string

const (
	TypeCredit Type = "credit"
	TypeDebit  Type = "debit"
)

type Status string

const (
	// StatusPending is reserved; no ledger operation produces it.
	StatusPending   Status = "pending"
	StatusEscrow    Status = "escrow"
	StatusCompleted Status = "completed"
)

type Category string

const (
	CategoryMilestone        Category = "milestone"
	CategoryServicePurchase  Category = "service_purchase"
	CategoryServiceCompleted Category = "service_completed"
	CategoryMonthlyBonus     Category = "monthly_bonus"
)

type Transaction struct {
	CreatedAt    time.Time     `json:"date"`
	ID           string        `json:"id"`
	UserID       string        `json:"user_id"`
	Type         Type          `json:"type"`
	Status       Status        `json:"status"`
	Category     Category      `json:"category"`
	Description  string        `json:"description"`
	Counterparty string        `json:"counterparty"`
	ServiceID    string        `json:"service_id,omitempty"`
	Amount       model.Credits `json:"amount"`
}

func (t *Transaction) IsEscrowed() bool {
	return t.Type == TypeDebit && t.Status == StatusEscrow
}

type Filter string

const (
	FilterAll    Filter = "all"
	FilterCredit Filter = "credit"
	FilterDebit  Filter = "debit"
	FilterEscrow Filter = "escrow"
)

func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(s); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterCredit, FilterDebit, FilterEscrow:
		return f, true
	}
	return "", false
}

func (f Filter) Match(t *Transaction) bool {
	switch f {
	case FilterCredit:
		return t.Type == TypeCredit
	case FilterDebit:
		return t.Type == TypeDebit
	case FilterEscrow:
		return t.Status == StatusEscrow
	default:
		return true
	}
}
