package dto

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	passwordvalidator "github.com/wagslane/go-password-validator"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/model/user"
)

const minEntropyBits = 50

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			errs := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("field %s failed on %q", fe.Field(), fe.Tag()))
			}
			return errors.Join(errs...)
		}
		return fmt.Errorf("failed to validate request: %w", err)
	}
	return nil
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=80"`
}

func (r *RegisterRequest) IsValid() error {
	return errors.Join(
		validateStruct(r),
		passwordvalidator.Validate(r.Password, minEntropyBits),
	)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) IsValid() error {
	return validateStruct(r)
}

type AccountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	IsNew       bool   `json:"is_new"`
}

func NewAccountResponse(a user.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		IsNew:       a.IsNew,
	}
}

type PurchaseRequest struct {
	ServiceID   string `json:"service_id" validate:"required"`
	Description string `json:"description" validate:"max=200"`
	Provider    string `json:"provider" validate:"required"`
	Amount      int64  `json:"amount" validate:"gt=0,lte=1000000"`
}

func (r *PurchaseRequest) IsValid() error {
	return validateStruct(r)
}

func (r *PurchaseRequest) ToLedger() ledger.PurchaseRequest {
	return ledger.PurchaseRequest{
		ServiceID:   r.ServiceID,
		Description: r.Description,
		Provider:    r.Provider,
		Amount:      model.Credits(r.Amount),
	}
}

type PaymentRequest struct {
	ServiceID   string `json:"service_id" validate:"required"`
	Description string `json:"description" validate:"max=200"`
	Buyer       string `json:"buyer" validate:"required"`
	Amount      int64  `json:"amount" validate:"gt=0,lte=1000000"`
}

func (r *PaymentRequest) IsValid() error {
	return validateStruct(r)
}

func (r *PaymentRequest) ToLedger() ledger.PaymentRequest {
	return ledger.PaymentRequest{
		ServiceID:   r.ServiceID,
		Description: r.Description,
		Buyer:       r.Buyer,
		Amount:      model.Credits(r.Amount),
	}
}

type TransactionCreatedResponse struct {
	TransactionID string `json:"transaction_id"`
}

type BalanceResponse struct {
	AvailableUSD          decimal.Decimal `json:"available_usd"`
	InEscrowUSD           decimal.Decimal `json:"in_escrow_usd"`
	DebtUSD               decimal.Decimal `json:"debt_usd"`
	Available             model.Credits   `json:"available"`
	InEscrow              model.Credits   `json:"in_escrow"`
	TotalEarned           model.Credits   `json:"total_earned"`
	TotalSpent            model.Credits   `json:"total_spent"`
	CreditLine            model.Credits   `json:"credit_line"`
	CanSpend              model.Credits   `json:"can_spend"`
	DebtAmount            model.Credits   `json:"debt_amount"`
	CreditLineUtilization float64         `json:"credit_line_utilization"`
}

func NewBalanceResponse(b ledger.Balance) BalanceResponse {
	return BalanceResponse{
		AvailableUSD:          b.Available.ToUSD(),
		InEscrowUSD:           b.InEscrow.ToUSD(),
		DebtUSD:               b.DebtAmount.ToUSD(),
		Available:             b.Available,
		InEscrow:              b.InEscrow,
		TotalEarned:           b.TotalEarned,
		TotalSpent:            b.TotalSpent,
		CreditLine:            b.CreditLine,
		CanSpend:              b.CanSpend,
		DebtAmount:            b.DebtAmount,
		CreditLineUtilization: b.CreditLineUtilization,
	}
}

type TransactionResponse struct {
	Date         time.Time            `json:"date"`
	AmountUSD    decimal.Decimal      `json:"amount_usd"`
	ID           string               `json:"id"`
	Type         transaction.Type     `json:"type"`
	Status       transaction.Status   `json:"status"`
	Category     transaction.Category `json:"category"`
	Description  string               `json:"description"`
	Counterparty string               `json:"counterparty"`
	ServiceID    string               `json:"service_id,omitempty"`
	Amount       model.Credits        `json:"amount"`
}

func NewTransactionResponses(txs []transaction.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, TransactionResponse{
			Date:         tx.CreatedAt,
			AmountUSD:    tx.Amount.ToUSD(),
			ID:           tx.ID,
			Type:         tx.Type,
			Status:       tx.Status,
			Category:     tx.Category,
			Description:  tx.Description,
			Counterparty: tx.Counterparty,
			ServiceID:    tx.ServiceID,
			Amount:       tx.Amount,
		})
	}
	return res
}

type MilestoneResponse struct {
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Key         string        `json:"key"`
	Label       string        `json:"label"`
	Credits     model.Credits `json:"credits"`
	Completed   bool          `json:"completed"`
}

// NewMilestoneResponses lists milestones ordered by key.
func NewMilestoneResponses(ms map[string]milestone.Milestone) []MilestoneResponse {
	res := make([]MilestoneResponse, 0, len(ms))
	for _, m := range ms {
		r := MilestoneResponse{
			Key:       m.Key,
			Label:     m.Label,
			Credits:   m.Credits,
			Completed: m.Completed,
		}
		if m.Completed && !m.CompletedAt.IsZero() {
			at := m.CompletedAt
			r.CompletedAt = &at
		}
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Key < res[j].Key
	})
	return res
}
