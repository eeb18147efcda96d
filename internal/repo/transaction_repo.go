package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/repo/internal/db"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
)

type TransactionRepository struct {
	DB
}

func NewTransactionRepository(pool connectionPool, log *slog.Logger) *TransactionRepository {
	return &TransactionRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

// InsertTransaction appends tx to the user's log. Inserting the same id twice is
// a no-op, so a retried write never duplicates a row.
func (r *TransactionRepository) InsertTransaction(ctx context.Context,
	tx transaction.Transaction,
) error {
	if tx.ID == "" || tx.UserID == "" {
		return errors.New("failed to insert transaction: id and user id must be not empty")
	}

	insertFn := func() (struct{}, error) {
		return struct{}{}, insertTransaction(ctx, db.New(r.pool), tx)
	}

	_, err := WithRetry[struct{}](ctx, insertFn, 0)
	return err //nolint: wrapcheck // error from wrapped function
}

func insertTransaction(ctx context.Context, queries *db.Queries, tx transaction.Transaction) error {
	_, err := queries.InsertTransaction(ctx, db.InsertTransactionParams{
		IDTransaction: tx.ID,
		IDUser:        tx.UserID,
		Type:          string(tx.Type),
		Status:        string(tx.Status),
		Category:      string(tx.Category),
		Amount:        int64(tx.Amount),
		Description:   tx.Description,
		Counterparty:  tx.Counterparty,
		IDService:     toText(tx.ServiceID),
		CreatedAt:     toTimestamptz(tx.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", tx.ID, err)
	}
	return nil
}

// ReleaseTransaction moves an escrowed transaction to completed. Releasing an
// already completed transaction succeeds without changes.
func (r *TransactionRepository) ReleaseTransaction(ctx context.Context,
	userID, transactionID string,
) error {
	releaseLogic := func(ctx context.Context, tx connectionPool) (any, error) {
		queries := db.New(tx)
		res, err := queries.ReleaseTransaction(ctx, db.ReleaseTransactionParams{
			IDTransaction: transactionID,
			IDUser:        userID,
		})
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to release transaction %s: %w", transactionID, err)
		}
		if res.RowsAffected() != 0 {
			return struct{}{}, nil
		}

		status, err := queries.GetTransactionStatus(ctx, db.GetTransactionStatusParams{
			IDTransaction: transactionID,
			IDUser:        userID,
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return struct{}{}, fmt.Errorf("transaction %s: %w", transactionID, serviceerrs.ErrNotFound)
		}
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to get status of transaction %s: %w", transactionID, err)
		}
		if transaction.Status(status) != transaction.StatusCompleted {
			return struct{}{}, fmt.Errorf("transaction %s has status %s, cannot release",
				transactionID, status)
		}
		return struct{}{}, nil
	}

	runWithTX := func() (struct{}, error) {
		return WithTX[struct{}](ctx, r.pool, r.log, releaseLogic)
	}

	_, err := WithRetry[struct{}](ctx, runWithTX, 0)
	return err //nolint: wrapcheck // error from wrapped function
}

// ListTransactions returns the user's log, newest first.
func (r *TransactionRepository) ListTransactions(ctx context.Context,
	userID string,
) ([]transaction.Transaction, error) {
	if len(userID) == 0 {
		return nil, errors.New("failed to list transactions for empty user: userID must be not empty")
	}

	listLogic := func() ([]transaction.Transaction, error) {
		queries := db.New(r.pool)
		rows, err := queries.ListTransactionsByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions by userID %s: %w", userID, err)
		}

		txs := make([]transaction.Transaction, len(rows))
		for i, row := range rows {
			txs[i] = transaction.Transaction{
				CreatedAt:    row.CreatedAt.Time,
				ID:           row.IDTransaction,
				UserID:       row.IDUser,
				Type:         transaction.Type(row.Type),
				Status:       transaction.Status(row.Status),
				Category:     transaction.Category(row.Category),
				Description:  row.Description,
				Counterparty: row.Counterparty,
				ServiceID:    row.IDService.String,
				Amount:       model.Credits(row.Amount),
			}
		}
		return txs, nil
	}

	return WithRetry[[]transaction.Transaction](ctx, listLogic, 0) //nolint: wrapcheck // error from wrapped function
}
