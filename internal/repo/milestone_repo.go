package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talx-hub/eisc-ledger/internal/model/milestone"
	"github.com/talx-hub/eisc-ledger/internal/model/transaction"
	"github.com/talx-hub/eisc-ledger/internal/repo/internal/db"
)

type MilestoneRepository struct {
	DB
}

func NewMilestoneRepository(pool connectionPool, log *slog.Logger) *MilestoneRepository {
	return &MilestoneRepository{
		DB{
			pool: pool,
			log:  log,
		},
	}
}

// CompleteMilestone stores the completed flag and its reward transaction in a
// single DB transaction.
func (r *MilestoneRepository) CompleteMilestone(ctx context.Context,
	userID string, m milestone.Milestone, reward transaction.Transaction,
) error {
	if userID == "" || m.Key == "" {
		return errors.New("failed to complete milestone: user id and key must be not empty")
	}

	completeLogic := func(ctx context.Context, tx connectionPool) (any, error) {
		queries := db.New(tx)
		if err := insertTransaction(ctx, queries, reward); err != nil {
			return struct{}{}, err
		}
		if err := upsertMilestone(ctx, queries, userID, m); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	runWithTX := func() (struct{}, error) {
		return WithTX[struct{}](ctx, r.pool, r.log, completeLogic)
	}

	_, err := WithRetry[struct{}](ctx, runWithTX, 0)
	return err //nolint: wrapcheck // error from wrapped function
}

// UpsertMilestone never clears a completed flag.
func (r *MilestoneRepository) UpsertMilestone(ctx context.Context,
	userID string, m milestone.Milestone,
) error {
	upsertFn := func() (struct{}, error) {
		return struct{}{}, upsertMilestone(ctx, db.New(r.pool), userID, m)
	}

	_, err := WithRetry[struct{}](ctx, upsertFn, 0)
	return err //nolint: wrapcheck // error from wrapped function
}

func upsertMilestone(ctx context.Context,
	queries *db.Queries, userID string, m milestone.Milestone,
) error {
	err := queries.UpsertMilestone(ctx, db.UpsertMilestoneParams{
		IDUser:      userID,
		Key:         m.Key,
		Completed:   m.Completed,
		CompletedAt: toTimestamptz(m.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert milestone %s for user %s: %w", m.Key, userID, err)
	}
	return nil
}

// ListMilestones returns the stored completion state only; labels and credits
// come from the milestone catalog.
func (r *MilestoneRepository) ListMilestones(ctx context.Context,
	userID string,
) ([]milestone.Milestone, error) {
	listLogic := func() ([]milestone.Milestone, error) {
		queries := db.New(r.pool)
		rows, err := queries.ListMilestonesByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list milestones by userID %s: %w", userID, err)
		}

		ms := make([]milestone.Milestone, len(rows))
		for i, row := range rows {
			ms[i] = milestone.Milestone{
				CompletedAt: row.CompletedAt.Time,
				Key:         row.Key,
				Completed:   row.Completed,
			}
		}
		return ms, nil
	}

	return WithRetry[[]milestone.Milestone](ctx, listLogic, 0) //nolint: wrapcheck // error from wrapped function
}
