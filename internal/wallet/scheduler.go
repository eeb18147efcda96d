package wallet

import (
	"context"
	"log/slog"
	"time"

	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
)

const DefaultBonusCheckInterval = time.Hour

// Scheduler periodically grants the monthly bonus to every open wallet.
type Scheduler struct {
	manager  *Manager
	interval time.Duration
}

func NewScheduler(manager *Manager, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultBonusCheckInterval
	}
	return &Scheduler{manager: manager, interval: interval}
}

func (s *Scheduler) Run(ctx context.Context) {
	log := logger.ForModule(ctx, "bonus_scheduler")
	log.LogAttrs(ctx, slog.LevelInfo, "running", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.LogAttrs(ctx, slog.LevelInfo, "stop signal received, exiting...")
			return
		case <-ticker.C:
			awarded := s.Tick(ctx)
			if awarded > 0 {
				log.LogAttrs(ctx, slog.LevelInfo, "monthly bonus granted",
					slog.Int("wallets", awarded))
			}
		}
	}
}

// Tick checks every open wallet once and returns how many got a bonus.
func (s *Scheduler) Tick(ctx context.Context) int {
	awarded := 0
	now := s.manager.now()
	for _, l := range s.manager.Ledgers() {
		if l.CheckMonthlyBonus(ctx, now) {
			s.manager.observer.BonusAwarded()
			awarded++
		}
	}
	return awarded
}
