package syncer

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/talx-hub/eisc-ledger/internal/ledger"
	"github.com/talx-hub/eisc-ledger/internal/model"
	"github.com/talx-hub/eisc-ledger/internal/serviceerrs"
	"github.com/talx-hub/eisc-ledger/internal/utils/logger"
)

const (
	DefaultWorkers     = 4
	DefaultQueueSize   = 256
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 200 * time.Millisecond
)

var errQueueFull = errors.New("sync queue is full")

// Target is one destination every ledger change is written to.
type Target interface {
	Name() string
	Apply(ctx context.Context, ch ledger.Change) error
}

type Recorder interface {
	PersistFailed(target string)
	ChangeDropped()
	QueueDepth(delta float64)
}

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}

type nopRecorder struct{}

func (nopRecorder) PersistFailed(string) {}
func (nopRecorder) ChangeDropped()       {}
func (nopRecorder) QueueDepth(float64)   {}

// Syncer is a write-behind queue between the in-memory ledgers and the
// persistence targets. Changes of one user always land on the same worker, so
// they are applied in the order they were recorded.
type Syncer struct {
	metrics Recorder
	targets []Target
	shards  []chan ledger.Change
	wg      sync.WaitGroup
	cfg     Config
	mu      sync.RWMutex
	closed  bool
}

func New(cfg Config, metrics Recorder, targets ...Target) *Syncer {
	cfg = cfg.withDefaults()
	if metrics == nil {
		metrics = nopRecorder{}
	}
	shards := make([]chan ledger.Change, cfg.Workers)
	for i := range shards {
		shards[i] = make(chan ledger.Change, cfg.QueueSize)
	}
	return &Syncer{
		metrics: metrics,
		targets: targets,
		shards:  shards,
		cfg:     cfg,
	}
}

// Record enqueues the change without blocking. When the user's shard is full the
// change is dropped from the queue and reported as a persistence error.
func (s *Syncer) Record(ctx context.Context, ch ledger.Change) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.fail(ctx, ch, "queue", 0, errors.New("syncer is stopped"))
		return
	}

	select {
	case s.shards[s.shardOf(ch.UserID)] <- ch:
		s.metrics.QueueDepth(1)
	default:
		s.metrics.ChangeDropped()
		s.fail(ctx, ch, "queue", 0, errQueueFull)
	}
}

// Start runs one worker per shard. Workers exit when ctx is done or after Stop
// has drained their shard.
func (s *Syncer) Start(ctx context.Context) {
	log := logger.ForModule(ctx, "syncer")
	for i := range s.shards {
		s.wg.Add(1)
		go s.worker(ctx, s.shards[i])
	}
	log.LogAttrs(ctx, slog.LevelInfo,
		"all workers started", slog.Int("count", len(s.shards)))
}

// Stop refuses new changes, waits for the queued ones to be applied and
// returns once every worker has exited.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		for _, shard := range s.shards {
			close(shard)
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Syncer) shardOf(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(s.shards)))
}

func (s *Syncer) worker(ctx context.Context, jobs <-chan ledger.Change) {
	defer s.wg.Done()

	log := logger.ForModule(ctx, "syncer")
	defer log.LogAttrs(ctx, slog.LevelDebug, "worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-jobs:
			if !ok {
				return
			}
			s.metrics.QueueDepth(-1)
			for _, t := range s.targets {
				s.apply(ctx, t, ch)
			}
		}
	}
}

func (s *Syncer) apply(ctx context.Context, t Target, ch ledger.Change) {
	var err error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err = t.Apply(ctx, ch); err == nil {
			return
		}
		if attempt == s.cfg.MaxAttempts {
			break
		}
		if werr := wait(ctx, time.Duration(attempt)*s.cfg.RetryDelay); werr != nil {
			s.fail(ctx, ch, t.Name(), attempt, errors.Join(err, werr))
			return
		}
	}
	s.fail(ctx, ch, t.Name(), s.cfg.MaxAttempts, err)
}

func (s *Syncer) fail(ctx context.Context, ch ledger.Change, target string, attempts int, err error) {
	perr := &serviceerrs.PersistenceError{
		Err:      err,
		Target:   target,
		UserID:   ch.UserID,
		Change:   string(ch.Kind),
		Attempts: attempts,
	}
	s.metrics.PersistFailed(target)
	logger.FromContext(ctx).LogAttrs(ctx,
		slog.LevelError,
		"ledger change was not persisted",
		slog.String("target", target),
		slog.String("transaction_id", ch.Transaction.ID),
		slog.Any(model.KeyLoggerError, perr),
	)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck // caller joins it
	case <-timer.C:
		return nil
	}
}
