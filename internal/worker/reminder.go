package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/medminder/pkg/logger"
)

// Sweeper is the reminder driver invoked on every tick.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) error
}

// ReminderWorker runs the reminder sweep on a fixed wall-clock interval.
// A tick that arrives while a sweep is still running is skipped: two
// concurrent sweeps over the same prescription could both observe a missed
// dose before either writes its ledger entry.
type ReminderWorker struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *logger.Logger
	now      func() time.Time
	mu       sync.Mutex
}

func NewReminderWorker(sweeper Sweeper, interval time.Duration, logger *logger.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReminderWorker{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker shutting down")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) {
	if !w.mu.TryLock() {
		w.logger.Debug("previous sweep still running, skipping tick")
		return
	}
	defer w.mu.Unlock()

	if err := w.sweeper.Sweep(ctx, w.now()); err != nil {
		w.logger.Error(err, "reminder sweep failed")
	}
}
