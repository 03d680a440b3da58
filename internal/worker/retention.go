package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/medminder/internal/repository"
	"github.com/jwalitptl/medminder/pkg/logger"
	"github.com/jwalitptl/medminder/pkg/metrics"
)

// RetentionWorker deletes prescriptions whose validity window has fully
// elapsed. Deletion cascades to taken doses and reminder records.
type RetentionWorker struct {
	repo          repository.PrescriptionRepository
	sweepInterval time.Duration
	logger        *logger.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
}

func NewRetentionWorker(repo repository.PrescriptionRepository, sweepInterval time.Duration, logger *logger.Logger, m *metrics.Metrics) *RetentionWorker {
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &RetentionWorker{
		repo:          repo,
		sweepInterval: sweepInterval,
		logger:        logger,
		metrics:       m,
		now:           time.Now,
	}
}

func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	w.logger.Info("retention worker started", "interval", w.sweepInterval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("retention worker shutting down")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error(err, "retention sweep failed")
			}
		}
	}
}

func (w *RetentionWorker) sweep(ctx context.Context) error {
	now := w.now()

	// Only prescriptions at least one full calendar day old are candidates.
	cutoff := now.AddDate(0, 0, -1)

	candidates, err := w.repo.ListCreatedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list prescriptions: %w", err)
	}

	purged := 0
	for _, p := range candidates {
		if !Elapsed(p.CreatedAt, p.DurationDays, now) {
			continue
		}
		if err := w.repo.Delete(ctx, p.ID); err != nil {
			w.logger.Error(err, "failed to delete expired prescription", "prescription_id", p.ID.String())
			continue
		}
		w.metrics.PrescriptionsPurged.Inc()
		purged++
	}

	if purged > 0 {
		w.logger.Info("purged expired prescriptions", "count", purged)
	}
	return nil
}

// Elapsed reports whether a prescription's validity window has fully passed,
// at date granularity: the number of calendar days between creation and now
// must reach the duration.
func Elapsed(createdAt time.Time, durationDays int, now time.Time) bool {
	if durationDays <= 0 {
		return false
	}
	created := midnight(createdAt.In(now.Location()))
	today := midnight(now)
	days := int(today.Sub(created).Hours() / 24)
	return days >= durationDays
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
