package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/medminder/internal/adherence"
	"github.com/jwalitptl/medminder/internal/model"
	"github.com/jwalitptl/medminder/internal/notifier"
	"github.com/jwalitptl/medminder/internal/repository"
	"github.com/jwalitptl/medminder/internal/schedule"
	apperrors "github.com/jwalitptl/medminder/pkg/errors"
	"github.com/jwalitptl/medminder/pkg/logger"
	"github.com/jwalitptl/medminder/pkg/messaging"
	"github.com/jwalitptl/medminder/pkg/metrics"
)

// DefaultGracePeriod is how long after a scheduled dose the sweep waits
// before judging it missed.
const DefaultGracePeriod = 10 * time.Minute

const eventChannel = "events"

type Service struct {
	prescriptions repository.PrescriptionRepository
	ledger        repository.ReminderRepository
	patients      repository.PatientRepository
	matcher       *adherence.Matcher
	notifier      notifier.Notifier
	broker        messaging.Broker
	logger        *logger.Logger
	metrics       *metrics.Metrics
	grace         time.Duration
}

func NewService(
	prescriptions repository.PrescriptionRepository,
	ledger repository.ReminderRepository,
	patients repository.PatientRepository,
	matcher *adherence.Matcher,
	n notifier.Notifier,
	broker messaging.Broker,
	logger *logger.Logger,
	m *metrics.Metrics,
	grace time.Duration,
) *Service {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Service{
		prescriptions: prescriptions,
		ledger:        ledger,
		patients:      patients,
		matcher:       matcher,
		notifier:      n,
		broker:        broker,
		logger:        logger,
		metrics:       m,
		grace:         grace,
	}
}

// Sweep walks every active prescription and sends at most one reminder per
// missed scheduled dose. Per-dose failures are logged and skipped so one bad
// dose cannot stall the rest of the sweep; the dose stays eligible for the
// next tick because no ledger entry is written for it.
func (s *Service) Sweep(ctx context.Context, now time.Time) error {
	timer := prometheus.NewTimer(s.metrics.SweepDuration)
	defer timer.ObserveDuration()

	graceBoundary := now.Add(-s.grace)

	prescriptions, err := s.prescriptions.ListActive(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list active prescriptions: %w", err)
	}

	for _, p := range prescriptions {
		if p.Expired(now) {
			continue
		}
		s.metrics.PrescriptionsSwept.Inc()
		s.sweepPrescription(ctx, p, graceBoundary)
	}
	return nil
}

func (s *Service) sweepPrescription(ctx context.Context, p *model.Prescription, graceBoundary time.Time) {
	for _, rule := range p.Medicines {
		freq := schedule.ParseFrequency(rule.Frequency)
		if freq.AsNeeded {
			continue
		}
		window := adherence.Window(freq)

		for _, scheduledAt := range schedule.Expand(rule, p.CreatedAt, graceBoundary) {
			s.metrics.DosesEvaluated.Inc()
			if err := s.processDose(ctx, p, rule.Name, scheduledAt, window); err != nil {
				s.logger.Error(err, "failed to process dose",
					"prescription_id", p.ID.String(),
					"medicine", rule.Name,
					"scheduled_at", scheduledAt.Format(time.RFC3339),
				)
			}
		}
	}
}

func (s *Service) processDose(ctx context.Context, p *model.Prescription, medicine string, scheduledAt time.Time, window time.Duration) error {
	reminded, err := s.ledger.Exists(ctx, p.ID, medicine, scheduledAt)
	if err != nil {
		return fmt.Errorf("failed to check reminder ledger: %w", err)
	}
	if reminded {
		return nil
	}

	taken, err := s.matcher.Taken(ctx, p.ID, medicine, scheduledAt, window)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	patient, err := s.patients.Get(ctx, p.PatientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to look up patient: %w", err)
	}
	phone := patient.ContactPhone()
	if phone == "" {
		// No contact channel yet. Leave the dose unrecorded so it is
		// retried once a phone number appears.
		s.logger.Debug("skipping reminder, no phone on file",
			"patient_id", p.PatientID.String(),
		)
		return nil
	}

	message := fmt.Sprintf(
		"Reminder: You missed your %s dose scheduled at %s. Please log in to the portal to mark it as taken.",
		medicine, scheduledAt.Format("15:04 on 2006-01-02"),
	)

	deliveryID, err := s.notifier.Send(ctx, phone, message)
	if err != nil {
		s.metrics.RemindersFailed.Inc()
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	rec := &model.ReminderRecord{
		PrescriptionID: p.ID,
		Medicine:       medicine,
		ScheduledAt:    scheduledAt,
	}
	if err := s.ledger.Create(ctx, rec); err != nil {
		return fmt.Errorf("failed to record reminder: %w", err)
	}

	s.metrics.RemindersSent.Inc()
	s.publishSent(ctx, p, medicine, scheduledAt, deliveryID)
	return nil
}

// publishSent emits a reminder.sent event for downstream consumers.
// Fire-and-forget: delivery already happened and is recorded in the ledger.
func (s *Service) publishSent(ctx context.Context, p *model.Prescription, medicine string, scheduledAt time.Time, deliveryID string) {
	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, eventChannel, messaging.Message{
		Type: "reminder.sent",
		Payload: map[string]interface{}{
			"prescription_id": p.ID.String(),
			"patient_id":      p.PatientID.String(),
			"medicine":        medicine,
			"scheduled_at":    scheduledAt.Format(time.RFC3339),
			"delivery_id":     deliveryID,
		},
	})
	if err != nil {
		s.logger.Warn("failed to publish reminder event", "error", err.Error())
	}
}
