// Package worker runs the background payout processor.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/billing"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/notifications"
	"github.com/aurelius-events/backend/pkg/queue"
)

// Processor consumes payout jobs and drives payouts through
// pending -> processing -> completed. Each step is idempotent, so a job that
// is redelivered after a crash resumes where the previous run stopped.
type Processor struct {
	jobs     *queue.Queue
	billing  *billing.Repository
	notifier *notifications.Publisher
	logger   *zap.Logger
}

// NewProcessor creates a payout processor. notifier may be nil.
func NewProcessor(jobs *queue.Queue, billingRepo *billing.Repository, notifier *notifications.Publisher, logger *zap.Logger) *Processor {
	return &Processor{jobs: jobs, billing: billingRepo, notifier: notifier, logger: logger}
}

// Run consumes jobs until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("payout processor started")
	for {
		job, _, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}
		if job.Type != queue.JobTypePayout {
			p.logger.Warn("unknown job type", zap.String("type", string(job.Type)))
			continue
		}
		if err := p.handle(ctx, job); err != nil {
			p.logger.Error("payout job failed",
				zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))
			if job.Attempt+1 >= queue.MaxRetries {
				p.markFailed(ctx, job)
			}
			if err := p.jobs.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}
}

func (p *Processor) handle(ctx context.Context, job *queue.Job) error {
	var payload queue.PayoutPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		p.logger.Warn("bad payout payload, dropping", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	claimed, err := p.billing.ClaimPayout(ctx, payload.PayoutID)
	if err != nil {
		return err
	}
	if !claimed {
		// Terminal state already, or the payout vanished. Either way this
		// delivery has nothing left to do.
		current, err := p.billing.GetPayout(ctx, payload.PayoutID)
		if err != nil {
			return err
		}
		if current == nil {
			p.logger.Warn("payout missing", zap.String("payout_id", payload.PayoutID.String()))
			return nil
		}
		if current.Status == models.PayoutStatusCompleted {
			p.logger.Info("payout already completed", zap.String("payout_id", payload.PayoutID.String()))
		}
		return nil
	}

	completed, err := p.billing.CompletePayout(ctx, payload.PayoutID, payload.TransactionReference)
	if err != nil {
		return err
	}
	if !completed {
		p.logger.Warn("payout not completable", zap.String("payout_id", payload.PayoutID.String()))
		return nil
	}

	payout, err := p.billing.GetPayout(ctx, payload.PayoutID)
	if err == nil && payout != nil {
		p.notifier.Publish(ctx, notifications.Notification{
			Type:      notifications.TypePayoutCompleted,
			Recipient: payout.OrganizerID.String(),
			Payload: map[string]interface{}{
				"payout_id":             payout.ID.String(),
				"amount":                payout.Amount.String(),
				"currency":              payout.Currency,
				"transaction_reference": payout.TransactionReference,
			},
		})
	}
	p.logger.Info("payout completed",
		zap.String("payout_id", payload.PayoutID.String()),
		zap.String("transaction_reference", payload.TransactionReference))
	return nil
}

func (p *Processor) markFailed(ctx context.Context, job *queue.Job) {
	var payload queue.PayoutPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return
	}
	if err := p.billing.FailPayout(ctx, payload.PayoutID, "processing failed after retries"); err != nil {
		p.logger.Error("mark payout failed", zap.String("payout_id", payload.PayoutID.String()), zap.Error(err))
	}
}
