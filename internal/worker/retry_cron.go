package worker

// retry_cron.go
// Background loop that periodically re-attempts notification emails stuck in
// email_status='pending' with a next_retry_at in the past. Skips ticks while
// the mail circuit breaker is open.

import (
	"context"
	"time"

	"avyyan/internal/infra"
	"avyyan/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCron holds the dependencies of the retry loop.
type RetryCron struct {
	Notifications repository.NotificationRepository
	Worker        *NotificationEmailWorker
	Breaker       *infra.CircuitBreaker
	Interval      time.Duration
}

// Run ticks until ctx is cancelled.
func (c *RetryCron) Run(ctx context.Context) error {
	interval := c.Interval
	if interval <= 0 {
		interval = retryTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Msg("retry_cron: started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retry_cron: shutting down")
			return nil
		case <-ticker.C:
			c.Tick(ctx, time.Now())
		}
	}
}

// Tick processes one batch of due retries.
func (c *RetryCron) Tick(ctx context.Context, now time.Time) {
	if c.Breaker.State() == infra.BreakerOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	pending, err := c.Notifications.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(pending) == 0 {
		return
	}
	log.Info().Int("count", len(pending)).Msg("retry_cron: retrying notification emails")

	for i := range pending {
		// The breaker may trip mid-batch
		if c.Breaker.State() == infra.BreakerOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}
		if err := c.Worker.Deliver(ctx, &pending[i]); err != nil {
			log.Error().Err(err).Str("notification_id", pending[i].ID.String()).Msg("retry_cron: update failed")
		}
	}
}
