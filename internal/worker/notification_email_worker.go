package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"avyyan/internal/infra"
	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxEmailRetries is how many failed deliveries a notification email gets
// before it is marked failed and moved to the DLQ.
const MaxEmailRetries = 5

// NotificationEmailPayload is the job payload for QueueNotificationEmail.
type NotificationEmailPayload struct {
	NotificationID uuid.UUID `json:"notification_id"`
}

// MailSender is implemented by *infra.Mailer.
type MailSender interface {
	Send(to, subject, body, attachmentPath string) error
}

// NotificationEmailWorker mirrors in-app notifications to the user's email.
// Failed deliveries are not re-queued; they are scheduled on the
// notification row and picked up by the retry cron.
type NotificationEmailWorker struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	mailer        MailSender
	breaker       *infra.CircuitBreaker
	q             Queue
	now           func() time.Time
}

func NewNotificationEmailWorker(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	mailer MailSender,
	breaker *infra.CircuitBreaker,
	q Queue,
) *NotificationEmailWorker {
	return &NotificationEmailWorker{
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		breaker:       breaker,
		q:             q,
		now:           time.Now,
	}
}

func (w *NotificationEmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p NotificationEmailPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("notification_email: invalid payload: %w", err)
	}
	n, err := w.notifications.FindByID(ctx, p.NotificationID)
	if err != nil {
		return fmt.Errorf("notification_email: load notification %s: %w", p.NotificationID, err)
	}
	if n.EmailStatus != model.EmailPending {
		return nil
	}
	return w.Deliver(ctx, n)
}

// Deliver attempts one send and records the outcome on n.
func (w *NotificationEmailWorker) Deliver(ctx context.Context, n *model.Notification) error {
	user, err := w.users.FindByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("notification_email: load user %s: %w", n.UserID, err)
	}
	if user.Email == nil || *user.Email == "" {
		n.EmailStatus = model.EmailNone
		n.NextRetryAt = nil
		return w.notifications.Update(ctx, n)
	}

	disabled := false
	sendErr := w.breaker.Execute(func() error {
		err := w.mailer.Send(*user.Email, n.Title, n.Message, "")
		if errors.Is(err, infra.ErrMailDisabled) {
			disabled = true
			return nil
		}
		return err
	})

	switch {
	case disabled:
		n.EmailStatus = model.EmailNone
		n.NextRetryAt = nil

	case sendErr == nil:
		n.EmailStatus = model.EmailSent
		n.NextRetryAt = nil
		n.LastError = nil
		log.Info().Str("notification_id", n.ID.String()).Str("to", *user.Email).Msg("notification_email: sent")

	default:
		n.RetryCount++
		msg := sendErr.Error()
		n.LastError = &msg
		if n.RetryCount >= MaxEmailRetries {
			n.EmailStatus = model.EmailFailed
			n.NextRetryAt = nil
			payload, _ := json.Marshal(NotificationEmailPayload{NotificationID: n.ID})
			SendToDLQ(ctx, w.q, QueueNotificationEmail, "notification_email", payload,
				fmt.Sprintf("max retries (%d) exceeded: %s", MaxEmailRetries, msg), n.RetryCount)
		} else {
			next := w.now().Add(computeRetryBackoff(n.RetryCount))
			n.NextRetryAt = &next
			log.Warn().
				Err(sendErr).
				Str("notification_id", n.ID.String()).
				Int("retry_count", n.RetryCount).
				Time("next_retry_at", next).
				Msg("notification_email: delivery failed, scheduled retry")
		}
	}

	return w.notifications.Update(ctx, n)
}

// computeRetryBackoff doubles from 30s per attempt, capped at 30 minutes.
func computeRetryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := 30 * time.Second
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= 30*time.Minute {
			return 30 * time.Minute
		}
	}
	return d
}
