package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotificationEmail = "jobs:notification_email"
	QueueAllotmentSheet    = "jobs:allotment_sheet"

	// MaxJobAttempts bounds how often a failing job is re-queued before it
	// goes to the dead letter queue.
	MaxJobAttempts = 3

	popTimeout = 5 * time.Second
)

// Queue is the subset of the Redis API the pool needs. *redis.Client satisfies it.
type Queue interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job. A returned error re-queues the job.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

func (f HandlerFunc) Process(ctx context.Context, payload json.RawMessage) error {
	return f(ctx, payload)
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	q Queue
}

func NewDispatcher(q Queue) *Dispatcher {
	return &Dispatcher{q: q}
}

// EnqueueNotificationEmail queues the email copy of a notification.
func (d *Dispatcher) EnqueueNotificationEmail(ctx context.Context, p NotificationEmailPayload) error {
	return d.enqueue(ctx, QueueNotificationEmail, "notification_email", p)
}

// EnqueueAllotmentSheet queues PDF generation for an allotment.
func (d *Dispatcher) EnqueueAllotmentSheet(ctx context.Context, p AllotmentSheetPayload) error {
	return d.enqueue(ctx, QueueAllotmentSheet, "allotment_sheet", p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.q, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, q Queue, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.LPush(ctx, queue, encoded).Err()
}

// Pool consumes every queue that has a registered handler.
type Pool struct {
	q        Queue
	handlers map[string]Handler
	size     int
}

// NewPool builds a pool of size workers. handlers is keyed by queue name.
func NewPool(q Queue, handlers map[string]Handler, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{q: q, handlers: handlers, size: size}
}

// Run blocks until ctx is cancelled and every worker goroutine has returned.
func (p *Pool) Run(ctx context.Context) error {
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	if len(queues) == 0 {
		<-ctx.Done()
		return nil
	}

	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id, queues)
		}(i)
	}
	log.Info().Int("workers", p.size).Strs("queues", queues).Msg("worker pool started")
	wg.Wait()
	log.Info().Msg("worker pool stopped")
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int, queues []string) {
	for {
		if ctx.Err() != nil {
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Blocking pop, waits up to popTimeout then loops to check ctx
		result, err := p.q.BRPop(ctx, popTimeout, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: dequeue failed")
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.q, queue, "unknown", json.RawMessage(raw), "malformed job envelope", 0)
		return
	}
	h, ok := p.handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no handler registered")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, p.q, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("queue", queue).Str("job_type", job.Type).Int("attempt", job.Attempts).Msg("job failed, re-queued")
	if pushErr := push(ctx, p.q, queue, job); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("failed to re-queue job")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
