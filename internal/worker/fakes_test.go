package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"avyyan/internal/model"
	"avyyan/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// fakeQueue is an in-memory stand-in for the Redis lists.
type fakeQueue struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newFakeQueue() *fakeQueue { return &fakeQueue{lists: map[string][]string{}} }

func (f *fakeQueue) LPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range values {
		var s string
		switch t := v.(type) {
		case []byte:
			s = string(t)
		case string:
			s = t
		}
		f.lists[key] = append([]string{s}, f.lists[key]...)
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeQueue) BRPop(ctx context.Context, _ time.Duration, keys ...string) *redis.StringSliceCmd {
	if v, ok := f.pop(keys); ok {
		return redis.NewStringSliceResult(v, nil)
	}
	t := time.NewTimer(5 * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return redis.NewStringSliceResult(nil, ctx.Err())
	case <-t.C:
		return redis.NewStringSliceResult(nil, redis.Nil)
	}
}

func (f *fakeQueue) LLen(_ context.Context, key string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeQueue) pop(keys []string) ([]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		l := f.lists[k]
		if len(l) == 0 {
			continue
		}
		v := l[len(l)-1]
		f.lists[k] = l[:len(l)-1]
		return []string{k, v}, true
	}
	return nil, false
}

func (f *fakeQueue) items(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lists[key]...)
}

// stubNotificationRepo implements only what the email worker and cron use.
type stubNotificationRepo struct {
	repository.NotificationRepository
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.Notification
	updates int
}

func newStubNotificationRepo(ns ...*model.Notification) *stubNotificationRepo {
	r := &stubNotificationRepo{byID: map[uuid.UUID]*model.Notification{}}
	for _, n := range ns {
		r.byID[n.ID] = n
	}
	return r
}

func (r *stubNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *n
	return &cp, nil
}

func (r *stubNotificationRepo) Update(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.byID[n.ID] = &cp
	r.updates++
	return nil
}

func (r *stubNotificationRepo) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.byID {
		if n.EmailStatus == model.EmailPending && n.NextRetryAt != nil && !n.NextRetryAt.After(now) {
			out = append(out, *n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) get(id uuid.UUID) model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.byID[id]
}

type stubUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*model.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type sentMail struct{ to, subject string }

type stubMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *stubMailer) Send(to, subject, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject})
	return nil
}
