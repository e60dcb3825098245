package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_ProcessesEnqueuedJob(t *testing.T) {
	q := newFakeQueue()
	got := make(chan AllotmentSheetPayload, 1)
	handlers := map[string]Handler{
		QueueAllotmentSheet: HandlerFunc(func(_ context.Context, raw json.RawMessage) error {
			var p AllotmentSheetPayload
			require.NoError(t, json.Unmarshal(raw, &p))
			got <- p
			return nil
		}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPool(q, handlers, 2).Run(ctx) }()

	want := AllotmentSheetPayload{AllotmentID: [16]byte{1}}
	require.NoError(t, NewDispatcher(q).EnqueueAllotmentSheet(ctx, want))

	select {
	case p := <-got:
		assert.Equal(t, want, p)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestPool_FailingJobEndsInDLQ(t *testing.T) {
	q := newFakeQueue()
	p := NewPool(q, map[string]Handler{
		QueueAllotmentSheet: HandlerFunc(func(context.Context, json.RawMessage) error {
			return errors.New("disk full")
		}),
	}, 1)

	ctx := context.Background()
	require.NoError(t, NewDispatcher(q).EnqueueAllotmentSheet(ctx, AllotmentSheetPayload{}))

	for i := 0; i < MaxJobAttempts; i++ {
		v, ok := q.pop([]string{QueueAllotmentSheet})
		require.True(t, ok, "attempt %d should be queued", i+1)
		p.processJob(ctx, v[0], v[1])
	}

	assert.Empty(t, q.items(QueueAllotmentSheet))
	dlq := q.items(DLQPrefix + QueueAllotmentSheet)
	require.Len(t, dlq, 1)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(dlq[0]), &entry))
	assert.Equal(t, "allotment_sheet", entry.JobType)
	assert.Equal(t, "disk full", entry.Reason)
	assert.Equal(t, MaxJobAttempts, entry.Attempts)

	n, err := DLQLength(ctx, q, QueueAllotmentSheet)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPool_MalformedEnvelopeGoesToDLQ(t *testing.T) {
	q := newFakeQueue()
	p := NewPool(q, map[string]Handler{
		QueueNotificationEmail: HandlerFunc(func(context.Context, json.RawMessage) error {
			t.Fatal("handler must not run")
			return nil
		}),
	}, 1)

	p.processJob(context.Background(), QueueNotificationEmail, "{not json")

	dlq := q.items(DLQPrefix + QueueNotificationEmail)
	require.Len(t, dlq, 1)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(dlq[0]), &entry))
	assert.Equal(t, "malformed job envelope", entry.Reason)
}

func TestPool_RunWithoutHandlersReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, NewPool(newFakeQueue(), nil, 0).Run(ctx))
}
