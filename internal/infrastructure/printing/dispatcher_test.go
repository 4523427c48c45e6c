package printing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/infrastructure/printing"
)

type collectingSink struct {
	mu   sync.Mutex
	jobs []printing.Job
	err  error
}

func (s *collectingSink) Print(_ context.Context, job printing.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return s.err
}

func (s *collectingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func TestAsyncDispatcher_DeliversJobs(t *testing.T) {
	sink := &collectingSink{}
	d := printing.NewAsyncDispatcher(sink, 16, 2, time.Second, zap.NewNop())

	for i := 0; i < 5; i++ {
		d.Dispatch(printing.Job{EventID: uuid.New(), AgentID: uuid.New(), Pages: i + 1})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, 5, sink.count())
}

func TestAsyncDispatcher_SinkErrorDoesNotPropagate(t *testing.T) {
	sink := &collectingSink{err: errors.New("printer offline")}
	d := printing.NewAsyncDispatcher(sink, 16, 1, time.Second, zap.NewNop())

	// Dispatch never returns an error even when the sink fails
	d.Dispatch(printing.Job{EventID: uuid.New(), AgentID: uuid.New(), Pages: 3})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, 1, sink.count())
}

func TestAsyncDispatcher_SetsQueuedAt(t *testing.T) {
	sink := &collectingSink{}
	d := printing.NewAsyncDispatcher(sink, 4, 1, time.Second, zap.NewNop())

	d.Dispatch(printing.Job{EventID: uuid.New(), AgentID: uuid.New(), Pages: 1})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	require.Equal(t, 1, sink.count())
	assert.False(t, sink.jobs[0].QueuedAt.IsZero())
}

func TestAsyncDispatcher_DispatchAfterStopDropsJob(t *testing.T) {
	sink := &collectingSink{}
	d := printing.NewAsyncDispatcher(sink, 4, 1, time.Second, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	// Must not panic, and the job must not reach the sink
	assert.NotPanics(t, func() {
		d.Dispatch(printing.Job{EventID: uuid.New(), AgentID: uuid.New(), Pages: 2})
	})
	assert.Equal(t, 0, sink.count())
}

func TestAsyncDispatcher_StopIsIdempotent(t *testing.T) {
	sink := &collectingSink{}
	d := printing.NewAsyncDispatcher(sink, 4, 1, time.Second, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
}
