package printing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job describes a print job handed to the physical printing pipeline
type Job struct {
	EventID  uuid.UUID
	AgentID  uuid.UUID
	ItemID   *uuid.UUID
	Pages    int
	QueuedAt time.Time
}

// Dispatcher sends print jobs toward the physical printer. Dispatch is
// fire-and-forget: accounting never waits on, or fails because of, the
// printer.
type Dispatcher interface {
	// Dispatch enqueues a job. It never blocks the caller; when the
	// queue is full the job is dropped and logged.
	Dispatch(job Job)

	// Stop drains the queue and stops the workers
	Stop(ctx context.Context) error
}

// Sink is the downstream that actually performs printing. The real
// implementation talks to printer hardware or a spooler; tests and
// development use a logging stub.
type Sink interface {
	Print(ctx context.Context, job Job) error
}

// AsyncDispatcher runs a small worker pool over a bounded queue
type AsyncDispatcher struct {
	sink    Sink
	queue   chan Job
	timeout time.Duration
	logger  *zap.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopMu   sync.RWMutex
	stopped  bool
}

// NewAsyncDispatcher creates and starts an async dispatcher
func NewAsyncDispatcher(sink Sink, queueSize, workers int, timeout time.Duration, logger *zap.Logger) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}

	d := &AsyncDispatcher{
		sink:    sink,
		queue:   make(chan Job, queueSize),
		timeout: timeout,
		logger:  logger.Named("print-dispatcher"),
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	return d
}

// Dispatch enqueues a job without blocking. Jobs dispatched after Stop
// are dropped and logged; the queue channel is closed by then.
func (d *AsyncDispatcher) Dispatch(job Job) {
	if job.QueuedAt.IsZero() {
		job.QueuedAt = time.Now()
	}

	// Holding the read lock keeps Stop from closing the queue
	// between the check and the send
	d.stopMu.RLock()
	defer d.stopMu.RUnlock()

	if d.stopped {
		d.logger.Warn("dispatcher stopped, dropping job",
			zap.String("event_id", job.EventID.String()),
			zap.String("agent_id", job.AgentID.String()),
			zap.Int("pages", job.Pages),
		)
		return
	}

	select {
	case d.queue <- job:
	default:
		d.logger.Warn("print queue full, dropping job",
			zap.String("event_id", job.EventID.String()),
			zap.String("agent_id", job.AgentID.String()),
			zap.Int("pages", job.Pages),
		)
	}
}

// Stop drains the queue and stops the workers
func (d *AsyncDispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() {
		d.stopMu.Lock()
		d.stopped = true
		close(d.queue)
		d.stopMu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AsyncDispatcher) worker() {
	defer d.wg.Done()

	for job := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Print(ctx, job); err != nil {
			d.logger.Warn("print dispatch failed",
				zap.String("event_id", job.EventID.String()),
				zap.String("agent_id", job.AgentID.String()),
				zap.Int("pages", job.Pages),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// LogSink logs jobs instead of printing them. Used in development and
// wherever no printer backend is configured.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a logging sink
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("print-sink")}
}

// Print logs the job
func (s *LogSink) Print(_ context.Context, job Job) error {
	s.logger.Info("print job",
		zap.String("event_id", job.EventID.String()),
		zap.String("agent_id", job.AgentID.String()),
		zap.Int("pages", job.Pages),
	)
	return nil
}

var (
	_ Dispatcher = (*AsyncDispatcher)(nil)
	_ Sink       = (*LogSink)(nil)
)
