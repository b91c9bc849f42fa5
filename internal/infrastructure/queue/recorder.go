package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/confhub/conference-portal/internal/api/metrics"
	"github.com/confhub/conference-portal/internal/core/domain"
	"github.com/confhub/conference-portal/internal/core/ports"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 512
	insertTimeout  = 5 * time.Second
)

// Recorder drains authentication audit events into the audit repository
// asynchronously so that login and revocation paths never block on audit
// I/O. When the buffer is full, events are dropped and counted instead of
// applying backpressure to authentication.
type Recorder struct {
	ch   chan domain.AuthEvent
	repo ports.AuditRepository
	log  zerolog.Logger

	workers int
}

// NewRecorder creates a Recorder with the given worker count and buffer
// size; non-positive values fall back to defaults.
func NewRecorder(workers, buffer int, repo ports.AuditRepository, log zerolog.Logger) *Recorder {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Recorder{
		ch:      make(chan domain.AuthEvent, buffer),
		repo:    repo,
		log:     log,
		workers: workers,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (r *Recorder) Start(ctx context.Context) {
	for i := 0; i < r.workers; i++ {
		go r.runWorker(ctx, i)
	}
}

// Record enqueues an event for persistence. Never blocks.
func (r *Recorder) Record(event domain.AuthEvent) {
	select {
	case r.ch <- event:
		metrics.AuditQueueDepth.Set(float64(len(r.ch)))
	default:
		metrics.AuditDroppedTotal.Inc()
		r.log.Warn().
			Str("type", string(event.Type)).
			Str("subject", event.Subject).
			Msg("audit queue saturated, event dropped")
	}
}

func (r *Recorder) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-r.ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.Set(float64(len(r.ch)))

			insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
			err := r.repo.Insert(insertCtx, event)
			cancel()
			if err != nil {
				r.log.Error().Err(err).
					Str("type", string(event.Type)).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
