package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"safarinova/internal/domain"
	"safarinova/internal/events"
	"safarinova/internal/models"

	"github.com/rs/zerolog"
)

// AuditWorker drains booking lifecycle events into the audit_log table
// asynchronously, so operation latency never depends on audit writes.
type AuditWorker struct {
	sink   domain.AuditSink
	policy RetryPolicy
	queue  chan *events.Event
	log    zerolog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

func NewAuditWorker(sink domain.AuditSink, queueSize int, logger *zerolog.Logger) *AuditWorker {
	if queueSize <= 0 {
		queueSize = models.AuditQueueSize
	}
	var workerLogger zerolog.Logger
	if logger != nil {
		workerLogger = logger.With().Str("component", "audit-worker").Logger()
	}
	return &AuditWorker{
		sink: sink,
		policy: RetryPolicy{
			MaxRetries:    3,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			BackoffFactor: 2,
		},
		queue: make(chan *events.Event, queueSize),
		log:   workerLogger,
		done:  make(chan struct{}),
	}
}

// Handle enqueues an event for processing. Satisfies events.EventHandler.
// A full queue drops the event with a warning rather than blocking the
// operation path.
func (w *AuditWorker) Handle(event *events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.log.Warn().Str("event_type", event.Type).Msg("audit queue full, dropping event")
	}
	return nil
}

// Start launches the processing loop. The loop exits when ctx is
// cancelled and the queue has drained.
func (w *AuditWorker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go w.run(ctx)
	})
}

// Stop waits for the processing loop to finish, up to the ctx deadline.
func (w *AuditWorker) Stop(ctx context.Context) {
	w.stopOnce.Do(func() { close(w.queue) })
	select {
	case <-w.done:
	case <-ctx.Done():
		w.log.Warn().Msg("audit worker stop timed out")
	}
}

func (w *AuditWorker) run(ctx context.Context) {
	defer close(w.done)
	for event := range w.queue {
		w.process(ctx, event)
	}
}

func (w *AuditWorker) process(ctx context.Context, event *events.Event) {
	entry, err := entryFromEvent(event)
	if err != nil {
		w.log.Warn().Err(err).Str("event_type", event.Type).Msg("malformed audit event payload")
		return
	}

	for attempt := 1; ; attempt++ {
		err := w.sink.InsertAuditEntry(ctx, entry)
		if err == nil {
			return
		}
		if attempt > w.policy.MaxRetries {
			w.log.Error().Err(err).
				Str("event_type", event.Type).
				Int64("booking_id", entry.BookingID).
				Msg("audit write failed after retries")
			return
		}

		delay := w.policy.NextDelay(attempt)
		w.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("audit write failed, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
	}
}

func entryFromEvent(event *events.Event) (*models.AuditEntry, error) {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, err
	}
	return &models.AuditEntry{
		EventType:   event.Type,
		BookingID:   payload.BookingID,
		ActorUserID: payload.ActorUserID,
		Detail:      string(event.Payload),
		CreatedAt:   event.CreatedAt,
	}, nil
}
