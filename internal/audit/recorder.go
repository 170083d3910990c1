// Package audit records permission decisions for later inspection. Recording
// is append-only and never blocks or fails the request being audited.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ragguard/internal/domain/repositories"
)

// Recorder accepts audit entries from request paths. Implementations must
// return quickly and must never propagate failures to the caller.
type Recorder interface {
	Record(entry *repositories.AuditEntry)
}

// AsyncRecorder buffers entries on a channel and drains them to an
// AuditStore on a background goroutine. When the buffer is full the entry is
// dropped and counted rather than blocking the request.
type AsyncRecorder struct {
	store   repositories.AuditStore
	entries chan *repositories.AuditEntry
	dropped atomic.Int64
	logger  *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewAsyncRecorder creates a recorder with the given buffer size and starts
// its drain goroutine. Call Close to flush and stop.
func NewAsyncRecorder(store repositories.AuditStore, bufferSize int, logger *slog.Logger) *AsyncRecorder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	r := &AsyncRecorder{
		store:   store,
		entries: make(chan *repositories.AuditEntry, bufferSize),
		logger:  logger,
		done:    make(chan struct{}),
	}
	go r.drain()
	return r
}

var _ Recorder = (*AsyncRecorder)(nil)

// Record enqueues an entry. It never blocks: if the buffer is full the entry
// is dropped and the drop counter incremented.
func (r *AsyncRecorder) Record(entry *repositories.AuditEntry) {
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now()
	}

	select {
	case r.entries <- entry:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns the number of entries discarded due to a full buffer.
func (r *AsyncRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting entries and flushes the buffer.
func (r *AsyncRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.entries)
		<-r.done
	})
}

func (r *AsyncRecorder) drain() {
	defer close(r.done)
	for entry := range r.entries {
		// Store failures are logged, never surfaced - auditing must not
		// fail the requests it observes.
		if err := r.store.Append(context.Background(), entry); err != nil {
			r.logger.Error("audit append failed",
				"error", err,
				"principal_id", entry.PrincipalID,
				"document_id", entry.DocumentID,
			)
		}
	}
}

// NopRecorder discards all entries. Useful in tests that do not assert on
// audit output.
type NopRecorder struct{}

func (NopRecorder) Record(*repositories.AuditEntry) {}

// LogStore is an AuditStore that writes entries to structured logs. It is
// the default store when no database is configured.
type LogStore struct {
	logger *slog.Logger
}

// NewLogStore creates a store that appends to the given logger.
func NewLogStore(logger *slog.Logger) *LogStore {
	return &LogStore{logger: logger}
}

var _ repositories.AuditStore = (*LogStore)(nil)

func (s *LogStore) Append(ctx context.Context, entry *repositories.AuditEntry) error {
	s.logger.Info("permission decision",
		"request_id", entry.RequestID,
		"principal_id", entry.PrincipalID,
		"document_id", entry.DocumentID,
		"action", entry.Action,
		"outcome", entry.Outcome,
		"source", entry.Source,
		"reason", entry.Reason,
		"latency_ms", entry.Latency.Milliseconds(),
	)
	return nil
}
