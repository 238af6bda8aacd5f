package kvs

import (
	"sync"

	"github.com/mousechain/mouse/pkg/acidtype"
	"github.com/mousechain/mouse/pkg/metrics"
)

// completionStatus is the shared, mutex-guarded outcome of a flushed batch.
type completionStatus int

const (
	notYet completionStatus = iota
	succeeded
	failed
)

// completion is attached to every WriteQuery drawn from the same batch.
// Flushing the batch resolves every attached completion at once.
type completion struct {
	mu     sync.Mutex
	status completionStatus
	err    error
}

type batchEntry struct {
	kind string // "insert" or "update", for metrics labeling

	id acidtype.Id

	intrinsic    []byte
	hasIntrinsic bool

	extrinsic    []byte
	hasExtrinsic bool
}

// WriteBatch coalesces Insert/Update calls into a single flush. A single
// instance is shared process-wide by a Store.
type WriteBatch struct {
	mu         sync.Mutex
	maxLen     int
	entries    []batchEntry
	completion *completion
}

func newWriteBatch(maxLen int) *WriteBatch {
	return &WriteBatch{maxLen: maxLen, completion: &completion{}}
}

// put appends entry to the batch and returns a WriteQuery sharing the
// batch's current completion cell. If the append brings the batch length to
// or past maxLen, it flushes immediately; this mirrors observed batching
// behavior (e.g. with maxLen=4, three puts queue without flushing and the
// fourth triggers the flush that resolves all four).
func (b *WriteBatch) put(s *Store, entry batchEntry) *WriteQuery {
	b.mu.Lock()
	b.entries = append(b.entries, entry)
	c := b.completion
	shouldFlush := len(b.entries) >= b.maxLen
	b.mu.Unlock()

	metrics.KVSBatchSize.Set(float64(len(b.entries)))

	if shouldFlush {
		b.flush(s)
	}
	return &WriteQuery{store: s, batch: b, completion: c}
}

// flush is a no-op if another caller already flushed since this WriteQuery
// was issued. Otherwise it writes extrinsic-before-intrinsic under the
// batch mutex and resolves the completion cell that was in effect.
func (b *WriteBatch) flush(s *Store) {
	b.mu.Lock()
	if len(b.entries) == 0 {
		b.mu.Unlock()
		return
	}
	entries := b.entries
	c := b.completion
	b.entries = nil
	b.completion = &completion{}

	timer := metrics.NewTimer()
	err := s.writeEntries(entries)
	timer.ObserveDuration(metrics.KVSBatchFlushDuration)
	metrics.KVSBatchSize.Set(0)

	c.mu.Lock()
	if err != nil {
		c.status = failed
		c.err = err
	} else {
		c.status = succeeded
	}
	c.mu.Unlock()
	b.mu.Unlock()

	outcome := "ok"
	if err != nil {
		outcome = "error"
		kvsLog.Error().Err(err).Int("batch_size", len(entries)).Msg("kvs batch flush failed")
	} else {
		kvsLog.Debug().Int("batch_size", len(entries)).Msg("kvs batch flushed")
	}
	for _, e := range entries {
		metrics.KVSQueriesTotal.WithLabelValues(e.kind, outcome).Inc()
	}
}

// WriteQuery is the future-like handle returned by Insert and Update.
type WriteQuery struct {
	store      *Store
	batch      *WriteBatch
	completion *completion
}

// IsFinished reports whether the batch this query belongs to has flushed.
func (w *WriteQuery) IsFinished() bool {
	w.completion.mu.Lock()
	defer w.completion.mu.Unlock()
	return w.completion.status != notYet
}

// Error returns the flush error, or nil if the query succeeded or has not
// finished yet.
func (w *WriteQuery) Error() error {
	w.completion.mu.Lock()
	defer w.completion.mu.Unlock()
	return w.completion.err
}

// Wait blocks until the batch containing this write has flushed, forcing
// the flush if it has not happened yet, and returns the outcome.
func (w *WriteQuery) Wait() error {
	w.completion.mu.Lock()
	pending := w.completion.status == notYet
	w.completion.mu.Unlock()

	if pending {
		w.batch.flush(w.store)
	}

	w.completion.mu.Lock()
	defer w.completion.mu.Unlock()
	return w.completion.err
}

// ReadQuery is the future-like handle returned by Fetch. The read happens
// lazily inside Wait rather than eagerly in Fetch.
type ReadQuery struct {
	store *Store
	id    acidtype.Id

	mu   sync.Mutex
	done bool
	row  *Row
	err  error
}

// IsFinished reports whether Wait has been called on this query.
func (q *ReadQuery) IsFinished() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.done
}

// Error returns the read error, or nil if the query succeeded or has not
// finished yet.
func (q *ReadQuery) Error() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Wait performs the read on first call and caches the result; subsequent
// calls return the same Row/error without touching the store again.
func (q *ReadQuery) Wait() (*Row, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return q.row, q.err
	}
	row, err := q.store.read(q.id)
	q.row, q.err, q.done = row, err, true
	return row, err
}
