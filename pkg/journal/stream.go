package journal

import "time"

// AggregateOutputStream multiplexes write/flush/close operations across
// every active entry in a Journal Set, routing each operation through the
// Fan-out Executor and Health Arbiter.
type AggregateOutputStream struct {
	set *Set
}

func newAggregateOutputStream(s *Set) *AggregateOutputStream {
	return &AggregateOutputStream{set: s}
}

// Write appends record to every active entry's stream, sequentially,
// skipping inactive entries.
func (a *AggregateOutputStream) Write(record []byte) error {
	return a.set.fanOutActive(Sequential, "write", func(e *Entry) error {
		return e.Stream().Write(record)
	})
}

// Create writes the segment header on every active entry's stream,
// sequentially, skipping inactive entries.
func (a *AggregateOutputStream) Create() error {
	return a.set.fanOutActive(Sequential, "create", func(e *Entry) error {
		return e.Stream().Create()
	})
}

// Close closes every entry's stream via CloseStream, which is idempotent,
// so inactive entries are not skipped.
func (a *AggregateOutputStream) Close() error {
	return a.set.fanOutAll(Sequential, "close_stream", func(e *Entry) error {
		return e.CloseStream()
	})
}

// Abort aborts every entry's stream. Abort is itself idempotent, so
// inactive entries are not skipped.
func (a *AggregateOutputStream) Abort() error {
	return a.set.fanOutAll(Sequential, "abort", func(e *Entry) error {
		e.Abort()
		return nil
	})
}

// SetReadyToFlush marks every active entry's stream ready to flush,
// sequentially.
func (a *AggregateOutputStream) SetReadyToFlush() error {
	return a.set.fanOutActive(Sequential, "set_ready_to_flush", func(e *Entry) error {
		return e.Stream().SetReadyToFlush()
	})
}

// FlushAndSync is the durability barrier: flushes and syncs every active
// entry's stream in parallel, since parallelism hides per-journal fsync
// latency.
func (a *AggregateOutputStream) FlushAndSync() error {
	return a.set.fanOutActive(Parallel, "flush_and_sync", func(e *Entry) error {
		return e.Stream().FlushAndSync()
	})
}

// Flush flushes every active entry's stream in parallel.
func (a *AggregateOutputStream) Flush() error {
	return a.set.fanOutActive(Parallel, "flush", func(e *Entry) error {
		return e.Stream().Flush()
	})
}

// ShouldForceSync is a pure read: true if any active journal reports true.
func (a *AggregateOutputStream) ShouldForceSync() bool {
	for _, e := range a.set.liveEntries() {
		if e.IsActive() && e.Stream().ShouldForceSync() {
			return true
		}
	}
	return false
}

// NumSync is a pure read returning the value from the first active entry.
// All entries share the same sync counter semantics when driven through
// this aggregate, so the first active entry's value is representative —
// callers must not assume every entry agrees exactly.
func (a *AggregateOutputStream) NumSync() int64 {
	for _, e := range a.set.liveEntries() {
		if e.IsActive() {
			return e.Stream().NumSync()
		}
	}
	return 0
}

// TotalSyncTime mirrors NumSync: the first active entry's cumulative sync
// time.
func (a *AggregateOutputStream) TotalSyncTime() time.Duration {
	for _, e := range a.set.liveEntries() {
		if e.IsActive() {
			return e.Stream().TotalSyncTime()
		}
	}
	return 0
}
