package journal

import (
	"context"
	"time"

	"github.com/cuemby/journalset/pkg/metrics"
)

// Set is the Journal Set Facade: the entry point the metadata server
// drives through lifecycle operations. It owns the entry sequence, the
// Fan-out Executor, the Health Arbiter, and the worker pool.
//
// Set is not internally synchronized: the caller guarantees single-writer
// semantics per instance, per the external discipline this package relies
// on.
type Set struct {
	entries  []*Entry
	executor *executor
	arbiter  *arbiter
	selector *selector
	manifest *manifestBuilder
}

// NewSet constructs a Journal Set over the given entries, sizing the
// worker pool to the initial entry count.
func NewSet(entries []*Entry, opts Options) *Set {
	opts = opts.withDefaults()
	p := newPool(max(1, len(entries)))
	return &Set{
		entries:  entries,
		executor: newExecutor(p),
		arbiter:  newArbiter(opts.Registry, opts.Events, opts.MinJournals, opts.MinNonlocalJournals),
		selector: newSelector(opts.Registry),
		manifest: newManifestBuilder(opts.Events),
	}
}

func (s *Set) liveEntries() []*Entry {
	// Returns the current snapshot; add/remove mutate s.entries directly
	// and must not interleave with an in-flight fan-out.
	return s.entries
}

// fanOutAll applies apply to every entry, regardless of activity, via the
// given mode, and runs the result through the Health Arbiter.
func (s *Set) fanOutAll(mode Mode, status string, apply func(*Entry) error) error {
	return s.runFanOut(mode, status, s.liveEntries(), apply)
}

// fanOutActive applies apply only to entries whose IsActive holds.
func (s *Set) fanOutActive(mode Mode, status string, apply func(*Entry) error) error {
	all := s.liveEntries()
	var active []*Entry
	for _, e := range all {
		if e.IsActive() {
			active = append(active, e)
		}
	}
	return s.runFanOut(mode, status, active, apply)
}

func (s *Set) runFanOut(mode Mode, status string, targets []*Entry, apply func(*Entry) error) error {
	timer := metrics.NewTimer()
	modeLabel := "sequential"
	if mode == Parallel {
		modeLabel = "parallel"
	}
	defer timer.ObserveDurationVec(metrics.FanoutDuration, status, modeLabel)

	bad, err := s.executor.fanOut(targets, mode, Behavior{Status: status, Apply: apply})
	if err != nil {
		// Pool-level failure: fatal, does not go through the arbiter.
		return err
	}
	_, qerr := s.arbiter.evaluate(s.liveEntries(), bad)
	return qerr
}

// StartLogSegment opens a new segment on every live entry for txid, in
// parallel (latency-sensitive), and returns an AggregateOutputStream for
// subsequent writes.
func (s *Set) StartLogSegment(ctx context.Context, txid uint64) (*AggregateOutputStream, error) {
	err := s.runFanOut(Parallel, "start_log_segment", s.liveEntries(), func(e *Entry) error {
		return e.StartLogSegment(ctx, txid)
	})
	if err != nil {
		return nil, err
	}
	return newAggregateOutputStream(s), nil
}

// FinalizeLogSegment finalizes the segment [first, last] on every live
// entry, in parallel.
func (s *Set) FinalizeLogSegment(ctx context.Context, first, last uint64) error {
	return s.runFanOut(Parallel, "finalize_log_segment", s.liveEntries(), func(e *Entry) error {
		return e.underlying.FinalizeLogSegment(ctx, first, last)
	})
}

// PurgeLogsOlderThan purges segments below minTxID on every live entry,
// in parallel.
func (s *Set) PurgeLogsOlderThan(ctx context.Context, minTxID uint64) error {
	return s.runFanOut(Parallel, "purge", s.liveEntries(), func(e *Entry) error {
		return e.underlying.PurgeLogsOlderThan(ctx, minTxID)
	})
}

// RecoverUnfinalizedSegments recovers unfinalized segments on every live
// entry, in parallel.
func (s *Set) RecoverUnfinalizedSegments(ctx context.Context) error {
	return s.runFanOut(Parallel, "recover", s.liveEntries(), func(e *Entry) error {
		return e.underlying.RecoverUnfinalizedSegments(ctx)
	})
}

// Close closes every live entry, in parallel, then shuts down the worker
// pool regardless of per-entry errors.
func (s *Set) Close() error {
	err := s.runFanOut(Parallel, "close", s.liveEntries(), func(e *Entry) error {
		return e.Close()
	})
	s.executor.pool.shutdown()
	return err
}

// GetInputStream returns the best stream to read from starting at
// fromTxID, or nil with no error if no journal has any data from that
// point.
func (s *Set) GetInputStream(ctx context.Context, fromTxID uint64) (InputStream, error) {
	return s.selector.selectInputStream(ctx, s.liveEntries(), fromTxID)
}

// GetEditLogManifest returns the gap-respecting, greedy-longest manifest
// across file-backed entries starting at fromTxID.
func (s *Set) GetEditLogManifest(ctx context.Context, fromTxID uint64) []RemoteEditLog {
	return s.manifest.build(ctx, s.liveEntries(), fromTxID)
}

// Add appends a new entry to the set and resizes the worker pool to
// match. Must not be called while a fan-out is in flight.
func (s *Set) Add(underlying Underlying, required, shared, remote bool) *Entry {
	e := NewEntry(underlying, required, shared, remote)
	s.entries = append(s.entries, e)
	s.executor.pool.resize(len(s.entries))
	metrics.DisabledJournals.Set(float64(s.arbiter.countDisabled(s.entries)))
	return e
}

// Remove finds an entry by identity on its underlying journal handle,
// aborts its stream best-effort, and removes it from the set.
func (s *Set) Remove(underlying Underlying) bool {
	for i, e := range s.entries {
		if e.underlying == underlying {
			e.Abort()
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.executor.pool.resize(max(1, len(s.entries)))
			metrics.DisabledJournals.Set(float64(s.arbiter.countDisabled(s.entries)))
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no entries.
func (s *Set) IsEmpty() bool {
	return len(s.entries) == 0
}

// IsSharedJournalAvailable reports whether some entry is shared and
// resource-available.
func (s *Set) IsSharedJournalAvailable() bool {
	for _, e := range s.entries {
		if e.Shared && e.IsResourceAvailable() {
			return true
		}
	}
	return false
}

// FormatNonFileJournals applies Format to every entry whose journal is
// not file-backed. Errors propagate immediately — this runs before the
// set is live, so silent degradation would be wrong.
func (s *Set) FormatNonFileJournals(ctx context.Context, nsInfo NamespaceInfo) error {
	for _, e := range s.entries {
		if _, ok := e.FileBacked(); ok {
			continue
		}
		if err := e.underlying.Format(ctx, nsInfo); err != nil {
			return err
		}
	}
	return nil
}

// GetSyncTimes returns each active entry's cumulative sync time, for
// diagnostics.
func (s *Set) GetSyncTimes() []time.Duration {
	var times []time.Duration
	for _, e := range s.entries {
		if e.IsActive() {
			times = append(times, e.Stream().TotalSyncTime())
		}
	}
	return times
}

// Format is not supported by the facade; the metadata server calls it
// directly on underlying journals.
func (s *Set) Format(context.Context, NamespaceInfo) error { return ErrUnsupported }

// HasSomeData is not supported by the facade.
func (s *Set) HasSomeData(context.Context) (bool, error) { return false, ErrUnsupported }

// IsSegmentInProgress is not supported by the facade.
func (s *Set) IsSegmentInProgress(context.Context) (bool, error) { return false, ErrUnsupported }

// ReadWithValidation is not supported by the facade.
func (s *Set) ReadWithValidation(context.Context, uint64) (InputStream, error) {
	return nil, ErrUnsupported
}
