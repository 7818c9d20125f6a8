package journal

import (
	"context"

	"github.com/cuemby/journalset/pkg/metrics"
)

// selector implements GetInputStream: picking the single best underlying
// journal to read from for a given starting transaction id.
type selector struct {
	registry Registry
}

func newSelector(registry Registry) *selector {
	return &selector{registry: registry}
}

type candidate struct {
	entry *Entry
	count int64
	local bool
}

// selectInputStream walks entries, asking each for its transaction count
// from fromTxID, and returns the input stream of the winning journal.
func (s *selector) selectInputStream(ctx context.Context, entries []*Entry, fromTxID uint64) (InputStream, error) {
	var best *candidate
	var corruptionCause error

	for _, e := range entries {
		count, err := e.underlying.NumberOfTransactions(ctx, fromTxID)
		if err != nil {
			if IsCorruption(err) {
				corruptionCause = err
			}
			continue
		}

		if count <= 0 {
			continue
		}

		c := candidate{entry: e, count: count, local: s.isLocal(e)}
		if best == nil || s.beats(c, *best) {
			cc := c
			best = &cc
		}
	}

	if best == nil {
		if corruptionCause != nil {
			metrics.InputSelectionsTotal.WithLabelValues("corrupt").Inc()
			return nil, Corruption(fromTxID, corruptionCause)
		}
		metrics.InputSelectionsTotal.WithLabelValues("none").Inc()
		return nil, nil
	}

	metrics.InputSelectionsTotal.WithLabelValues("selected").Inc()
	return best.entry.underlying.GetInputStream(ctx, fromTxID)
}

// beats reports whether candidate c should replace the current best.
// Largest transaction count wins; ties among equal positive counts prefer
// a local journal.
func (s *selector) beats(c, best candidate) bool {
	if c.count != best.count {
		return c.count > best.count
	}
	if c.count > 0 && c.local && !best.local {
		return true
	}
	return false
}

// isLocal reports whether an entry is file-backed and classified LOCAL by
// the storage registry.
func (s *selector) isLocal(e *Entry) bool {
	fb, ok := e.FileBacked()
	if !ok {
		return false
	}
	if s.registry == nil {
		return false
	}
	return s.registry.IsPreferred(ClassLocal, fb.StorageDirectory())
}
