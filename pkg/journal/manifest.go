package journal

import (
	"context"
	"fmt"
	"sort"

	"github.com/cuemby/journalset/pkg/events"
	"github.com/cuemby/journalset/pkg/log"
	"github.com/cuemby/journalset/pkg/metrics"
)

// manifestBuilder merges per-journal segment listings into one
// gap-respecting, greedy-longest manifest. Only file-backed journals
// contribute; remote journals do not publish a manifest surface.
type manifestBuilder struct {
	events *events.Broker
}

func newManifestBuilder(broker *events.Broker) *manifestBuilder {
	return &manifestBuilder{events: broker}
}

// publish is a nil-safe wrapper around events.Broker.Publish, mirroring
// arbiter.publish: wiring an events.Broker is optional.
func (m *manifestBuilder) publish(t events.EventType, msg string, metadata map[string]string) {
	if m.events == nil {
		return
	}
	m.events.Publish(&events.Event{Type: t, Message: msg, Metadata: metadata})
}

// build collects segment descriptors from every file-backed entry,
// swallowing per-journal errors with a warning, then merges them into a
// manifest starting at fromTxID.
func (m *manifestBuilder) build(ctx context.Context, entries []*Entry, fromTxID uint64) []RemoteEditLog {
	manifestLog := log.WithComponent("manifest_builder")

	groups := make(map[uint64][]RemoteEditLog)
	for _, e := range entries {
		fb, ok := e.FileBacked()
		if !ok {
			continue
		}
		segments, err := fb.EditLogManifest(ctx, fromTxID)
		if err != nil {
			manifestLog.Warn().Msg("failed to list segments from file-backed journal, skipping")
			continue
		}
		for _, seg := range segments {
			groups[seg.StartTxID] = append(groups[seg.StartTxID], seg)
		}
	}

	var keys []uint64
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var result []RemoteEditLog
	cursor := fromTxID

	for {
		group, ok := groups[cursor]
		if !ok || len(group) == 0 {
			next, found := smallestGreaterThan(keys, cursor)
			if !found {
				break
			}
			// A gap means the log up to cursor is incomplete and not
			// safely replayable: discard what's accumulated so far.
			metrics.ManifestGapsTotal.Inc()
			m.publish(events.EventManifestGap, fmt.Sprintf("manifest gap at txid %d, next available %d", cursor, next), map[string]string{
				"from_txid": fmt.Sprintf("%d", cursor),
				"next_txid": fmt.Sprintf("%d", next),
			})
			result = nil
			cursor = next
			continue
		}

		best := bestOf(group)
		result = append(result, best)
		cursor = best.EndTxID + 1
	}

	return result
}

// bestOf returns the maximum element under the RemoteEditLog ordering
// (finalized beats in-progress; longer finalized wins).
func bestOf(group []RemoteEditLog) RemoteEditLog {
	best := group[0]
	for _, g := range group[1:] {
		if best.Less(g) {
			best = g
		}
	}
	return best
}

// smallestGreaterThan returns the smallest key strictly greater than
// cursor from a sorted key slice.
func smallestGreaterThan(sortedKeys []uint64, cursor uint64) (uint64, bool) {
	for _, k := range sortedKeys {
		if k > cursor {
			return k, true
		}
	}
	return 0, false
}
