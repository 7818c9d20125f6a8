package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newStartedSet(t *testing.T, txid uint64, us ...*fakeUnderlying) (*Set, *AggregateOutputStream) {
	t.Helper()
	s := NewSet(entriesOf(us...), Options{MinJournals: 1})
	out, err := s.StartLogSegment(context.Background(), txid)
	assert.NoError(t, err)
	return s, out
}

func TestAggregateOutputStream_Write_SkipsInactiveEntries(t *testing.T) {
	a, b := newFakeUnderlying("a"), newFakeUnderlying("b")
	s, out := newStartedSet(t, 1, a, b)

	s.entries[1].CloseStream()

	assert.NoError(t, out.Write([]byte("record")))
	assert.Len(t, a.streams[1].records, 1)
}

func TestAggregateOutputStream_Create(t *testing.T) {
	a := newFakeUnderlying("a")
	_, out := newStartedSet(t, 1, a)
	assert.NoError(t, out.Create())
}

func TestAggregateOutputStream_Close_IsIdempotentEvenOnInactiveEntries(t *testing.T) {
	a, b := newFakeUnderlying("a"), newFakeUnderlying("b")
	s, out := newStartedSet(t, 1, a, b)
	s.entries[1].CloseStream()

	assert.NoError(t, out.Close())
	for _, e := range s.entries {
		assert.False(t, e.IsActive())
	}
	assert.NoError(t, out.Close(), "closing an already-closed aggregate stream must be a no-op")
}

func TestAggregateOutputStream_Abort_NeverFails(t *testing.T) {
	a := newFakeUnderlying("a")
	_, out := newStartedSet(t, 1, a)
	assert.NoError(t, out.Abort())
	assert.True(t, a.streams[1].aborted)
}

func TestAggregateOutputStream_SetReadyToFlush(t *testing.T) {
	a := newFakeUnderlying("a")
	_, out := newStartedSet(t, 1, a)
	assert.NoError(t, out.SetReadyToFlush())
}

func TestAggregateOutputStream_FlushAndSync_IncrementsNumSync(t *testing.T) {
	a, b := newFakeUnderlying("a"), newFakeUnderlying("b")
	_, out := newStartedSet(t, 1, a, b)

	assert.NoError(t, out.FlushAndSync())
	assert.Equal(t, int64(1), out.NumSync())
}

func TestAggregateOutputStream_Flush(t *testing.T) {
	a := newFakeUnderlying("a")
	_, out := newStartedSet(t, 1, a)
	assert.NoError(t, out.Flush())
}

func TestAggregateOutputStream_ShouldForceSync_FalseWhenNoActiveJournalRequestsIt(t *testing.T) {
	a := newFakeUnderlying("a")
	_, out := newStartedSet(t, 1, a)
	assert.False(t, out.ShouldForceSync())
}

func TestAggregateOutputStream_NumSync_ReturnsFirstActiveEntry(t *testing.T) {
	a, b := newFakeUnderlying("a"), newFakeUnderlying("b")
	s, out := newStartedSet(t, 1, a, b)

	assert.NoError(t, out.FlushAndSync())
	s.entries[0].CloseStream()

	assert.Equal(t, b.streams[1].numSync, out.NumSync())
}

func TestAggregateOutputStream_NumSync_ZeroWhenNoEntryActive(t *testing.T) {
	a := newFakeUnderlying("a")
	s, out := newStartedSet(t, 1, a)
	s.entries[0].CloseStream()

	assert.Equal(t, int64(0), out.NumSync())
	assert.Equal(t, time.Duration(0), out.TotalSyncTime())
}
