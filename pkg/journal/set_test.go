package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_StartLogSegment_ThenClose(t *testing.T) {
	entries := []*Entry{
		NewEntry(newFakeUnderlying("a"), false, false, false),
		NewEntry(newFakeUnderlying("b"), false, false, false),
	}
	s := NewSet(entries, Options{MinJournals: 1})

	out, err := s.StartLogSegment(context.Background(), 1)
	assert.NoError(t, err)
	assert.NotNil(t, out)

	for _, e := range s.entries {
		assert.True(t, e.IsActive())
	}

	assert.NoError(t, s.Close())
}

func TestSet_Add_ResizesPoolAndParticipatesInFanOut(t *testing.T) {
	s := NewSet(entriesOf(newFakeUnderlying("a")), Options{MinJournals: 1})
	_, err := s.StartLogSegment(context.Background(), 1)
	assert.NoError(t, err)

	u := newFakeUnderlying("b")
	e := s.Add(u, false, false, false)
	assert.False(t, e.IsActive())
	assert.Len(t, s.entries, 2)

	err = s.FinalizeLogSegment(context.Background(), 1, 1)
	assert.NoError(t, err)
}

func TestSet_Remove_AbortsAndDropsEntry(t *testing.T) {
	a := newFakeUnderlying("a")
	b := newFakeUnderlying("b")
	s := NewSet(entriesOf(a, b), Options{MinJournals: 1})
	_, err := s.StartLogSegment(context.Background(), 1)
	assert.NoError(t, err)

	ok := s.Remove(a)
	assert.True(t, ok)
	assert.Len(t, s.entries, 1)
	assert.Same(t, b, s.entries[0].underlying)

	assert.False(t, s.Remove(a), "removing an already-removed journal is a no-op")
}

func TestSet_IsEmpty(t *testing.T) {
	s := NewSet(nil, Options{})
	assert.True(t, s.IsEmpty())
	s.Add(newFakeUnderlying("a"), false, false, false)
	assert.False(t, s.IsEmpty())
}

func TestSet_IsSharedJournalAvailable(t *testing.T) {
	s := NewSet([]*Entry{
		NewEntry(newFakeUnderlying("a"), false, false, false),
		NewEntry(newFakeUnderlying("b"), false, true, true),
	}, Options{MinJournals: 1})
	assert.True(t, s.IsSharedJournalAvailable())

	s.entries[1].Disable()
	assert.False(t, s.IsSharedJournalAvailable())
}

func TestSet_FormatNonFileJournals_SkipsFileBacked(t *testing.T) {
	fb := newFakeFileBacked("local", "/data/local")
	fb.failFormat = errBoom // would fail the test if Format were called on it
	remote := newFakeUnderlying("remote")

	s := NewSet([]*Entry{
		NewEntry(fb, false, false, false),
		NewEntry(remote, false, true, true),
	}, Options{MinJournals: 1})

	assert.NoError(t, s.FormatNonFileJournals(context.Background(), NamespaceInfo{}))
}

func TestSet_FormatNonFileJournals_PropagatesError(t *testing.T) {
	remote := newFakeUnderlying("remote")
	remote.failFormat = errBoom

	s := NewSet([]*Entry{NewEntry(remote, false, true, true)}, Options{MinJournals: 1})
	err := s.FormatNonFileJournals(context.Background(), NamespaceInfo{})
	assert.Equal(t, errBoom, err)
}

func TestSet_GetSyncTimes_OnlyActiveEntries(t *testing.T) {
	a := newFakeUnderlying("a")
	b := newFakeUnderlying("b")
	s := NewSet(entriesOf(a, b), Options{MinJournals: 1})
	_, err := s.StartLogSegment(context.Background(), 1)
	assert.NoError(t, err)

	s.entries[1].CloseStream()

	times := s.GetSyncTimes()
	assert.Len(t, times, 1)
}

func TestSet_UnsupportedStubs(t *testing.T) {
	s := NewSet(nil, Options{})
	ctx := context.Background()

	err := s.Format(ctx, NamespaceInfo{})
	assert.True(t, IsUnsupported(err))

	_, err = s.HasSomeData(ctx)
	assert.True(t, IsUnsupported(err))

	_, err = s.IsSegmentInProgress(ctx)
	assert.True(t, IsUnsupported(err))

	_, err = s.ReadWithValidation(ctx, 0)
	assert.True(t, IsUnsupported(err))
}

func TestSet_GetInputStream_DelegatesToSelector(t *testing.T) {
	a := newFakeUnderlying("a")
	a.txCount = 7
	s := NewSet(entriesOf(a), Options{MinJournals: 1})

	stream, err := s.GetInputStream(context.Background(), 0)
	assert.NoError(t, err)
	assert.NotNil(t, stream)
}

func TestSet_GetEditLogManifest_DelegatesToBuilder(t *testing.T) {
	fb := newFakeFileBacked("a", "/data/a")
	fb.manifest = []RemoteEditLog{{StartTxID: 0, EndTxID: 9}}
	s := NewSet([]*Entry{NewEntry(fb, false, false, false)}, Options{MinJournals: 1})

	result := s.GetEditLogManifest(context.Background(), 0)
	assert.Len(t, result, 1)
}
