package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func entriesOf(us ...*fakeUnderlying) []*Entry {
	var entries []*Entry
	for _, u := range us {
		entries = append(entries, NewEntry(u, false, false, false))
	}
	return entries
}

func TestExecutor_Sequential_AttemptsEveryEntry(t *testing.T) {
	a, b, c := newFakeUnderlying("a"), newFakeUnderlying("b"), newFakeUnderlying("c")
	b.failTxCount = errBoom
	entries := entriesOf(a, b, c)

	x := newExecutor(newPool(3))
	var attempted []string
	bad, err := x.fanOut(entries, Sequential, Behavior{
		Status: "probe",
		Apply: func(e *Entry) error {
			fu := e.underlying.(*fakeUnderlying)
			attempted = append(attempted, fu.name)
			_, err := fu.NumberOfTransactions(context.Background(), 0)
			return err
		},
	})
	assert.NoError(t, err)
	assert.Len(t, attempted, 3, "every entry must be attempted exactly once")
	assert.Len(t, bad, 1)
	assert.Equal(t, b, bad[0].underlying)
}

func TestExecutor_Parallel_JoinsAllTasksAndCollectsBad(t *testing.T) {
	entries := entriesOf(
		newFakeUnderlying("a"),
		newFakeUnderlying("b"),
		newFakeUnderlying("c"),
		newFakeUnderlying("d"),
	)
	entries[1].underlying.(*fakeUnderlying).failTxCount = errBoom
	entries[3].underlying.(*fakeUnderlying).failTxCount = errBoom

	x := newExecutor(newPool(len(entries)))
	bad, err := x.fanOut(entries, Parallel, Behavior{
		Status: "probe",
		Apply: func(e *Entry) error {
			_, err := e.underlying.NumberOfTransactions(context.Background(), 0)
			return err
		},
	})
	assert.NoError(t, err)
	assert.Len(t, bad, 2)
}

func TestExecutor_NoShortCircuitOnFirstFailure(t *testing.T) {
	entries := entriesOf(newFakeUnderlying("a"), newFakeUnderlying("b"), newFakeUnderlying("c"))
	entries[0].underlying.(*fakeUnderlying).failTxCount = errBoom

	x := newExecutor(newPool(len(entries)))
	var count int
	_, err := x.fanOut(entries, Sequential, Behavior{
		Status: "probe",
		Apply: func(e *Entry) error {
			count++
			_, err := e.underlying.NumberOfTransactions(context.Background(), 0)
			return err
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, count, "all entries must be attempted even after an earlier failure")
}

func TestExecutor_PanicRecoveredAsFailure(t *testing.T) {
	entries := entriesOf(newFakeUnderlying("a"))
	x := newExecutor(newPool(1))

	bad, err := x.fanOut(entries, Sequential, Behavior{
		Status: "probe",
		Apply: func(e *Entry) error {
			panic("boom")
		},
	})
	assert.NoError(t, err)
	assert.Len(t, bad, 1, "a panicking closure should be recorded as a bad entry, not crash the fan-out")
}
