package journal

// Behavior parameterizes a fan-out: a captured operation plus a
// human-readable status string used in logs and metrics labels.
type Behavior struct {
	// Status names the operation for logging/metrics (e.g. "flush", "write").
	Status string
	// Apply is invoked once per live entry. Returning a non-nil error marks
	// that entry bad; it never short-circuits the rest of the fan-out.
	Apply func(*Entry) error
}

// Mode selects how a Behavior is applied across the live entry sequence.
type Mode int

const (
	// Sequential applies the closure to each entry in insertion order on
	// the calling goroutine.
	Sequential Mode = iota
	// Parallel submits one task per entry to the fixed-size worker pool
	// and joins all of them before returning.
	Parallel
)

// executor applies a Behavior across a set of entries, either sequentially
// or via the fixed-size worker pool, and hands the resulting bad set to
// the Health Arbiter.
type executor struct {
	pool *pool
}

func newExecutor(p *pool) *executor {
	return &executor{pool: p}
}

// fanOut applies b across entries in the given mode. It returns the subset
// of entries whose Apply call failed ("bad"). Every entry is attempted
// exactly once; no short-circuit on first failure.
func (x *executor) fanOut(entries []*Entry, mode Mode, b Behavior) ([]*Entry, error) {
	switch mode {
	case Parallel:
		return x.pool.run(entries, b.Apply)
	default:
		return x.runSequential(entries, b.Apply), nil
	}
}

func (x *executor) runSequential(entries []*Entry, apply func(*Entry) error) []*Entry {
	var bad []*Entry
	for _, e := range entries {
		if err := safeApply(apply, e); err != nil {
			bad = append(bad, e)
		}
	}
	return bad
}

// safeApply recovers from a panicking closure so that a single buggy
// journal implementation cannot abort the rest of a sequential fan-out;
// a recovered panic is treated the same as a returned error.
func safeApply(apply func(*Entry) error, e *Entry) error {
	return runTask(apply, e)
}
