package journal

import "context"

// Entry pairs one underlying journal with its role flags and, when a
// segment is open, its current output stream. Role flags never change
// after construction; disabled is latched on first unrecovered error and
// cleared only by a successful StartLogSegment.
type Entry struct {
	underlying Underlying

	Required bool
	Shared   bool
	Remote   bool

	currentStream Stream
	disabled      bool
}

// NewEntry constructs an entry wrapping the given underlying journal.
func NewEntry(underlying Underlying, required, shared, remote bool) *Entry {
	return &Entry{
		underlying: underlying,
		Required:   required,
		Shared:     shared,
		Remote:     remote,
	}
}

// Underlying returns the wrapped journal handle, used by remove() for
// identity comparison and by components that need the FileBacked surface.
func (e *Entry) Underlying() Underlying {
	return e.underlying
}

// StartLogSegment opens a new stream for txid. Fails with
// ErrStreamAlreadyOpen if a stream is already open; otherwise clears
// disabled on success.
func (e *Entry) StartLogSegment(ctx context.Context, txid uint64) error {
	if e.currentStream != nil {
		return ErrStreamAlreadyOpen
	}
	s, err := e.underlying.StartLogSegment(ctx, txid)
	if err != nil {
		return err
	}
	e.currentStream = s
	e.disabled = false
	return nil
}

// CloseStream closes the current stream if one is open and clears the
// field; idempotent when no stream is open.
func (e *Entry) CloseStream() error {
	if e.currentStream == nil {
		return nil
	}
	err := e.currentStream.Close()
	e.currentStream = nil
	return err
}

// Close closes the current stream (if any) then the underlying journal.
// Errors from either step propagate to the caller.
func (e *Entry) Close() error {
	if err := e.CloseStream(); err != nil {
		return err
	}
	return e.underlying.Close()
}

// Abort requests the current stream abort, swallowing any I/O error since
// abort is best-effort, and clears the field. Never fails.
func (e *Entry) Abort() {
	if e.currentStream == nil {
		return
	}
	e.currentStream.Abort()
	e.currentStream = nil
}

// IsActive reports whether a stream is currently open.
func (e *Entry) IsActive() bool {
	return e.currentStream != nil
}

// IsResourceAvailable reports whether the entry is not disabled,
// independent of whether a stream is open.
func (e *Entry) IsResourceAvailable() bool {
	return !e.disabled
}

// Disabled reports the latched disabled bit.
func (e *Entry) Disabled() bool {
	return e.disabled
}

// Disable latches the entry as disabled. Used by the Health Arbiter.
func (e *Entry) Disable() {
	e.disabled = true
}

// Stream returns the currently open stream, or nil if the entry is
// inactive.
func (e *Entry) Stream() Stream {
	return e.currentStream
}

// FileBacked reports whether the wrapped journal satisfies FileBacked, and
// returns it when it does.
func (e *Entry) FileBacked() (FileBacked, bool) {
	fb, ok := e.underlying.(FileBacked)
	return fb, ok
}
