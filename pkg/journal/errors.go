package journal

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// QuorumLostDetail carries the counts that caused a quorum evaluation to
// fail, for callers that want to log or alert on the specifics.
type QuorumLostDetail struct {
	MinJournals         int
	Active              int
	MinNonlocalJournals int
	NonlocalActive      int
	RequiredDisabled    bool
}

// QuorumLost reports that the Health Arbiter's quorum evaluation failed
// after disabling the bad entries from a fan-out.
func QuorumLost(d QuorumLostDetail) error {
	msg := fmt.Sprintf(
		"quorum lost: active=%d/%d nonlocal=%d/%d required_disabled=%t",
		d.Active, d.MinJournals, d.NonlocalActive, d.MinNonlocalJournals, d.RequiredDisabled,
	)
	return status.Errorf(codes.Unavailable, "%s", msg)
}

// IsQuorumLost reports whether err is a QuorumLost error.
func IsQuorumLost(err error) bool {
	return status.Code(err) == codes.Unavailable
}

// Corruption reports that the Input Selector found no usable candidate and
// at least one journal reported corruption while evaluating from_txid.
func Corruption(fromTxID uint64, cause error) error {
	return status.Errorf(codes.DataLoss, "corruption detected reading from txid %d: %v", fromTxID, cause)
}

// IsCorruption reports whether err is a Corruption error.
func IsCorruption(err error) bool {
	return status.Code(err) == codes.DataLoss
}

// ErrStreamAlreadyOpen is raised by Entry.StartLogSegment when a stream is
// already open on that entry.
var ErrStreamAlreadyOpen = status.Error(codes.FailedPrecondition, "journal entry already has an open stream")

// IsStreamAlreadyOpen reports whether err is ErrStreamAlreadyOpen.
func IsStreamAlreadyOpen(err error) bool {
	return status.Code(err) == codes.FailedPrecondition
}

// InternalPoolError reports that the parallel fan-out's worker pool itself
// failed (a worker was interrupted, or a task was cancelled) — distinct
// from an individual journal's failure, and always treated as fatal.
func InternalPoolError(cause error) error {
	return status.Errorf(codes.Internal, "internal worker pool error: %v", cause)
}

// IsInternalPoolError reports whether err is an InternalPoolError.
func IsInternalPoolError(err error) bool {
	return status.Code(err) == codes.Internal
}

// ErrUnsupported is returned by Facade operations the metadata server is
// expected to call directly on underlying journals instead.
var ErrUnsupported = status.Error(codes.Unimplemented, "operation not supported by the journal set facade")

// IsUnsupported reports whether err is ErrUnsupported.
func IsUnsupported(err error) bool {
	return status.Code(err) == codes.Unimplemented
}
