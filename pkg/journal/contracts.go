package journal

import (
	"context"
	"time"
)

// NamespaceInfo carries the metadata server identity passed to Format.
type NamespaceInfo struct {
	ClusterID  string
	NamespaceID uint64
	LayoutVersion int
}

// RemoteEditLog is a logical descriptor of a segment on a single journal.
type RemoteEditLog struct {
	StartTxID  uint64
	EndTxID    uint64
	InProgress bool
}

// Less implements the ordering comparator from the wire format: finalized
// segments sort higher than in-progress ones; among segments of the same
// finalization state, the larger EndTxID wins.
func (r RemoteEditLog) Less(other RemoteEditLog) bool {
	if r.InProgress != other.InProgress {
		return r.InProgress // in-progress is "less than" finalized
	}
	return r.EndTxID < other.EndTxID
}

// InputStream is the read-side counterpart to Stream, returned by
// GetInputStream for replay from a given transaction id.
type InputStream interface {
	Read() ([]byte, error)
	Close() error
}

// Stream is a single journal's open output segment.
type Stream interface {
	Write(record []byte) error
	Create() error
	SetReadyToFlush() error
	FlushAndSync() error
	Flush() error
	Close() error
	Abort()
	ShouldForceSync() bool
	NumSync() int64
	TotalSyncTime() time.Duration
}

// Underlying is the contract every journal implementation (local file
// directory, shared storage, remote log service) must satisfy.
type Underlying interface {
	StartLogSegment(ctx context.Context, txid uint64) (Stream, error)
	FinalizeLogSegment(ctx context.Context, first, last uint64) error
	Close() error
	NumberOfTransactions(ctx context.Context, from uint64) (int64, error)
	GetInputStream(ctx context.Context, from uint64) (InputStream, error)
	PurgeLogsOlderThan(ctx context.Context, minTxID uint64) error
	RecoverUnfinalizedSegments(ctx context.Context) error
	Format(ctx context.Context, nsInfo NamespaceInfo) error
}

// FileBacked is implemented by journals that store segments as files and
// can therefore contribute to manifest reconstruction and local-preference
// tie-breaking.
type FileBacked interface {
	Underlying
	StorageDirectory() string
	EditLogManifest(ctx context.Context, from uint64) ([]RemoteEditLog, error)
}

// Registry is the storage-directory health registry contract. The Journal
// Set only ever notifies it; it never owns directory classification.
type Registry interface {
	ReportErrorOnDirectory(dir string)
	UpdateJournalMetrics(failedCount int)
	IsPreferred(class Classification, dir string) bool
}

// Classification is a storage directory's health class as tracked by the
// Registry.
type Classification int

const (
	ClassLocal Classification = iota
	ClassRemote
)
