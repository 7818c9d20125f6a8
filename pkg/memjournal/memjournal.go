package memjournal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cuemby/journalset/pkg/journal"
)

// Fault names the operations a Journal can be configured to fail on.
type Fault string

const (
	FaultStartLogSegment Fault = "start_log_segment"
	FaultWrite            Fault = "write"
	FaultFlushAndSync     Fault = "flush_and_sync"
	FaultNumberOfTxns     Fault = "number_of_transactions"
)

type segment struct {
	start, end uint64
	inProgress bool
	records    [][]byte
}

// Journal is an in-memory journal.Underlying implementation, primarily
// intended for tests and the CLI demo's shared/remote entries.
type Journal struct {
	mu       sync.Mutex
	name     string
	segments []segment

	faults       map[Fault]error
	corruptOnCount int // if set, NumberOfTransactions returns Corruption for this count of calls
}

// New constructs an empty in-memory journal identified by name (used in
// error messages).
func New(name string) *Journal {
	return &Journal{name: name, faults: make(map[Fault]error)}
}

// InjectFault configures Journal to fail with err the next time the named
// operation is invoked, once. Pass nil to clear a previously configured
// fault.
func (j *Journal) InjectFault(f Fault, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err == nil {
		delete(j.faults, f)
		return
	}
	j.faults[f] = err
}

func (j *Journal) takeFault(f Fault) error {
	err, ok := j.faults[f]
	if !ok {
		return nil
	}
	delete(j.faults, f)
	return err
}

// StartLogSegment opens a new in-progress segment at txid.
func (j *Journal) StartLogSegment(ctx context.Context, txid uint64) (journal.Stream, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.takeFault(FaultStartLogSegment); err != nil {
		return nil, err
	}
	j.segments = append(j.segments, segment{start: txid, inProgress: true})
	return &memStream{j: j, idx: len(j.segments) - 1}, nil
}

// FinalizeLogSegment marks the segment starting at first as finalized
// through last.
func (j *Journal) FinalizeLogSegment(ctx context.Context, first, last uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.segments {
		if j.segments[i].start == first {
			j.segments[i].end = last
			j.segments[i].inProgress = false
			return nil
		}
	}
	return fmt.Errorf("memjournal %s: no segment starting at %d", j.name, first)
}

// Close is a no-op for the in-memory journal.
func (j *Journal) Close() error { return nil }

// NumberOfTransactions counts records across segments starting at or
// after from.
func (j *Journal) NumberOfTransactions(ctx context.Context, from uint64) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.takeFault(FaultNumberOfTxns); err != nil {
		return 0, err
	}
	if j.corruptOnCount > 0 {
		j.corruptOnCount--
		return 0, journal.Corruption(from, fmt.Errorf("memjournal %s: injected corruption", j.name))
	}
	var total int64
	for _, s := range j.segments {
		if s.start < from {
			continue
		}
		total += int64(len(s.records))
	}
	return total, nil
}

// GetInputStream returns an input stream replaying records from segments
// starting at or after from.
func (j *Journal) GetInputStream(ctx context.Context, from uint64) (journal.InputStream, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var records [][]byte
	for _, s := range j.segments {
		if s.start < from {
			continue
		}
		records = append(records, s.records...)
	}
	return &memInputStream{records: records}, nil
}

// PurgeLogsOlderThan drops finalized segments whose end is below minTxID.
func (j *Journal) PurgeLogsOlderThan(ctx context.Context, minTxID uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.segments[:0]
	for _, s := range j.segments {
		if !s.inProgress && s.end < minTxID {
			continue
		}
		kept = append(kept, s)
	}
	j.segments = kept
	return nil
}

// RecoverUnfinalizedSegments is a no-op: in-memory segments have no
// durable state to reconcile against.
func (j *Journal) RecoverUnfinalizedSegments(ctx context.Context) error { return nil }

// Format clears all segments.
func (j *Journal) Format(ctx context.Context, nsInfo journal.NamespaceInfo) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.segments = nil
	return nil
}

var errClosed = errors.New("memjournal: stream closed")

// memStream implements journal.Stream against a single in-memory segment.
type memStream struct {
	j   *Journal
	idx int

	mu            sync.Mutex
	closed        bool
	numSync       int64
	totalSyncTime time.Duration
}

func (s *memStream) Write(record []byte) error {
	s.j.mu.Lock()
	defer s.j.mu.Unlock()
	if err := s.j.takeFault(FaultWrite); err != nil {
		return err
	}
	s.j.segments[s.idx].records = append(s.j.segments[s.idx].records, record)
	return nil
}

func (s *memStream) Create() error { return nil }

func (s *memStream) SetReadyToFlush() error { return nil }

func (s *memStream) FlushAndSync() error {
	s.j.mu.Lock()
	fault := s.j.takeFault(FaultFlushAndSync)
	s.j.mu.Unlock()
	if fault != nil {
		return fault
	}
	start := time.Now()
	s.mu.Lock()
	s.numSync++
	s.totalSyncTime += time.Since(start)
	s.mu.Unlock()
	return nil
}

func (s *memStream) Flush() error { return nil }

func (s *memStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memStream) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *memStream) ShouldForceSync() bool { return false }

func (s *memStream) NumSync() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numSync
}

func (s *memStream) TotalSyncTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSyncTime
}

// memInputStream implements journal.InputStream over a fixed record set.
type memInputStream struct {
	records [][]byte
	pos     int
	closed  bool
}

func (s *memInputStream) Read() ([]byte, error) {
	if s.closed {
		return nil, errClosed
	}
	if s.pos >= len(s.records) {
		return nil, nil
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

func (s *memInputStream) Close() error {
	s.closed = true
	return nil
}
