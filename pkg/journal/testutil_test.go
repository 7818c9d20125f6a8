package journal

import (
	"context"
	"sync"
	"time"
)

// fakeStream is a minimal in-memory Stream for unit tests.
type fakeStream struct {
	mu       sync.Mutex
	records  [][]byte
	closed   bool
	aborted  bool
	failOn   map[string]error
	numSync  int64
	syncTime time.Duration
}

func newFakeStream() *fakeStream {
	return &fakeStream{failOn: make(map[string]error)}
}

func (s *fakeStream) Write(record []byte) error {
	if err := s.failOn["write"]; err != nil {
		return err
	}
	s.records = append(s.records, record)
	return nil
}
func (s *fakeStream) Create() error            { return s.failOn["create"] }
func (s *fakeStream) SetReadyToFlush() error    { return s.failOn["set_ready_to_flush"] }
func (s *fakeStream) FlushAndSync() error {
	if err := s.failOn["flush_and_sync"]; err != nil {
		return err
	}
	s.numSync++
	return nil
}
func (s *fakeStream) Flush() error { return s.failOn["flush"] }
func (s *fakeStream) Close() error {
	s.closed = true
	return s.failOn["close"]
}
func (s *fakeStream) Abort() {
	s.aborted = true
}
func (s *fakeStream) ShouldForceSync() bool       { return false }
func (s *fakeStream) NumSync() int64              { return s.numSync }
func (s *fakeStream) TotalSyncTime() time.Duration { return s.syncTime }

// fakeUnderlying is a minimal in-memory Underlying for unit tests, with
// per-call fault injection.
type fakeUnderlying struct {
	name   string
	local  bool
	fileBacked bool

	streams map[uint64]*fakeStream

	failStart    error
	failFinalize error
	failClose    error
	txCount      int64
	failTxCount  error
	manifest     []RemoteEditLog
	failManifest error
	failFormat   error
}

func newFakeUnderlying(name string) *fakeUnderlying {
	return &fakeUnderlying{name: name, streams: make(map[uint64]*fakeStream)}
}

func (f *fakeUnderlying) StartLogSegment(ctx context.Context, txid uint64) (Stream, error) {
	if f.failStart != nil {
		return nil, f.failStart
	}
	s := newFakeStream()
	f.streams[txid] = s
	return s, nil
}

func (f *fakeUnderlying) FinalizeLogSegment(ctx context.Context, first, last uint64) error {
	return f.failFinalize
}

func (f *fakeUnderlying) Close() error { return f.failClose }

func (f *fakeUnderlying) NumberOfTransactions(ctx context.Context, from uint64) (int64, error) {
	if f.failTxCount != nil {
		return 0, f.failTxCount
	}
	return f.txCount, nil
}

func (f *fakeUnderlying) GetInputStream(ctx context.Context, from uint64) (InputStream, error) {
	return &fakeInputStream{name: f.name}, nil
}

func (f *fakeUnderlying) PurgeLogsOlderThan(ctx context.Context, minTxID uint64) error { return nil }
func (f *fakeUnderlying) RecoverUnfinalizedSegments(ctx context.Context) error         { return nil }
func (f *fakeUnderlying) Format(ctx context.Context, nsInfo NamespaceInfo) error       { return f.failFormat }

// fakeFileBacked wraps fakeUnderlying to additionally satisfy FileBacked.
type fakeFileBacked struct {
	*fakeUnderlying
	dir string
}

func newFakeFileBacked(name, dir string) *fakeFileBacked {
	return &fakeFileBacked{fakeUnderlying: newFakeUnderlying(name), dir: dir}
}

func (f *fakeFileBacked) StorageDirectory() string { return f.dir }

func (f *fakeFileBacked) EditLogManifest(ctx context.Context, from uint64) ([]RemoteEditLog, error) {
	if f.failManifest != nil {
		return nil, f.failManifest
	}
	return f.manifest, nil
}

type fakeInputStream struct{ name string }

func (f *fakeInputStream) Read() ([]byte, error) { return nil, nil }
func (f *fakeInputStream) Close() error          { return nil }

// fakeRegistry records calls for assertions and answers IsPreferred from a
// simple map.
type fakeRegistry struct {
	mu             sync.Mutex
	errorsReported []string
	lastFailed     int
	localDirs      map[string]bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{localDirs: make(map[string]bool)}
}

func (r *fakeRegistry) ReportErrorOnDirectory(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorsReported = append(r.errorsReported, dir)
}

func (r *fakeRegistry) UpdateJournalMetrics(failedCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFailed = failedCount
}

func (r *fakeRegistry) IsPreferred(class Classification, dir string) bool {
	if class != ClassLocal {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.localDirs[dir]
}

func (r *fakeRegistry) markLocal(dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localDirs[dir] = true
}
