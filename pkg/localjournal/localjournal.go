package localjournal

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cuemby/journalset/pkg/journal"
	"github.com/cuemby/journalset/pkg/log"
	bolt "go.etcd.io/bbolt"
)

var bucketSegments = []byte("segments")

// indexEntry is the bbolt-cached record for one segment.
type indexEntry struct {
	Start       uint64 `json:"start"`
	End         uint64 `json:"end"`
	InProgress  bool   `json:"in_progress"`
	RecordCount int    `json:"record_count"`
}

func (e indexEntry) fileName() string {
	if e.InProgress {
		return fmt.Sprintf("edits-inprogress-%d", e.Start)
	}
	return fmt.Sprintf("edits-%d-%d", e.Start, e.End)
}

// Journal implements journal.FileBacked against a local directory.
type Journal struct {
	dir string
	db  *bolt.DB
	mu  sync.Mutex
}

// New opens (or creates) a local journal rooted at dir.
func New(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "index.db")
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSegments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create segments bucket: %w", err)
	}

	return &Journal{dir: dir, db: db}, nil
}

// StorageDirectory returns the root directory this journal is rooted at.
func (j *Journal) StorageDirectory() string {
	return j.dir
}

// StartLogSegment creates a new in-progress segment file for txid.
func (j *Journal) StartLogSegment(ctx context.Context, txid uint64) (journal.Stream, error) {
	entry := indexEntry{Start: txid, InProgress: true}
	path := filepath.Join(j.dir, entry.fileName())

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment file: %w", err)
	}

	if err := j.putEntry(entry); err != nil {
		f.Close()
		return nil, err
	}

	return &fileStream{j: j, entry: entry, file: f, writer: bufio.NewWriter(f)}, nil
}

// FinalizeLogSegment renames the in-progress file to its finalized name
// and updates the index.
func (j *Journal) FinalizeLogSegment(ctx context.Context, first, last uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	old := indexEntry{Start: first, InProgress: true}
	entry, err := j.getEntryLocked(first)
	if err != nil {
		return err
	}
	entry.End = last
	entry.InProgress = false

	oldPath := filepath.Join(j.dir, old.fileName())
	newPath := filepath.Join(j.dir, entry.fileName())
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to finalize segment: %w", err)
	}

	return j.putEntryLocked(entry)
}

// Close closes the segment index.
func (j *Journal) Close() error {
	return j.db.Close()
}

// NumberOfTransactions sums the record counts of segments starting at or
// after from.
func (j *Journal) NumberOfTransactions(ctx context.Context, from uint64) (int64, error) {
	entries, err := j.listEntries(from)
	if err != nil {
		return 0, journal.Corruption(from, err)
	}
	var total int64
	for _, e := range entries {
		total += int64(e.RecordCount)
	}
	return total, nil
}

// GetInputStream returns an input stream replaying finalized segments
// starting at or after from, in ascending start-txid order.
func (j *Journal) GetInputStream(ctx context.Context, from uint64) (journal.InputStream, error) {
	entries, err := j.listEntries(from)
	if err != nil {
		return nil, err
	}

	var records [][]byte
	for _, e := range entries {
		if e.InProgress {
			continue
		}
		path := filepath.Join(j.dir, e.fileName())
		lines, err := readLines(path)
		if err != nil {
			continue
		}
		records = append(records, lines...)
	}
	return &fileInputStream{records: records}, nil
}

// PurgeLogsOlderThan removes finalized segment files (and index entries)
// whose end txid is below minTxID.
func (j *Journal) PurgeLogsOlderThan(ctx context.Context, minTxID uint64) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.allEntriesLocked()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.InProgress || e.End >= minTxID {
			continue
		}
		path := filepath.Join(j.dir, e.fileName())
		_ = os.Remove(path)
		if err := j.deleteEntryLocked(e.Start); err != nil {
			return err
		}
	}
	return nil
}

// RecoverUnfinalizedSegments reconciles the index against the directory:
// the directory is authoritative, the index is a cache.
func (j *Journal) RecoverUnfinalizedSegments(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	files, err := os.ReadDir(j.dir)
	if err != nil {
		return fmt.Errorf("failed to scan journal directory: %w", err)
	}

	recoverLog := log.WithJournal(j.dir)
	for _, f := range files {
		name := f.Name()
		entry, ok := parseFileName(name)
		if !ok {
			continue
		}
		existing, err := j.getEntryLocked(entry.Start)
		if err == nil && existing.InProgress == entry.InProgress && existing.End == entry.End {
			continue
		}
		recoverLog.Info().Msg("reconciling segment index entry from directory scan")
		if err := j.putEntryLocked(entry); err != nil {
			return err
		}
	}
	return nil
}

// Format truncates the journal directory's segment index and removes
// segment files, for use by entries not wired through the facade's
// file-backed exclusion.
func (j *Journal) Format(ctx context.Context, nsInfo journal.NamespaceInfo) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.allEntriesLocked()
	if err != nil {
		return err
	}
	for _, e := range entries {
		_ = os.Remove(filepath.Join(j.dir, e.fileName()))
		_ = j.deleteEntryLocked(e.Start)
	}
	return nil
}

// EditLogManifest returns segment descriptors from the index, starting
// at or after from.
func (j *Journal) EditLogManifest(ctx context.Context, from uint64) ([]journal.RemoteEditLog, error) {
	entries, err := j.listEntries(from)
	if err != nil {
		return nil, err
	}
	logs := make([]journal.RemoteEditLog, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, journal.RemoteEditLog{
			StartTxID:  e.Start,
			EndTxID:    e.End,
			InProgress: e.InProgress,
		})
	}
	return logs, nil
}

func (j *Journal) putEntry(e indexEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.putEntryLocked(e)
}

func (j *Journal) putEntryLocked(e indexEntry) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketSegments).Put(key(e.Start), data)
	})
}

func (j *Journal) getEntry(start uint64) (indexEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.getEntryLocked(start)
}

func (j *Journal) getEntryLocked(start uint64) (indexEntry, error) {
	var e indexEntry
	err := j.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSegments).Get(key(start))
		if raw == nil {
			return fmt.Errorf("no segment index entry for start txid %d", start)
		}
		return json.Unmarshal(raw, &e)
	})
	return e, err
}

func (j *Journal) deleteEntryLocked(start uint64) error {
	return j.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSegments).Delete(key(start))
	})
}

func (j *Journal) listEntries(from uint64) ([]indexEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	all, err := j.allEntriesLocked()
	if err != nil {
		return nil, err
	}
	var result []indexEntry
	for _, e := range all {
		if e.Start >= from {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, k int) bool { return result[i].Start < result[k].Start })
	return result, nil
}

func (j *Journal) allEntriesLocked() ([]indexEntry, error) {
	var entries []indexEntry
	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSegments).ForEach(func(k, v []byte) error {
			var e indexEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	return entries, err
}

func key(start uint64) []byte {
	return []byte(strconv.FormatUint(start, 10))
}

func parseFileName(name string) (indexEntry, bool) {
	if strings.HasPrefix(name, "edits-inprogress-") {
		startStr := strings.TrimPrefix(name, "edits-inprogress-")
		start, err := strconv.ParseUint(startStr, 10, 64)
		if err != nil {
			return indexEntry{}, false
		}
		return indexEntry{Start: start, InProgress: true}, true
	}
	if strings.HasPrefix(name, "edits-") {
		parts := strings.Split(strings.TrimPrefix(name, "edits-"), "-")
		if len(parts) != 2 {
			return indexEntry{}, false
		}
		start, err1 := strconv.ParseUint(parts[0], 10, 64)
		end, err2 := strconv.ParseUint(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			return indexEntry{}, false
		}
		return indexEntry{Start: start, End: end}, true
	}
	return indexEntry{}, false
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		decoded, err := base64.StdEncoding.DecodeString(scanner.Text())
		if err != nil {
			continue
		}
		lines = append(lines, decoded)
	}
	return lines, scanner.Err()
}

// fileStream implements journal.Stream against a single local segment
// file.
type fileStream struct {
	j      *Journal
	entry  indexEntry
	file   *os.File
	writer *bufio.Writer

	mu            sync.Mutex
	numSync       int64
	totalSyncTime time.Duration
	closed        bool
}

func (s *fileStream) Write(record []byte) error {
	line := base64.StdEncoding.EncodeToString(record)
	if _, err := s.writer.WriteString(line + "\n"); err != nil {
		return err
	}
	s.entry.RecordCount++
	return nil
}

func (s *fileStream) Create() error {
	return s.writer.Flush()
}

func (s *fileStream) SetReadyToFlush() error {
	return s.writer.Flush()
}

func (s *fileStream) FlushAndSync() error {
	start := time.Now()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if err := s.file.Sync(); err != nil {
		return err
	}
	if err := s.j.putEntry(s.entry); err != nil {
		return err
	}
	s.mu.Lock()
	s.numSync++
	s.totalSyncTime += time.Since(start)
	s.mu.Unlock()
	return nil
}

func (s *fileStream) Flush() error {
	return s.writer.Flush()
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.writer.Flush()
	return s.file.Close()
}

func (s *fileStream) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	_ = s.file.Close()
}

func (s *fileStream) ShouldForceSync() bool { return false }

func (s *fileStream) NumSync() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numSync
}

func (s *fileStream) TotalSyncTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSyncTime
}

// fileInputStream implements journal.InputStream over a fixed record set
// read from finalized segment files.
type fileInputStream struct {
	records [][]byte
	pos     int
}

func (s *fileInputStream) Read() ([]byte, error) {
	if s.pos >= len(s.records) {
		return nil, nil
	}
	r := s.records[s.pos]
	s.pos++
	return r, nil
}

func (s *fileInputStream) Close() error { return nil }
