package registry

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cuemby/journalset/pkg/journal"
	"github.com/cuemby/journalset/pkg/metrics"
	bolt "go.etcd.io/bbolt"
)

var bucketDirectories = []byte("directories")

// directoryState is the persisted record for one storage directory.
type directoryState struct {
	Path           string    `json:"path"`
	Classification int       `json:"classification"`
	ErrorCount     int       `json:"error_count"`
	LastError      time.Time `json:"last_error,omitempty"`
}

// BoltRegistry implements journal.Registry against a bbolt database.
type BoltRegistry struct {
	db *bolt.DB
}

// NewBoltRegistry opens (or creates) the registry database under dataDir.
func NewBoltRegistry(dataDir string) (*BoltRegistry, error) {
	dbPath := filepath.Join(dataDir, "registry.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDirectories)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create directories bucket: %w", err)
	}

	return &BoltRegistry{db: db}, nil
}

// Close closes the underlying database.
func (r *BoltRegistry) Close() error {
	return r.db.Close()
}

// Classify records the classification for a storage directory, creating
// its record if absent.
func (r *BoltRegistry) Classify(dir string, class journal.Classification) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDirectories)
		state := r.load(b, dir)
		state.Classification = int(class)
		return r.save(b, state)
	})
}

// ReportErrorOnDirectory increments the error count for dir and records
// the time of the error.
func (r *BoltRegistry) ReportErrorOnDirectory(dir string) {
	_ = r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDirectories)
		state := r.load(b, dir)
		state.ErrorCount++
		state.LastError = time.Now()
		return r.save(b, state)
	})
	metrics.DirectoryErrorsTotal.WithLabelValues(dir).Inc()
}

// UpdateJournalMetrics publishes the current disabled-entry count to the
// registry's metrics surface.
func (r *BoltRegistry) UpdateJournalMetrics(failedCount int) {
	metrics.DisabledJournals.Set(float64(failedCount))
}

// IsPreferred reports whether dir is classified as class.
func (r *BoltRegistry) IsPreferred(class journal.Classification, dir string) bool {
	var preferred bool
	_ = r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDirectories)
		raw := b.Get([]byte(dir))
		if raw == nil {
			return nil
		}
		var state directoryState
		if err := json.Unmarshal(raw, &state); err != nil {
			return err
		}
		preferred = journal.Classification(state.Classification) == class
		return nil
	})
	return preferred
}

func (r *BoltRegistry) load(b *bolt.Bucket, dir string) directoryState {
	raw := b.Get([]byte(dir))
	if raw == nil {
		return directoryState{Path: dir, Classification: int(journal.ClassLocal)}
	}
	var state directoryState
	if err := json.Unmarshal(raw, &state); err != nil {
		return directoryState{Path: dir, Classification: int(journal.ClassLocal)}
	}
	return state
}

func (r *BoltRegistry) save(b *bolt.Bucket, state directoryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return b.Put([]byte(state.Path), data)
}
