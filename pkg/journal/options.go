package journal

import "github.com/cuemby/journalset/pkg/events"

// Options configures a Set at construction time.
type Options struct {
	// MinJournals is the minimum number of active journals required after
	// any quorum evaluation. Default 1.
	MinJournals int
	// MinNonlocalJournals is the minimum number of active shared/remote
	// journals required after any quorum evaluation. Default 0.
	MinNonlocalJournals int
	// Registry is the storage-directory health registry notified of
	// per-directory errors and disabled-entry counts. May be nil, in
	// which case notifications are simply skipped.
	Registry Registry
	// Events receives journal.disabled, quorum.lost/restored and
	// manifest.gap notifications from the Health Arbiter and Manifest
	// Builder. May be nil, in which case publishing is simply skipped.
	Events *events.Broker
}

func (o Options) withDefaults() Options {
	if o.MinJournals <= 0 {
		o.MinJournals = 1
	}
	if o.MinNonlocalJournals < 0 {
		o.MinNonlocalJournals = 0
	}
	return o
}
