package main

import (
	"fmt"

	"github.com/cuemby/journalset/pkg/config"
	"github.com/cuemby/journalset/pkg/events"
	"github.com/cuemby/journalset/pkg/journal"
	"github.com/cuemby/journalset/pkg/localjournal"
	"github.com/cuemby/journalset/pkg/memjournal"
	"github.com/cuemby/journalset/pkg/registry"
)

// buildSet constructs a journal.Set from a loaded config file, wiring
// kind=local entries to pkg/localjournal and kind=shared/remote entries
// to pkg/memjournal (the in-process stand-in for a real remote client).
// broker may be nil, in which case the set never publishes events.
func buildSet(cfg *config.File, reg *registry.BoltRegistry, broker *events.Broker) (*journal.Set, error) {
	var entries []*journal.Entry

	for _, spec := range cfg.Journals {
		var underlying journal.Underlying

		switch spec.Kind {
		case config.KindLocal:
			lj, err := localjournal.New(spec.Path)
			if err != nil {
				return nil, fmt.Errorf("journal %q: %w", spec.Name, err)
			}
			if reg != nil {
				_ = reg.Classify(spec.Path, journal.ClassLocal)
			}
			underlying = lj
		case config.KindShared, config.KindRemote:
			underlying = memjournal.New(spec.Name)
			if reg != nil && spec.Kind == config.KindShared {
				_ = reg.Classify(spec.Name, journal.ClassRemote)
			}
		default:
			return nil, fmt.Errorf("journal %q: unsupported kind %q", spec.Name, spec.Kind)
		}

		entries = append(entries, journal.NewEntry(underlying, spec.Required, spec.Shared, spec.Remote))
	}

	opts := journal.Options{
		MinJournals:         cfg.MinJournals,
		MinNonlocalJournals: cfg.MinNonlocalJournals,
		Events:              broker,
	}
	if reg != nil {
		opts.Registry = reg
	}

	return journal.NewSet(entries, opts), nil
}
