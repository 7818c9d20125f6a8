/*
Package journal implements the Journal Set: the fan-out layer that drives a
heterogeneous collection of edit-log journals (local file directories,
shared storage, remote log services) through a shared lifecycle, tracks
per-journal health, enforces quorum, and reconstructs a gap-free manifest
across overlapping file-backed segments.

# Architecture

	┌──────────────────────── JOURNAL SET ─────────────────────────┐
	│                                                                │
	│  Facade (Set)                                                 │
	│   ├─ add / remove / close                                     │
	│   ├─ startLogSegment → AggregateOutputStream                  │
	│   ├─ getInputStream  → InputSelector                           │
	│   └─ getEditLogManifest → ManifestBuilder                      │
	│                                                                │
	│  Fan-out Executor                                              │
	│   ├─ sequential: loop in insertion order                       │
	│   └─ parallel: fixed-size worker Pool, join all tasks          │
	│          │                                                     │
	│          ▼                                                     │
	│  Health Arbiter                                                │
	│   ├─ disables bad entries, notifies storage registry           │
	│   └─ quorum evaluation (min_journals, min_nonlocal_journals)    │
	│                                                                │
	│  [ Entry ] [ Entry ] [ Entry ] ...  (one per underlying journal)│
	└────────────────────────────────────────────────────────────────┘

Every entry pairs an Underlying journal handle with role flags
(required/shared/remote) and a possibly-open Stream. Every lifecycle and
stream operation goes through the Executor so that a single failing
journal never stalls or corrupts the others. FormatNonFileJournals is the
exception: it calls Format on each non-file-backed journal directly and
returns the first error.

# Error handling

Classified failures never propagate directly out of a fan-out — they are
collected into a "bad" set and handed to the Health Arbiter, which decides
whether the surviving set still satisfies quorum. The Arbiter's decision
(success, or QuorumLost) is what reaches the caller; the one exception is
a failure of the worker pool itself, which is returned as
InternalPoolError without going through the Arbiter. See errors.go.
*/
package journal
