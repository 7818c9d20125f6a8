/*
Package metrics provides Prometheus instrumentation for the journal set,
registered once at package init and exposed via Handler() on /metrics.

# Metrics Catalog

  - journalset_active_journals (gauge) — resource-available entries, updated
    after every Health Arbiter quorum evaluation.
  - journalset_disabled_journals (gauge) — entries latched disabled.
  - journalset_quorum_lost_total (counter) — operations that raised QuorumLost.
  - journalset_directory_errors_total{directory} (counter) — per-directory
    error notifications forwarded to the storage registry.
  - journalset_fanout_duration_seconds{op,mode} (histogram) — latency of a
    fan-out call, labeled by operation name and "sequential"/"parallel".
  - journalset_manifest_gaps_total (counter) — gaps discovered while merging
    segment listings.
  - journalset_input_selections_total{outcome} (counter) — Input Selector
    outcomes: selected, none, corrupt.

# Usage

	timer := metrics.NewTimer()
	// ... run a fan-out ...
	timer.ObserveDurationVec(metrics.FanoutDuration, "flush", "parallel")

Gauges are set directly by the Health Arbiter after each quorum
evaluation; counters are incremented at the point of the event they
count. Cardinality on "directory" is bounded by the number of configured
journal directories, so it stays safe as a label.
*/
package metrics
