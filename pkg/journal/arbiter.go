package journal

import (
	"github.com/cuemby/journalset/pkg/events"
	"github.com/cuemby/journalset/pkg/log"
	"github.com/cuemby/journalset/pkg/metrics"
)

// arbiter disables bad entries from a fan-out, notifies the storage
// registry, and re-evaluates quorum; it is the only component allowed to
// raise QuorumLost.
type arbiter struct {
	registry            Registry
	events              *events.Broker
	minJournals         int
	minNonlocalJournals int
	forceCheck          bool
}

func newArbiter(registry Registry, broker *events.Broker, minJournals, minNonlocalJournals int) *arbiter {
	return &arbiter{
		registry:            registry,
		events:              broker,
		minJournals:         minJournals,
		minNonlocalJournals: minNonlocalJournals,
	}
}

// publish is a nil-safe wrapper around events.Broker.Publish: wiring an
// events.Broker is optional, so every call site stays valid when Options.Events
// is unset.
func (a *arbiter) publish(t events.EventType, msg string, metadata map[string]string) {
	if a.events == nil {
		return
	}
	a.events.Publish(&events.Event{Type: t, Message: msg, Metadata: metadata})
}

// evaluate runs the Health Arbiter algorithm over entries given the bad
// set from a fan-out. On success it returns the current active count; on
// quorum loss it returns a QuorumLost error and latches forceCheck.
func (a *arbiter) evaluate(entries []*Entry, bad []*Entry) (int, error) {
	if len(bad) == 0 && !a.forceCheck {
		return a.countActive(entries), nil
	}
	if len(bad) == 0 && a.forceCheck {
		a.forceCheck = false
		active, err := a.checkQuorum(entries)
		if err == nil {
			a.publish(events.EventQuorumRestored, "quorum restored on re-check", nil)
		}
		return active, err
	}

	entryLog := log.WithComponent("health_arbiter")
	for _, e := range bad {
		entryLog.Error().Msg("fan-out operation failed on journal entry, disabling")
		e.Abort()
		e.Disable()
		metadata := map[string]string{}
		if fb, ok := e.FileBacked(); ok {
			metadata["directory"] = fb.StorageDirectory()
			if a.registry != nil {
				a.registry.ReportErrorOnDirectory(fb.StorageDirectory())
			}
		}
		a.publish(events.EventJournalDisabled, "fan-out operation failed on journal entry, disabling", metadata)
	}

	disabled := a.countDisabled(entries)
	metrics.DisabledJournals.Set(float64(disabled))
	if a.registry != nil {
		a.registry.UpdateJournalMetrics(disabled)
	}

	return a.checkQuorum(entries)
}

// checkQuorum walks all entries and decides whether the surviving set
// still satisfies the configured thresholds.
func (a *arbiter) checkQuorum(entries []*Entry) (int, error) {
	active := 0
	nonlocalActive := 0
	requiredDisabled := false

	for _, e := range entries {
		if e.Required && e.Disabled() {
			requiredDisabled = true
		}
		if e.IsResourceAvailable() {
			active++
			if e.Shared || e.Remote {
				nonlocalActive++
			}
		}
	}

	metrics.ActiveJournals.Set(float64(active))

	if requiredDisabled || active < a.minJournals || nonlocalActive < a.minNonlocalJournals {
		a.forceCheck = true
		metrics.QuorumLostTotal.Inc()
		a.publish(events.EventQuorumLost, "quorum lost", nil)
		return active, QuorumLost(QuorumLostDetail{
			MinJournals:         a.minJournals,
			Active:              active,
			MinNonlocalJournals: a.minNonlocalJournals,
			NonlocalActive:      nonlocalActive,
			RequiredDisabled:    requiredDisabled,
		})
	}
	return active, nil
}

func (a *arbiter) countActive(entries []*Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsResourceAvailable() {
			n++
		}
	}
	return n
}

func (a *arbiter) countDisabled(entries []*Entry) int {
	n := 0
	for _, e := range entries {
		if e.Disabled() {
			n++
		}
	}
	return n
}
