/*
Package events provides an in-memory event broker for journal set notifications.

The Health Arbiter and Manifest Builder publish events as side effects of
their evaluations — a disabled journal, a lost quorum, a gap found while
merging manifests — so that an operator-facing component (the CLI's
"serve" command, an external alerting hook) can react without polling
internal state. Wiring a *Broker into journal.Options is optional: every
publish call site is nil-safe and simply skips publishing when unset.

# Architecture

	Publisher (Health Arbiter, Manifest Builder)
	     │ Publish(event)
	     ▼
	Event Channel (buffer: 100)
	     │
	Broadcast Loop
	     │
	     ▼
	Subscriber Channels (buffer: 50 each)

Delivery to subscribers is non-blocking: a full subscriber buffer causes
that subscriber to skip the event rather than stall the broker. Publish
itself waits while the event channel is full, until the broadcast loop
takes the event or the broker is stopped. Publish assigns an ID
(uuid.NewString) and a Timestamp whenever the caller leaves them zero.

# Event Types

  - journal.disabled — the Health Arbiter disabled an entry after a bad fan-out result
  - quorum.lost / quorum.restored — fan-out quorum evaluation outcomes
  - manifest.gap — a gap discovered while merging segment listings

journal.recovered, segment.started, segment.finalized, and
directory.error are reserved for callers building on top of this
package; nothing under pkg/journal publishes them today.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for event := range sub {
			fmt.Printf("[%s] %s: %s\n", event.Timestamp.Format(time.RFC3339), event.Type, event.Message)
		}
	}()

	broker.Publish(&events.Event{
		Type:    events.EventQuorumLost,
		Message: "journal set lost quorum during flush",
		Metadata: map[string]string{"journal_set": "set-0"},
	})

# Limitations

Delivery is best-effort and in-memory only: there is no persistence, replay,
or ordering guarantee across subscribers. Callers that need a durable audit
trail should subscribe and write events to their own store.
*/
package events
