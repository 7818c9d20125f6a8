/*
Package log provides structured logging for the journal set using zerolog.

A single global Logger is initialized once via Init and accessed from every
other package in this module. Component loggers (WithComponent, WithJournal,
WithSet) attach stable fields — which component, which journal, which set
instance — so log lines such as the Health Arbiter's per-entry error line
can be filtered and aggregated without string parsing.

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	entryLog := log.WithJournal("/data/journal-a")
	entryLog.Error().Err(err).Msg("journal disabled after fan-out failure")

JSONOutput selects JSON (production) vs. zerolog's ConsoleWriter (local
development); both carry a timestamp on every record.
*/
package log
