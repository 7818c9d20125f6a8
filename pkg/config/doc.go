/*
Package config loads the YAML document that describes a journal set
deployment for cmd/journalsetctl: quorum thresholds and the list of
journals to wire up, plus the ambient logging and metrics knobs.

Config file: journalset.yaml (path given on the command line)

Validation: all required fields must be present, quorum thresholds must
be non-negative, and each journal entry must name a supported kind.
Load refuses to start on an invalid file.
*/
package config
