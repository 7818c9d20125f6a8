/*
Package memjournal implements journal.Underlying entirely in memory. It
stands in for the out-of-scope remote RPC client: a production deployment
of the journal set would substitute its own network-backed client
satisfying the same contract, but for shared/remote entries in tests and
the CLI demo this package gives the fan-out layer something real to drive
without any I/O.

It can be configured to inject Corruption or plain I/O failures on
specific calls, which is what exercises the Health Arbiter and Input
Selector's error paths in tests.
*/
package memjournal
