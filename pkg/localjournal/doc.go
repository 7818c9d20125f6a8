/*
Package localjournal implements journal.FileBacked against a local
directory: segments are written as plain files, with a bbolt side index
recording each segment's finalized/in-progress state and end txid so that
manifest and transaction-count queries don't need a directory scan on the
hot path.

Segment files are named edits-<start>-<end> once finalized, and
edits-inprogress-<start> while open. The directory is authoritative; the
index is a cache reconciled against it by RecoverUnfinalizedSegments on
startup.
*/
package localjournal
