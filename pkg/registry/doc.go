/*
Package registry provides a reference implementation of the storage
directory health registry that the Health Arbiter and Input Selector
depend on as an external contract (journal.Registry). The Journal Set
itself never owns directory classification — it only reports errors and
reads preference — so this package is a standalone, swappable component.

BoltRegistry persists per-directory error counts and LOCAL/REMOTE
classification in a bbolt bucket, the same bucket-per-concern style the
rest of this module's storage layer uses.
*/
package registry
