// Package compare drives a comparison run over a collection.
//
// A run counts the documents matching the session's filter, then streams
// them in the session's sort order. Each document is canonicalized, named,
// and written to the snapshot directory. Every consecutive pair of
// snapshots is handed to the external diff tool, and the operator is asked
// whether to continue before the next document is exported.
//
// The driver is strictly sequential: at most one diff tool invocation is
// outstanding, and nothing is exported past a declined confirmation.
package compare
