// Package journal keeps a SQLite history of comparison runs.
//
// Every run started by the comparison driver gets a row in runs, and every
// snapshot file it exports gets a row in snapshots. The snapshot files
// themselves are ephemeral and cleared at startup; the journal is what
// survives, so an operator can find out later which records were compared,
// under which filter and sort, and whether two snapshots had identical
// content.
//
// The database runs in WAL mode with a single connection. Journal
// implements compare.Recorder.
package journal
