// Package snapshot names, writes and cleans up the text files handed to the
// external diff tool.
//
// A snapshot name is built from the collection name, the record's numeric
// identifier, its last update time and a per-run disambiguator token:
//
//	orders-id42-20240102_030405_678-k3xq
//
// Only the collection name and the token are always present. Files are
// write-once; the directory is emptied once per process (Dir.Reset) and
// otherwise only grows.
package snapshot
