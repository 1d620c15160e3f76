// Package capture persists rendered payloads to a SQLite log for offline
// inspection.
//
// This is CLI-side diagnostics only: the metrics library itself keeps no
// state beyond process memory. The store records each rendered payload with
// its run ID, track, and rendition fingerprint so `bpm capture` commands can
// list and hex-dump what a simulation produced.
package capture
