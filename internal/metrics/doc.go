// Package metrics tracks per-rendition encoding outcomes for one session.
//
// It combines the track registry, which maps opaque rendition fingerprints
// to stable small indexes, with the cumulative and last-reported counter
// state those indexes address. Both live behind a single exclusive lock so
// every event and every delta read is atomic; critical sections are O(1) or
// O(tracks), never proportional to event history.
//
// Delta reads consume: each call returns the growth since the previous call
// and marks the current values as reported. Diagnostic code that must not
// disturb reporting uses Snapshot instead.
package metrics
