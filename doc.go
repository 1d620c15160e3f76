// Package bpm tracks broadcast performance metrics for a video encoding
// session and renders them as fixed-layout SEI payloads.
//
// An embedding encoder creates one Session per encoding session, resolves
// each output rendition's fingerprint to a stable track index, and records
// frame outcomes (encoded, lagged, dropped) as they happen. On each
// reporting tick it renders a payload for a track; the payload carries the
// counters' growth since the previous render, so rendering consumes those
// deltas. Rendered payloads are caller-owned until passed back to Release.
//
// There is no package-level state: every Session is independent, and all
// operations on one Session are safe for concurrent use.
package bpm
