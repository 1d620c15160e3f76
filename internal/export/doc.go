// Package export models the ownership hand-off of rendered payload buffers.
//
// Rendered payloads cross into caller-owned memory; the library keeps only a
// numeric handle so a later release can be validated. Releasing a nil,
// foreign, or already-released buffer is reported as an error rather than
// corrupting shared state.
package export
