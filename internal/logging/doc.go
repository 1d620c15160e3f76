// Package logging assembles the structured slog loggers used by the bpm
// library and CLI.
//
// It owns the console and JSON handler construction, centralizes level
// parsing, and provides a no-op logger for embedders and tests that want the
// library silent. Prefer these constructors over hand-rolled slog setup so
// every component emits the same line shape.
package logging
