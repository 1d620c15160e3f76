// Package main hosts the bpm CLI entrypoint and command graph.
//
// The Cobra-based command tree drives a synthetic encode loop against a
// metrics session, inspects captured payloads, and scaffolds configuration.
// It centralizes config resolution, logging setup, and table rendering so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality to the library and internal
// packages first, then surface it through dedicated commands or flags here.
package main
