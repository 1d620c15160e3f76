// Package config loads and validates the bpm CLI configuration.
//
// It supplies repository defaults, reads TOML files, and validates the
// simulated rendition set against the session's track capacity before the
// CLI spins anything up. Always obtain settings through this package so
// commands receive canonical log formats and a rendition list that is known
// to fit.
package config
