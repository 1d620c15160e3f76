// Package sei encodes broadcast performance metrics into fixed-layout SEI
// message blocks for muxing into an outgoing video bitstream.
//
// Three message kinds exist, each opening with a constant 16-byte UUID a
// downstream parser keys on: a Timestamp message carrying four event
// instants, a Session Metrics message carrying the four session counters,
// and a Rendition Metrics message carrying one track's three counters. All
// multi-byte counter values are big-endian and every message has a fixed
// byte size, so the combined payload is always exactly PayloadSize bytes.
//
// Encoding here is pure; callers supply already-computed counter deltas and
// pre-formatted timestamps.
package sei
