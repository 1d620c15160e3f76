package metrics

// TrackSnapshot is a read-only view of one registered rendition's
// cumulative counters.
type TrackSnapshot struct {
	Index       int
	Fingerprint string
	Input       uint32
	Skipped     uint32
	Output      uint32
}

// Snapshot is a read-only view of the full session state. It exists for
// diagnostics and does not disturb the reporting snapshots.
type Snapshot struct {
	MaxTracks int
	Rendered  uint32
	Lagged    uint32
	Dropped   uint32
	Output    uint32
	Tracks    []TrackSnapshot
}

// Snapshot copies the current cumulative state without consuming any
// deltas.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		MaxTracks: s.maxTracks,
		Rendered:  s.session.rendered,
		Lagged:    s.session.lagged,
		Dropped:   s.session.dropped,
		Output:    s.session.output,
		Tracks:    make([]TrackSnapshot, len(s.tracks)),
	}
	for i, counters := range s.tracks {
		snap.Tracks[i] = TrackSnapshot{
			Index:       i,
			Fingerprint: s.fingerprints[i],
			Input:       counters.input,
			Skipped:     counters.skipped,
			Output:      counters.output,
		}
	}
	return snap
}
