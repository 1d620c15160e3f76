package metrics

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultMaxTracks is the rendition capacity used when the caller does not
// configure one.
const DefaultMaxTracks = 6

var (
	// ErrCapacityExceeded signals that more distinct renditions were
	// registered than the session was configured to track. This is a
	// misconfiguration on the caller's side, not a transient condition.
	ErrCapacityExceeded = errors.New("track capacity exceeded")

	// ErrTrackOutOfRange signals an event or delta read for a track index
	// that was never registered.
	ErrTrackOutOfRange = errors.New("track index out of range")
)

type sessionCounters struct {
	rendered uint32
	lagged   uint32
	dropped  uint32
	output   uint32
}

type trackCounters struct {
	input   uint32
	skipped uint32
	output  uint32
}

// SessionDeltas holds the growth of the four session counters since the
// previous report.
type SessionDeltas struct {
	Rendered uint32
	Lagged   uint32
	Dropped  uint32
	Output   uint32
}

// TrackDeltas holds the growth of one track's counters since the previous
// report.
type TrackDeltas struct {
	Input   uint32
	Skipped uint32
	Output  uint32
}

// State holds the track registry and all session and per-track counters for
// one encoding session behind a single exclusive lock.
type State struct {
	mu        sync.Mutex
	maxTracks int

	fingerprints []string
	indexes      map[string]int

	session         sessionCounters
	sessionReported sessionCounters

	tracks         []trackCounters
	tracksReported []trackCounters
}

// NewState constructs an empty session state. A non-positive maxTracks
// selects DefaultMaxTracks.
func NewState(maxTracks int) *State {
	if maxTracks <= 0 {
		maxTracks = DefaultMaxTracks
	}
	return &State{
		maxTracks: maxTracks,
		indexes:   make(map[string]int, maxTracks),
	}
}

// ResolveTrack returns the stable index for fingerprint, registering it on
// first sight. Indexes are assigned in first-seen order, so the first
// fingerprint of the session gets index 0 and is treated as the primary
// rendition for session rendered accounting.
func (s *State) ResolveTrack(fingerprint string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index, ok := s.indexes[fingerprint]; ok {
		return index, nil
	}
	if len(s.fingerprints) >= s.maxTracks {
		return 0, fmt.Errorf("%w: %q would be rendition %d of a maximum %d", ErrCapacityExceeded, fingerprint, len(s.fingerprints)+1, s.maxTracks)
	}

	index := len(s.fingerprints)
	s.fingerprints = append(s.fingerprints, fingerprint)
	s.indexes[fingerprint] = index
	s.tracks = append(s.tracks, trackCounters{})
	s.tracksReported = append(s.tracksReported, trackCounters{})
	return index, nil
}

// TrackCount reports how many renditions have been registered.
func (s *State) TrackCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fingerprints)
}

// checkTrack validates an index against the registered set. Callers must
// hold s.mu.
func (s *State) checkTrack(track int) error {
	if track < 0 || track >= len(s.tracks) {
		return fmt.Errorf("%w: index %d with %d registered", ErrTrackOutOfRange, track, len(s.tracks))
	}
	return nil
}

// FrameEncoded records a successfully encoded frame for track. Session
// output always advances; session rendered advances only for the primary
// rendition (track 0).
func (s *State) FrameEncoded(track int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTrack(track); err != nil {
		return err
	}
	if track == 0 {
		s.session.rendered++
	}
	s.session.output++
	s.tracks[track].input++
	s.tracks[track].output++
	return nil
}

// FrameLagged records a frame the track's encoder fell behind on.
func (s *State) FrameLagged(track int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTrack(track); err != nil {
		return err
	}
	s.session.lagged++
	s.tracks[track].input++
	s.tracks[track].skipped++
	return nil
}

// FrameDropped records a frame dropped before the track's encoder, e.g. by
// network congestion upstream.
func (s *State) FrameDropped(track int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTrack(track); err != nil {
		return err
	}
	s.session.dropped++
	s.tracks[track].input++
	s.tracks[track].skipped++
	return nil
}

// sessionDeltasLocked computes and consumes the session deltas. Cumulative
// counters never decrease and both sides mutate under the same lock, so the
// subtractions cannot underflow. Callers must hold s.mu.
func (s *State) sessionDeltasLocked() SessionDeltas {
	deltas := SessionDeltas{
		Rendered: s.session.rendered - s.sessionReported.rendered,
		Lagged:   s.session.lagged - s.sessionReported.lagged,
		Dropped:  s.session.dropped - s.sessionReported.dropped,
		Output:   s.session.output - s.sessionReported.output,
	}
	s.sessionReported = s.session
	return deltas
}

// trackDeltasLocked computes and consumes one track's deltas. Callers must
// hold s.mu and have validated track.
func (s *State) trackDeltasLocked(track int) TrackDeltas {
	deltas := TrackDeltas{
		Input:   s.tracks[track].input - s.tracksReported[track].input,
		Skipped: s.tracks[track].skipped - s.tracksReported[track].skipped,
		Output:  s.tracks[track].output - s.tracksReported[track].output,
	}
	s.tracksReported[track] = s.tracks[track]
	return deltas
}

// SessionDeltas returns each session counter's growth since the previous
// report and marks the current values as reported. A second call without
// intervening events yields zeros.
func (s *State) SessionDeltas() SessionDeltas {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionDeltasLocked()
}

// TrackDeltas returns one track's counter growth since the previous report
// and marks the current values as reported.
func (s *State) TrackDeltas(track int) (TrackDeltas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTrack(track); err != nil {
		return TrackDeltas{}, err
	}
	return s.trackDeltasLocked(track), nil
}

// ReportDeltas consumes the session deltas and one track's deltas in a
// single atomic step, for combined payload rendering. When the track index
// is invalid nothing is consumed.
func (s *State) ReportDeltas(track int) (SessionDeltas, TrackDeltas, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTrack(track); err != nil {
		return SessionDeltas{}, TrackDeltas{}, err
	}
	return s.sessionDeltasLocked(), s.trackDeltasLocked(track), nil
}
