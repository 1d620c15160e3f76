package bpm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"bpm/internal/export"
	"bpm/internal/logging"
	"bpm/internal/metrics"
	"bpm/internal/sei"
)

// ErrInvalidEncoding marks fingerprint input that is empty or not valid
// UTF-8. Such input is rejected at this boundary before it reaches the
// registry.
var ErrInvalidEncoding = errors.New("invalid fingerprint encoding")

// Error kinds surfaced by the inner components, re-exported so embedders can
// classify failures with errors.Is without importing internal packages.
var (
	ErrCapacityExceeded = metrics.ErrCapacityExceeded
	ErrTrackOutOfRange  = metrics.ErrTrackOutOfRange
	ErrInvalidTimestamp = sei.ErrInvalidTimestamp
	ErrNilBuffer        = export.ErrNilBuffer
	ErrBufferReleased   = export.ErrBufferReleased
)

// Buffer is a rendered payload owned by the caller until released.
type Buffer = export.Buffer

// Snapshot is a read-only diagnostic view of session state.
type Snapshot = metrics.Snapshot

// TrackSnapshot is one rendition's entry in a Snapshot.
type TrackSnapshot = metrics.TrackSnapshot

// PayloadSize is the fixed byte size of a combined rendered payload.
const PayloadSize = sei.PayloadSize

// Options configure a Session.
type Options struct {
	// MaxTracks bounds how many distinct renditions the session will
	// register. Non-positive selects the default of 6.
	MaxTracks int
	// Logger receives structured diagnostics; nil keeps the session silent.
	Logger *slog.Logger
	// Clock overrides the wall-clock source, for tests.
	Clock func() time.Time
}

// Session owns one encoding session's metric state: the track registry, the
// counters, and the ownership table for rendered payloads.
type Session struct {
	state   *metrics.State
	buffers *export.Table
	logger  *slog.Logger
	now     func() time.Time
}

// New constructs an independent Session.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Session{
		state:   metrics.NewState(opts.MaxTracks),
		buffers: export.NewTable(),
		logger:  logger.With("component", "bpm"),
		now:     now,
	}
}

// ResolveTrack maps a rendition fingerprint to its stable track index,
// registering the fingerprint on first sight. The first fingerprint of the
// session gets index 0, the primary rendition.
func (s *Session) ResolveTrack(fingerprint string) (int, error) {
	if fingerprint == "" {
		return 0, fmt.Errorf("%w: empty fingerprint", ErrInvalidEncoding)
	}
	if !utf8.ValidString(fingerprint) {
		return 0, fmt.Errorf("%w: fingerprint is not valid UTF-8", ErrInvalidEncoding)
	}

	index, err := s.state.ResolveTrack(fingerprint)
	if err != nil {
		s.logger.Error("track registration failed", "fingerprint", fingerprint, "error", err)
		return 0, err
	}
	return index, nil
}

// TrackCount reports how many renditions have been registered.
func (s *Session) TrackCount() int {
	return s.state.TrackCount()
}

// FrameEncoded records a successfully encoded frame for track.
func (s *Session) FrameEncoded(track int) error {
	return s.state.FrameEncoded(track)
}

// FrameLagged records a frame the track's encoder fell behind on.
func (s *Session) FrameLagged(track int) error {
	return s.state.FrameLagged(track)
}

// FrameDropped records a frame dropped before the track's encoder.
func (s *Session) FrameDropped(track int) error {
	return s.state.FrameDropped(track)
}

// Instants carries optional caller-supplied event times in epoch
// milliseconds. A non-positive field means "use the current instant"; when
// every field is unset all four events share a single now capture.
type Instants struct {
	CompositionMS    int64
	EncodeRequestMS  int64
	EncodeCompleteMS int64
	InterleaveMS     int64
}

func (s *Session) timestamps(in Instants) (sei.Timestamps, error) {
	now := sei.FormatTime(s.now())
	resolve := func(epochMS int64) (string, error) {
		if epochMS <= 0 {
			return now, nil
		}
		return sei.FormatMillis(epochMS)
	}

	var ts sei.Timestamps
	var err error
	if ts.Composition, err = resolve(in.CompositionMS); err != nil {
		return sei.Timestamps{}, err
	}
	if ts.EncodeRequest, err = resolve(in.EncodeRequestMS); err != nil {
		return sei.Timestamps{}, err
	}
	if ts.EncodeComplete, err = resolve(in.EncodeCompleteMS); err != nil {
		return sei.Timestamps{}, err
	}
	if ts.PacketInterleave, err = resolve(in.InterleaveMS); err != nil {
		return sei.Timestamps{}, err
	}
	return ts, nil
}

// RenderPayload renders the combined fixed-size payload for track,
// consuming the session deltas and that track's deltas. The caller owns the
// returned buffer until Release.
func (s *Session) RenderPayload(track int) (*Buffer, error) {
	return s.RenderPayloadInstants(track, Instants{})
}

// RenderPayloadInstants is RenderPayload with caller-supplied event times.
func (s *Session) RenderPayloadInstants(track int, in Instants) (*Buffer, error) {
	ts, err := s.timestamps(in)
	if err != nil {
		return nil, err
	}

	sessionDeltas, trackDeltas, err := s.state.ReportDeltas(track)
	if err != nil {
		return nil, err
	}

	payload := sei.EncodePayload(
		ts,
		sei.SessionCounters{
			Rendered: sessionDeltas.Rendered,
			Lagged:   sessionDeltas.Lagged,
			Dropped:  sessionDeltas.Dropped,
			Output:   sessionDeltas.Output,
		},
		sei.RenditionCounters{
			Input:   trackDeltas.Input,
			Skipped: trackDeltas.Skipped,
			Output:  trackDeltas.Output,
		},
	)
	s.logger.Debug("rendered payload", "track", track, "bytes", len(payload))
	return s.buffers.Export(payload), nil
}

// RenderTimestampMessage renders a standalone Timestamp message. It touches
// no counters.
func (s *Session) RenderTimestampMessage(in Instants) (*Buffer, error) {
	ts, err := s.timestamps(in)
	if err != nil {
		return nil, err
	}
	return s.buffers.Export(sei.EncodeTimestampMessage(ts)), nil
}

// RenderSessionMetrics renders a standalone Session Metrics message,
// consuming the session deltas.
func (s *Session) RenderSessionMetrics() (*Buffer, error) {
	interleave := sei.FormatTime(s.now())
	deltas := s.state.SessionDeltas()
	message := sei.EncodeSessionMetricsMessage(interleave, sei.SessionCounters{
		Rendered: deltas.Rendered,
		Lagged:   deltas.Lagged,
		Dropped:  deltas.Dropped,
		Output:   deltas.Output,
	})
	return s.buffers.Export(message), nil
}

// RenderRenditionMetrics renders a standalone Rendition Metrics message for
// track, consuming that track's deltas.
func (s *Session) RenderRenditionMetrics(track int) (*Buffer, error) {
	interleave := sei.FormatTime(s.now())
	deltas, err := s.state.TrackDeltas(track)
	if err != nil {
		return nil, err
	}
	message := sei.EncodeRenditionMetricsMessage(interleave, sei.RenditionCounters{
		Input:   deltas.Input,
		Skipped: deltas.Skipped,
		Output:  deltas.Output,
	})
	return s.buffers.Export(message), nil
}

// Release returns ownership of a rendered buffer. Releasing nil or an
// already-released buffer is a caller contract violation and is reported
// loudly without corrupting session state.
func (s *Session) Release(b *Buffer) error {
	if err := s.buffers.Release(b); err != nil {
		s.logger.Error("buffer release rejected", "error", err)
		return err
	}
	return nil
}

// OutstandingBuffers reports how many rendered buffers have not been
// released, for leak diagnostics.
func (s *Session) OutstandingBuffers() int {
	return s.buffers.Outstanding()
}

// Snapshot copies the cumulative session state for diagnostics. It does not
// consume any deltas.
func (s *Session) Snapshot() Snapshot {
	return s.state.Snapshot()
}
