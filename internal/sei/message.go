package sei

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Message-kind identifiers. A downstream parser keys on these 16-byte
// values; they are wire constants and must never change.
var (
	TimestampUUID        = uuid.MustParse("8a5e4c22-6a30-4a61-9c7a-1efb9a2d4db1")
	SessionMetricsUUID   = uuid.MustParse("d1f0b3e6-8f0c-4a1d-97e2-3c5b61a6f0d4")
	RenditionMetricsUUID = uuid.MustParse("47c5b1a9-2d84-4e57-8c19-b0a3f62e9d7c")
)

// Event tags carried by timestamp entries, in the fixed order they appear
// in a Timestamp message.
const (
	EventCompositionTime  byte = 1
	EventEncodeRequest    byte = 2
	EventEncodeComplete   byte = 3
	EventPacketInterleave byte = 4
)

// timestampTypeRFC3339 tags the textual encoding used by every timestamp
// entry. No other encoding is defined.
const timestampTypeRFC3339 byte = 1

// Session counter tags, in wire order.
const (
	counterRendered byte = 1
	counterLagged   byte = 2
	counterDropped  byte = 3
	counterOutput   byte = 4
)

// Rendition counter tags, in wire order.
const (
	counterTrackInput   byte = 1
	counterTrackSkipped byte = 2
	counterTrackOutput  byte = 3
)

// Fixed wire sizes. Each timestamp entry is a type tag, an event tag, the
// timestamp text, and a NUL; each counter entry is a tag and a big-endian
// uint32.
const (
	timestampEntrySize = 2 + TimestampWidth + 1
	counterEntrySize   = 1 + 4

	TimestampMessageSize        = 16 + 1 + 4*timestampEntrySize
	SessionMetricsMessageSize   = 16 + 1 + timestampEntrySize + 1 + 4*counterEntrySize
	RenditionMetricsMessageSize = 16 + 1 + timestampEntrySize + 1 + 3*counterEntrySize

	PayloadSize = TimestampMessageSize + SessionMetricsMessageSize + RenditionMetricsMessageSize
)

// Timestamps carries the four formatted event instants of a Timestamp
// message. Values longer than TimestampWidth are truncated on the wire and
// shorter ones NUL-padded.
type Timestamps struct {
	Composition      string
	EncodeRequest    string
	EncodeComplete   string
	PacketInterleave string
}

// SessionCounters holds the session counter deltas written into a Session
// Metrics message.
type SessionCounters struct {
	Rendered uint32
	Lagged   uint32
	Dropped  uint32
	Output   uint32
}

// RenditionCounters holds one track's counter deltas written into a
// Rendition Metrics message.
type RenditionCounters struct {
	Input   uint32
	Skipped uint32
	Output  uint32
}

// countByte packs the zero-based entry count into the low five bits; the
// high bits are reserved and zero.
func countByte(entries int) byte {
	return byte(entries-1) & 0x1f
}

func appendTimestampEntry(dst []byte, event byte, ts string) []byte {
	dst = append(dst, timestampTypeRFC3339, event)
	for i := 0; i < TimestampWidth; i++ {
		if i < len(ts) {
			dst = append(dst, ts[i])
		} else {
			dst = append(dst, 0)
		}
	}
	return append(dst, 0)
}

func appendCounterEntry(dst []byte, tag byte, value uint32) []byte {
	dst = append(dst, tag)
	return binary.BigEndian.AppendUint32(dst, value)
}

// EncodeTimestampMessage builds the 125-byte Timestamp message. The four
// events appear in fixed order: composition time, frame encode request,
// frame encode request complete, packet interleave request.
func EncodeTimestampMessage(ts Timestamps) []byte {
	buf := make([]byte, 0, TimestampMessageSize)
	buf = append(buf, TimestampUUID[:]...)
	buf = append(buf, countByte(4))
	buf = appendTimestampEntry(buf, EventCompositionTime, ts.Composition)
	buf = appendTimestampEntry(buf, EventEncodeRequest, ts.EncodeRequest)
	buf = appendTimestampEntry(buf, EventEncodeComplete, ts.EncodeComplete)
	buf = appendTimestampEntry(buf, EventPacketInterleave, ts.PacketInterleave)
	return buf
}

// EncodeSessionMetricsMessage builds the 65-byte Session Metrics message:
// one packet-interleave timestamp followed by the rendered, lagged,
// dropped, and output counter deltas.
func EncodeSessionMetricsMessage(interleave string, c SessionCounters) []byte {
	buf := make([]byte, 0, SessionMetricsMessageSize)
	buf = append(buf, SessionMetricsUUID[:]...)
	buf = append(buf, countByte(1))
	buf = appendTimestampEntry(buf, EventPacketInterleave, interleave)
	buf = append(buf, countByte(4))
	buf = appendCounterEntry(buf, counterRendered, c.Rendered)
	buf = appendCounterEntry(buf, counterLagged, c.Lagged)
	buf = appendCounterEntry(buf, counterDropped, c.Dropped)
	buf = appendCounterEntry(buf, counterOutput, c.Output)
	return buf
}

// EncodeRenditionMetricsMessage builds the 60-byte Rendition Metrics
// message: one packet-interleave timestamp followed by the input, skipped,
// and output counter deltas for a single track.
func EncodeRenditionMetricsMessage(interleave string, c RenditionCounters) []byte {
	buf := make([]byte, 0, RenditionMetricsMessageSize)
	buf = append(buf, RenditionMetricsUUID[:]...)
	buf = append(buf, countByte(1))
	buf = appendTimestampEntry(buf, EventPacketInterleave, interleave)
	buf = append(buf, countByte(3))
	buf = appendCounterEntry(buf, counterTrackInput, c.Input)
	buf = appendCounterEntry(buf, counterTrackSkipped, c.Skipped)
	buf = appendCounterEntry(buf, counterTrackOutput, c.Output)
	return buf
}

// EncodePayload concatenates the three messages into the combined
// PayloadSize-byte block. The session and rendition messages reuse the
// payload's packet-interleave instant.
func EncodePayload(ts Timestamps, sc SessionCounters, rc RenditionCounters) []byte {
	buf := make([]byte, 0, PayloadSize)
	buf = append(buf, EncodeTimestampMessage(ts)...)
	buf = append(buf, EncodeSessionMetricsMessage(ts.PacketInterleave, sc)...)
	buf = append(buf, EncodeRenditionMetricsMessage(ts.PacketInterleave, rc)...)
	return buf
}
