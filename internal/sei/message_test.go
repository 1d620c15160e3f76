package sei

import (
	"bytes"
	"encoding/binary"
	"testing"
)

const testStamp = "2024-05-01T12:00:00.000Z"

func testTimestamps() Timestamps {
	return Timestamps{
		Composition:      testStamp,
		EncodeRequest:    testStamp,
		EncodeComplete:   testStamp,
		PacketInterleave: testStamp,
	}
}

func TestMessageSizeConstants(t *testing.T) {
	if TimestampMessageSize != 125 {
		t.Errorf("TimestampMessageSize = %d, want 125", TimestampMessageSize)
	}
	if SessionMetricsMessageSize != 65 {
		t.Errorf("SessionMetricsMessageSize = %d, want 65", SessionMetricsMessageSize)
	}
	if RenditionMetricsMessageSize != 60 {
		t.Errorf("RenditionMetricsMessageSize = %d, want 60", RenditionMetricsMessageSize)
	}
	if PayloadSize != 250 {
		t.Errorf("PayloadSize = %d, want 250", PayloadSize)
	}
}

func TestEncodeTimestampMessageLayout(t *testing.T) {
	msg := EncodeTimestampMessage(testTimestamps())

	if len(msg) != TimestampMessageSize {
		t.Fatalf("len = %d, want %d", len(msg), TimestampMessageSize)
	}
	if !bytes.Equal(msg[:16], TimestampUUID[:]) {
		t.Errorf("UUID mismatch: %x", msg[:16])
	}
	if msg[16] != 0x03 {
		t.Errorf("count byte = %#x, want 0x03", msg[16])
	}

	events := []byte{EventCompositionTime, EventEncodeRequest, EventEncodeComplete, EventPacketInterleave}
	for i, event := range events {
		offset := 17 + i*timestampEntrySize
		if msg[offset] != timestampTypeRFC3339 {
			t.Errorf("entry %d: type tag = %#x", i, msg[offset])
		}
		if msg[offset+1] != event {
			t.Errorf("entry %d: event tag = %#x, want %#x", i, msg[offset+1], event)
		}
		if got := string(msg[offset+2 : offset+2+TimestampWidth]); got != testStamp {
			t.Errorf("entry %d: timestamp = %q", i, got)
		}
		if msg[offset+2+TimestampWidth] != 0 {
			t.Errorf("entry %d: missing NUL terminator", i)
		}
	}
}

func TestEncodeSessionMetricsMessageLayout(t *testing.T) {
	counters := SessionCounters{Rendered: 60, Lagged: 2, Dropped: 1, Output: 300}
	msg := EncodeSessionMetricsMessage(testStamp, counters)

	if len(msg) != SessionMetricsMessageSize {
		t.Fatalf("len = %d, want %d", len(msg), SessionMetricsMessageSize)
	}
	if !bytes.Equal(msg[:16], SessionMetricsUUID[:]) {
		t.Errorf("UUID mismatch: %x", msg[:16])
	}
	if msg[16] != 0x00 {
		t.Errorf("timestamp count byte = %#x, want 0x00", msg[16])
	}
	if msg[18] != EventPacketInterleave {
		t.Errorf("timestamp event tag = %#x", msg[18])
	}
	if msg[44] != 0x03 {
		t.Errorf("counter count byte = %#x, want 0x03", msg[44])
	}

	wantCounters := []struct {
		tag   byte
		value uint32
	}{
		{counterRendered, 60},
		{counterLagged, 2},
		{counterDropped, 1},
		{counterOutput, 300},
	}
	for i, want := range wantCounters {
		offset := 45 + i*counterEntrySize
		if msg[offset] != want.tag {
			t.Errorf("counter %d: tag = %#x, want %#x", i, msg[offset], want.tag)
		}
		if got := binary.BigEndian.Uint32(msg[offset+1 : offset+5]); got != want.value {
			t.Errorf("counter %d: value = %d, want %d", i, got, want.value)
		}
	}
}

func TestEncodeRenditionMetricsMessageLayout(t *testing.T) {
	counters := RenditionCounters{Input: 62, Skipped: 2, Output: 60}
	msg := EncodeRenditionMetricsMessage(testStamp, counters)

	if len(msg) != RenditionMetricsMessageSize {
		t.Fatalf("len = %d, want %d", len(msg), RenditionMetricsMessageSize)
	}
	if !bytes.Equal(msg[:16], RenditionMetricsUUID[:]) {
		t.Errorf("UUID mismatch: %x", msg[:16])
	}
	if msg[44] != 0x02 {
		t.Errorf("counter count byte = %#x, want 0x02", msg[44])
	}

	wantCounters := []struct {
		tag   byte
		value uint32
	}{
		{counterTrackInput, 62},
		{counterTrackSkipped, 2},
		{counterTrackOutput, 60},
	}
	for i, want := range wantCounters {
		offset := 45 + i*counterEntrySize
		if msg[offset] != want.tag {
			t.Errorf("counter %d: tag = %#x, want %#x", i, msg[offset], want.tag)
		}
		if got := binary.BigEndian.Uint32(msg[offset+1 : offset+5]); got != want.value {
			t.Errorf("counter %d: value = %d, want %d", i, got, want.value)
		}
	}
}

func TestCounterValuesBigEndian(t *testing.T) {
	msg := EncodeSessionMetricsMessage(testStamp, SessionCounters{Rendered: 0x01020304})
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(msg[46:50], want) {
		t.Errorf("rendered bytes = %x, want %x", msg[46:50], want)
	}
}

func TestEncodePayloadConcatenation(t *testing.T) {
	ts := testTimestamps()
	sc := SessionCounters{Rendered: 1, Lagged: 2, Dropped: 3, Output: 4}
	rc := RenditionCounters{Input: 5, Skipped: 6, Output: 7}

	payload := EncodePayload(ts, sc, rc)
	if len(payload) != PayloadSize {
		t.Fatalf("len = %d, want %d", len(payload), PayloadSize)
	}

	if !bytes.Equal(payload[:TimestampMessageSize], EncodeTimestampMessage(ts)) {
		t.Error("timestamp message segment mismatch")
	}
	sessionStart := TimestampMessageSize
	sessionEnd := sessionStart + SessionMetricsMessageSize
	if !bytes.Equal(payload[sessionStart:sessionEnd], EncodeSessionMetricsMessage(testStamp, sc)) {
		t.Error("session metrics segment mismatch")
	}
	if !bytes.Equal(payload[sessionEnd:], EncodeRenditionMetricsMessage(testStamp, rc)) {
		t.Error("rendition metrics segment mismatch")
	}
}

func TestEncodePayloadReproducible(t *testing.T) {
	ts := testTimestamps()
	sc := SessionCounters{Rendered: 60, Output: 60}
	rc := RenditionCounters{Input: 60, Output: 60}

	first := EncodePayload(ts, sc, rc)
	second := EncodePayload(ts, sc, rc)
	if !bytes.Equal(first, second) {
		t.Error("payload encoding is not reproducible")
	}
}

func TestTimestampEntryPadsAndTruncates(t *testing.T) {
	short := EncodeTimestampMessage(Timestamps{Composition: "abc"})
	if got := string(short[19:22]); got != "abc" {
		t.Errorf("short text = %q", got)
	}
	for i := 22; i < 19+TimestampWidth; i++ {
		if short[i] != 0 {
			t.Errorf("expected NUL padding at %d, got %#x", i, short[i])
		}
	}

	long := EncodeTimestampMessage(Timestamps{Composition: testStamp + "overflow"})
	if got := string(long[19 : 19+TimestampWidth]); got != testStamp {
		t.Errorf("long text = %q", got)
	}
	if len(long) != TimestampMessageSize {
		t.Errorf("len = %d, want %d", len(long), TimestampMessageSize)
	}
}

func TestMessageUUIDsDistinct(t *testing.T) {
	if TimestampUUID == SessionMetricsUUID || TimestampUUID == RenditionMetricsUUID || SessionMetricsUUID == RenditionMetricsUUID {
		t.Error("message kind UUIDs must be distinct")
	}
}
