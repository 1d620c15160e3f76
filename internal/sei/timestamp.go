package sei

import (
	"errors"
	"fmt"
	"time"
)

// TimestampWidth is the fixed byte width of a formatted timestamp as it
// appears on the wire.
const TimestampWidth = 24

// timestampLayout renders RFC 3339 UTC with millisecond precision and a
// trailing Z. For years 0000 through 9999 the result is exactly
// TimestampWidth bytes.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// ErrInvalidTimestamp marks an epoch value that cannot be rendered at the
// fixed wire width.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// The [0000, 9999] year bounds of the fixed wire width.
var (
	minWireTime = time.Date(0, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxWireTime = time.Date(9999, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)
)

// FormatTime renders t as a fixed-width UTC wire timestamp. Instants whose
// calendar year falls outside [0, 9999] are clamped to the nearest
// representable instant so the width invariant holds for any clock.
func FormatTime(t time.Time) string {
	t = t.UTC()
	if year := t.Year(); year < 0 {
		t = minWireTime
	} else if year > 9999 {
		t = maxWireTime
	}
	return t.Format(timestampLayout)
}

// FormatMillis renders an epoch-millisecond instant as a fixed-width UTC
// wire timestamp. Instants whose calendar year falls outside [0, 9999]
// would break the fixed width and are rejected.
func FormatMillis(epochMS int64) (string, error) {
	t := time.UnixMilli(epochMS).UTC()
	if year := t.Year(); year < 0 || year > 9999 {
		return "", fmt.Errorf("%w: epoch ms %d falls outside the representable range", ErrInvalidTimestamp, epochMS)
	}
	return t.Format(timestampLayout), nil
}
