package main

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bpm"
)

// displayName turns a rendition fingerprint like "h264_1080p_60fps" into a
// human-facing label.
func displayName(fingerprint string) string {
	label := strings.TrimSpace(strings.ReplaceAll(fingerprint, "_", " "))
	if label == "" {
		return fingerprint
	}
	return cases.Title(language.Und).String(label)
}

func renderSnapshot(snap bpm.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: rendered=%d lagged=%d dropped=%d output=%d\n",
		snap.Rendered, snap.Lagged, snap.Dropped, snap.Output)

	headers := []string{"Track", "Rendition", "Input", "Skipped", "Output"}
	rows := make([][]string, 0, len(snap.Tracks))
	for _, track := range snap.Tracks {
		rows = append(rows, []string{
			strconv.Itoa(track.Index),
			displayName(track.Fingerprint),
			strconv.FormatUint(uint64(track.Input), 10),
			strconv.FormatUint(uint64(track.Skipped), 10),
			strconv.FormatUint(uint64(track.Output), 10),
		})
	}
	b.WriteString(renderTable(headers, rows, 0, 2, 3, 4))
	return b.String()
}
