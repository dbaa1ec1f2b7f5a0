// Package timeutil provides time parsing and human-oriented formatting
// helpers for command line output.
package timeutil

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

// knownLayouts are tried in order by ParseTime.
var knownLayouts = []string{
	"2006-01-02T15:04:05.999999Z", // ISO format with fractional seconds, UTC
	"2006-01-02T15:04:05Z",        // ISO format, UTC
	"20060102T15:04:05Z",
	"Jan 02 15:04:05", // syslog/date format
	"Jan _2 15:04:05",
}

// ParseTime parses a string using a list of known date/time layouts.
// Layouts without a year (syslog style) are assumed to be in the current year.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range knownLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = t.AddDate(time.Now().Year(), 0, 0)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}

// ParseTimestamp parses a string into a unix timestamp.
func ParseTimestamp(s string) (int64, error) {
	t, err := ParseTime(s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// Timestamp converts a unix timestamp to a string in the local time zone.
// An empty layout selects "2006-01-02 15:04:05".
func Timestamp(ts int64, layout string) string {
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}
	return time.Unix(ts, 0).Format(layout)
}

// FormatElapsed renders a duration in elapsed-time form: MM:SS, HH:MM:SS,
// or D-HH:MM:SS once the duration spans hours or days.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%d-%02d:%02d:%02d", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	default:
		return fmt.Sprintf("%02d:%02d", minutes, seconds)
	}
}

// HumanizeBytes converts a byte count to a binary-prefixed string (KiB, MiB).
func HumanizeBytes(n uint64) string {
	return humanize.IBytes(n)
}

// HumanizeCount converts a number to a short SI-prefixed string (k, M, G).
func HumanizeCount(n float64) string {
	return humanize.SIWithDigits(n, 1, "")
}

// PrettyJSON renders v as indented JSON with sorted keys.
func PrettyJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(out), nil
}

// UniqueFilename returns base if no file with that name exists, otherwise
// base with a numeric suffix appended until the name is unused.
func UniqueFilename(base string) string {
	name := base
	for idx := 1; ; idx++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d", base, idx)
	}
}
