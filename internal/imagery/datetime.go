package imagery

import (
	"fmt"
	"strings"
	"time"
)

// Time layouts observed across provider responses.
var providerTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999", // no zone
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseProviderTime parses a timestamp in any of the layouts providers use.
// Values without a zone are taken as UTC. Returns time in UTC.
func ParseProviderTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	var lastErr error
	for _, layout := range providerTimeFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("failed to parse provider time %q: %w", s, lastErr)
}

// TimeFromMillis converts epoch milliseconds (Esri style) into UTC time.
func TimeFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FormatISO formats t as RFC 3339 in UTC with millisecond precision.
func FormatISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// FormatDay truncates t to a YYYY-MM-DD string.
func FormatDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// NormalizeAcquisitionDate re-encodes a provider timestamp as RFC 3339.
// Unparseable values are returned unchanged.
func NormalizeAcquisitionDate(s string) string {
	t, err := ParseProviderTime(s)
	if err != nil {
		return s
	}
	return FormatISO(t)
}
