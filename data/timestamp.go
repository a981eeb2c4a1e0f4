package data

import (
	"fmt"
	"time"
)

// TimestampFormat is the fixed-width timestamp form used throughout the
// metadata tree: YYYYMMDDThhmmssZ, always UTC, no sub-second precision.
const TimestampFormat = "20060102T150405Z"

// ParseTimestamp converts a fixed-width timestamp string into unix seconds.
// Returns ErrFormat for any other shape.
func ParseTimestamp(value string) (int64, error) {
	if len(value) != len(TimestampFormat) || value[8] != 'T' || value[15] != 'Z' {
		return 0, fmt.Errorf("%w: timestamp %q does not match %s", ErrFormat, value, TimestampFormat)
	}

	t, err := time.ParseInLocation(TimestampFormat[:15], value[:15], time.UTC)
	if err != nil {
		return 0, fmt.Errorf("%w: timestamp %q does not match %s", ErrFormat, value, TimestampFormat)
	}

	return t.Unix(), nil
}

// FormatTimestamp renders t in the fixed-width timestamp form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
