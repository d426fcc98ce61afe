package calendar

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the wire shapes a calendar date may arrive in. The backend
// usually sends plain dates but has been observed emitting full timestamps;
// only the date portion is ever used.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a wire date into a local calendar date, discarding any
// time-of-day component. "2024-06-15" and "2024-06-15T00:00:00" name the same
// day regardless of the local offset's sign.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
