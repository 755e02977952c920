package enrich

import (
	"strings"
	"time"
)

// Timestamp layouts accepted in the sales time_stamp column. Source systems
// mix ISO dates, ISO datetimes, and US slash dates in the same feed.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"2006/01/02",
}

// ParseTimestamp parses a mixed-format timestamp string. It returns nil for
// empty or unparseable input rather than an error; null timestamps flow into
// the derived temporal fields and are only rejected by the output gate.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
