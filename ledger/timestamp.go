package ledger

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Strict "YYYY-MM-DD HH:MM:SS" shape, with optional T separator and
// fractional seconds. Decomposed into numeric fields explicitly so the
// result cannot depend on locale-sensitive parsing.
var tsPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2}):(\d{2})(?:\.\d+)?$`)

// ParseTimestamp resolves a string-encoded ledger timestamp into a UTC
// time.Time. The strict decomposition is tried first; RFC 3339 and a
// bare date are accepted as fallbacks.
func ParseTimestamp(s string) (time.Time, error) {
	if m := tsPattern.FindStringSubmatch(s); m != nil {
		var n [6]int
		for i := range n {
			n[i], _ = strconv.Atoi(m[i+1])
		}
		t := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.UTC)
		// time.Date normalizes out-of-range fields; a round-trip
		// mismatch means the input was not a real calendar instant.
		if t.Year() != n[0] || int(t.Month()) != n[1] || t.Day() != n[2] {
			return time.Time{}, fmt.Errorf("invalid calendar date in timestamp %q", s)
		}
		return t, nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
