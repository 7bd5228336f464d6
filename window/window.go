// Package window builds the closed UTC day interval used to filter
// remote trade queries.
package window

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidFormat is returned for any date string that is not a valid
// calendar date in YYYY-MM-DD form.
var ErrInvalidFormat = errors.New("invalid date format, want YYYY-MM-DD")

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Window is one calendar day as a closed UTC interval
// [00:00:00.000, 23:59:59.999].
type Window struct {
	Date  string // the YYYY-MM-DD day this window covers
	Start time.Time
	End   time.Time
}

// Day validates date and returns its UTC day window.
func Day(date string) (Window, error) {
	if !dayPattern.MatchString(date) {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidFormat, date)
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		// Pattern matched but the calendar rejected it, e.g. 2025-02-30.
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidFormat, date)
	}

	return Window{
		Date:  date,
		Start: t,
		End:   t.Add(24*time.Hour - time.Millisecond),
	}, nil
}

// Yesterday returns the YYYY-MM-DD day before now, in UTC. It is the
// default target date for a scheduled run.
func Yesterday(now time.Time) string {
	return now.UTC().AddDate(0, 0, -1).Format("2006-01-02")
}
