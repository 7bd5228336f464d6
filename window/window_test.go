package window

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayValid(t *testing.T) {
	t.Parallel()

	w, err := Day("2025-05-09")
	require.NoError(t, err)

	assert.Equal(t, "2025-05-09", w.Date)
	assert.Equal(t, time.Date(2025, 5, 9, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 5, 9, 23, 59, 59, 999e6, time.UTC), w.End)

	assert.True(t, w.Start.Before(w.End))
	assert.Equal(t, w.Date, w.Start.Format("2006-01-02"))
	assert.Equal(t, w.Date, w.End.Format("2006-01-02"))
}

func TestDayLeapYear(t *testing.T) {
	t.Parallel()

	w, err := Day("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), w.Start)

	_, err = Day("2025-02-29")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestDayInvalid(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"2025-5-9",
		"2025/05/09",
		"09-05-2025",
		"20250509",
		"2025-13-01",
		"2025-00-10",
		"2025-04-31",
		"yesterday",
		"2025-05-09 10:00:00",
	}

	for _, c := range cases {
		_, err := Day(c)
		assert.Error(t, err, "input %q", c)
		assert.True(t, errors.Is(err, ErrInvalidFormat), "input %q should classify as ErrInvalidFormat", c)
	}
}

func TestYesterday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 10, 3, 15, 0, 0, time.UTC)
	assert.Equal(t, "2025-05-09", Yesterday(now))

	// Non-UTC wall clocks convert to UTC before the day is derived:
	// 02:00 JST on May 10 is still May 9 in UTC.
	jst := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2025-05-08", Yesterday(time.Date(2025, 5, 10, 2, 0, 0, 0, jst)))

	// Month boundary.
	assert.Equal(t, "2025-04-30", Yesterday(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)))
}
