package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
	}{
		{"11:00 PM", 23, 0},
		{"09:15 AM", 9, 15},
		{"12:19 AM", 0, 19},
		{"12:00 PM", 12, 0},
		{"9:05 am", 9, 5},
		{"9:05pm", 21, 5},
		{"17:30", 17, 30},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, got.Hour())
			assert.Equal(t, tt.minute, got.Minute())
		})
	}

	_, err := ParseClock("half past nine")
	assert.Error(t, err)
}

func TestCombineDateClock(t *testing.T) {
	got, err := CombineDateClock("2025-03-01", "11:00 PM", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC), got)

	_, err = CombineDateClock("01-03-2025", "11:00 PM", time.UTC)
	assert.Error(t, err)

	_, err = CombineDateClock("2025-03-01", "late evening", time.UTC)
	assert.Error(t, err)
}

func TestParseBirthdate(t *testing.T) {
	year, month, day, err := ParseBirthdate("2000-12-20")
	require.NoError(t, err)
	assert.Equal(t, 2000, year)
	assert.Equal(t, time.December, month)
	assert.Equal(t, 20, day)

	year, _, _, err = ParseBirthdate("0000-04-06")
	require.NoError(t, err)
	assert.Equal(t, SentinelYear, year)

	// Leap day is valid in leap years and with the sentinel year.
	_, _, _, err = ParseBirthdate("2000-02-29")
	assert.NoError(t, err)
	_, _, _, err = ParseBirthdate("0000-02-29")
	assert.NoError(t, err)

	for _, bad := range []string{"20-12", "2000/12/20", "2000-00-20", "2000-13-01", "2000-12-32", "2000-02-31", "2001-02-29", "2025-04-31", "abcd-12-20", ""} {
		_, _, _, err := ParseBirthdate(bad)
		assert.Error(t, err, "input %q should fail", bad)
	}
}

func TestFormatBirthdate(t *testing.T) {
	assert.Equal(t, "20-December-2000", FormatBirthdate(2000, time.December, 20))
	assert.Equal(t, "06-April", FormatBirthdate(SentinelYear, time.April, 6))
}

func TestDueTomorrow(t *testing.T) {
	asOf := time.Date(2025, 12, 19, 8, 0, 0, 0, time.UTC)

	assert.True(t, DueTomorrow(asOf, 2000, time.December, 20))
	assert.True(t, DueTomorrow(asOf, SentinelYear, time.December, 20))
	assert.False(t, DueTomorrow(asOf, 2000, time.December, 21))
	assert.False(t, DueTomorrow(asOf, 2000, time.November, 20))

	// Year boundary: Dec 31 looks at Jan 1.
	newYearsEve := time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC)
	assert.True(t, DueTomorrow(newYearsEve, 1990, time.January, 1))

	// Future-dated records are skipped.
	assert.False(t, DueTomorrow(asOf, 2030, time.December, 20))
}
