package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SentinelYear marks a birthdate whose year was not given. It is never a
// valid birth year, so "year unknown" can't be confused with "this year".
const SentinelYear = 0

var clockLayouts = []string{
	"3:04 PM",
	"03:04 PM",
	"3:04PM",
	"15:04",
}

// ParseClock parses an "hh:mm AM/PM" clock string (24h accepted as fallback).
func ParseClock(value string) (time.Time, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse clock: %s", value)
}

// CombineDateClock merges a "YYYY-MM-DD" date and an "hh:mm AM/PM" clock
// into one absolute timestamp in the given location.
func CombineDateClock(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", date)
	}

	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// ParseBirthdate splits an ISO "YYYY-MM-DD" date into calendar fields.
// A zero year is the year-unknown sentinel and is accepted as-is.
func ParseBirthdate(value string) (year int, month time.Month, day int, err error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("unable to parse birthdate: %s", value)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil || year < 0 {
		return 0, 0, 0, fmt.Errorf("invalid year in birthdate: %s", value)
	}

	monthNum, err := strconv.Atoi(parts[1])
	if err != nil || monthNum < 1 || monthNum > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month in birthdate: %s", value)
	}
	month = time.Month(monthNum)

	day, err = strconv.Atoi(parts[2])
	if err != nil || day < 1 {
		return 0, 0, 0, fmt.Errorf("invalid day in birthdate: %s", value)
	}

	// The day must exist in the month. The sentinel year carries no leap
	// information, so it is checked against a leap year and Feb 29 stays
	// storable.
	checkYear := year
	if year == SentinelYear {
		checkYear = 2000
	}
	if t := time.Date(checkYear, month, day, 0, 0, 0, 0, time.UTC); t.Month() != month || t.Day() != day {
		return 0, 0, 0, fmt.Errorf("invalid day in birthdate: %s", value)
	}

	return year, month, day, nil
}

// FormatBirthdate renders the "DD-MonthName-YYYY" display form. Records with
// the sentinel year render without a year component.
func FormatBirthdate(year int, month time.Month, day int) string {
	if year == SentinelYear {
		return fmt.Sprintf("%02d-%s", day, month.String())
	}
	return fmt.Sprintf("%02d-%s-%d", day, month.String(), year)
}

// DueTomorrow reports whether a birthdate falls on the day after asOf.
// Only month and day are compared; the birth year is irrelevant except to
// skip records dated in the future relative to tomorrow.
func DueTomorrow(asOf time.Time, year int, month time.Month, day int) bool {
	tomorrow := asOf.AddDate(0, 0, 1)
	if month != tomorrow.Month() || day != tomorrow.Day() {
		return false
	}
	if year != SentinelYear && year > tomorrow.Year() {
		return false
	}
	return true
}
