package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayout is the canonical on-disk and comparison format for dates.
const isoLayout = "2006-01-02"

// Date is a calendar date without a time component. It always holds either
// the empty string (absent) or a zero-padded YYYY-MM-DD value, so plain
// string comparison matches chronological order.
type Date struct {
	iso string
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{iso: t.Format(isoLayout)}
}

// MustDate parses s and panics on error. Intended for tests and constants.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDate normalizes a user or spreadsheet supplied date to YYYY-MM-DD.
// Accepted forms are YYYY-MM-DD (padding optional), DD/MM/YYYY and RFC 3339
// timestamps. Blank input yields the zero Date and no error.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}

	var y, m, d string
	switch {
	case strings.Count(s, "-") == 2:
		parts := strings.Split(s, "-")
		y, m, d = parts[0], parts[1], parts[2]
	case strings.Count(s, "/") == 2:
		parts := strings.Split(s, "/")
		d, m, y = parts[0], parts[1], parts[2]
	default:
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	if len(y) != 4 || !allDigits(y) || !allDigits(m) || !allDigits(d) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	year, errY := strconv.Atoi(y)
	month, errM := strconv.Atoi(m)
	day, errD := strconv.Atoi(d)
	if errY != nil || errM != nil || errD != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %q out of range", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// allDigits reports whether s is non-empty and only ASCII digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d.iso == "" }

// String returns the YYYY-MM-DD form, or "" when absent.
func (d Date) String() string { return d.iso }

// Display renders the date as DD/MM/YYYY for the dashboard, or "" when absent.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.iso[8:10] + "/" + d.iso[5:7] + "/" + d.iso[0:4]
}

// Compare returns -1, 0 or +1. An absent date sorts before any present one.
func (d Date) Compare(o Date) int {
	return strings.Compare(d.iso, o.iso)
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// Time returns midnight UTC of the date. The zero Date maps to time.Time{}.
func (d Date) Time() time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	t, _ := time.Parse(isoLayout, d.iso)
	return t
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.iso), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and normalizes the input.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock supplies the current time. Production code uses time.Now.
type Clock func() time.Time

// Today returns the current calendar date in local time.
func (c Clock) Today() Date {
	if c == nil {
		return DateOf(time.Now())
	}
	return DateOf(c())
}

// FixedClock returns a Clock pinned to the given date.
func FixedClock(d Date) Clock {
	t := d.Time()
	return func() time.Time { return t }
}
