package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateNormalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-06-01", "2025-06-01"},
		{"2025-6-1", "2025-06-01"},
		{" 2025-06-01 ", "2025-06-01"},
		{"01/06/2025", "2025-06-01"},
		{"1/6/2025", "2025-06-01"},
		{"2025-06-01T15:04:05Z", "2025-06-01"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"tomorrow", "2025-13-01", "2025-02-30", "25-01-01", "2025/01",
		"2025-+1-01", "2025-01--1", "+1/01/2025", "2025- 1-01", "+025-01-01", "2025-01-"} {
		_, err := ParseDate(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestDateOrderingMatchesChronology(t *testing.T) {
	// Unpadded input must not break lexicographic ordering once normalized.
	early := MustDate("2025-2-1")
	late := MustDate("2025-10-01")

	assert.True(t, late.After(early))
	assert.True(t, early.Before(late))
	assert.Equal(t, 0, early.Compare(MustDate("01/02/2025")))
	assert.True(t, early.After(Date{}))
}

func TestDateDisplay(t *testing.T) {
	assert.Equal(t, "10/05/2025", MustDate("2025-05-10").Display())
	assert.Equal(t, "", Date{}.Display())
}

func TestClockToday(t *testing.T) {
	c := Clock(func() time.Time { return time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC) })
	assert.Equal(t, "2025-03-01", c.Today().String())
	assert.Equal(t, "2024-12-31", FixedClock(MustDate("2024-12-31")).Today().String())
}

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2025-1-9")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-09", string(b))
}
