package timemath

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToMinutesFromMinutesRoundTrip(t *testing.T) {
	for h := 0; h < 30; h++ {
		for m := 0; m < 60; m++ {
			got := FromMinutes(ToMinutes(h, m))
			assert.Equal(t, Duration{Hours: h, Minutes: m}, got)
		}
	}
}

func TestFromMinutes_Negative(t *testing.T) {
	assert.Equal(t, Duration{Hours: -1, Minutes: 59}, FromMinutes(-1))
	assert.Equal(t, Duration{Hours: -2, Minutes: 0}, FromMinutes(-120))
	assert.Equal(t, Duration{Hours: -2, Minutes: 30}, FromMinutes(-90))
}

func TestCoerceInt(t *testing.T) {
	n := 7
	cases := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{3, 3},
		{int64(4), 4},
		{2.9, 2},
		{"15", 15},
		{" 12abc", 12},
		{"abc", 0},
		{"", 0},
		{json.Number("42"), 42},
		{true, 0},
		{&n, 7},
		{(*int)(nil), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceInt(tc.in), "input %#v", tc.in)
	}
	assert.Equal(t, 90, ToMinutesLoose("1", 30))
	assert.Equal(t, 30, ToMinutesLoose("x", "30"))
}

func TestDurationFromRange(t *testing.T) {
	d, ok := DurationFromRange("09:00", "10:30")
	assert.True(t, ok)
	assert.Equal(t, Duration{Hours: 1, Minutes: 30}, d)

	// 跨越午夜
	d, ok = DurationFromRange("23:00", "01:00")
	assert.True(t, ok)
	assert.Equal(t, Duration{Hours: 2, Minutes: 0}, d)

	// 起止相同视为整整一天
	d, ok = DurationFromRange("10:00", "10:00")
	assert.True(t, ok)
	assert.Equal(t, Duration{Hours: 24, Minutes: 0}, d)

	_, ok = DurationFromRange("bad", "10:00")
	assert.False(t, ok)
	_, ok = DurationFromRange("10:00", "25:00")
	assert.False(t, ok)
}

func TestTo24Hour(t *testing.T) {
	cases := map[string]string{
		"02:30 PM": "14:30",
		"12:00 AM": "00:00",
		"12:00 PM": "12:00",
		"14:30":    "14:30",
		"9:05 am":  "09:05",
		"11:59 pm": "23:59",
		"7:5 AM":   "07:05",
	}
	for in, want := range cases {
		got, ok := To24Hour(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := To24Hour("  8:15   PM ")
	assert.True(t, ok)
	assert.Equal(t, "20:15", got)

	for _, in := range []string{"bad", "", "0230 PM", "10 30", "xx:30 PM", "ab:cd AM", "09:00 XM", "9:5x pm", "123:00 AM", ":30 AM"} {
		_, ok := To24Hour(in)
		assert.False(t, ok, in)
	}
}

func TestTo12Hour(t *testing.T) {
	assert.Equal(t, "12:00 AM", To12Hour("00:00"))
	assert.Equal(t, "01:05 PM", To12Hour("13:05"))
	assert.Equal(t, "12:30 PM", To12Hour("12:30"))
	assert.Equal(t, "09:15 AM", To12Hour("09:15"))
	assert.Equal(t, "11:45 PM", To12Hour("23:45"))
	assert.Equal(t, "", To12Hour(""))
	assert.Equal(t, "", To12Hour("1430"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0, 0))
	assert.Equal(t, "2h", FormatDuration(2, 0))
	assert.Equal(t, "45m", FormatDuration(0, 45))
	assert.Equal(t, "1h 30m", FormatDuration(1, 30))
	assert.Equal(t, "24h", FormatMinutes(1440))
}

func TestDateHelpers(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// UTC 18:45 在 IST 已是次日
	ts := time.Date(2024, 5, 31, 18, 45, 0, 0, time.UTC).In(loc)
	assert.Equal(t, "2024-06-01", DateKey(ts))

	y, m, d, ok := ParseDateKey("2024-06-01")
	assert.True(t, ok)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.June, m)
	assert.Equal(t, 1, d)

	_, _, _, ok = ParseDateKey("06/01/2024")
	assert.False(t, ok)

	y, m, ok = ParseMonthKey("2024-02")
	assert.True(t, ok)
	assert.Equal(t, "2024-02", MonthKey(y, m))

	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	dates := DatesInMonth(2024, time.April)
	assert.Len(t, dates, 30)
	assert.Equal(t, "2024-04-01", dates[0])
	assert.Equal(t, "2024-04-30", dates[29])
}
