package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJulianDayFromCalendar(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
		hour  float64
		want  JulianDay
	}{
		{"J2000", 2000, time.January, 1, 12, 2451545.0},
		{"Meeus 7.a", 1957, time.October, 4, 19.0 + 26.0/60 + 24.0/3600, 2436116.31},
		{"Meeus example 25.a", 1992, time.October, 13, 0, 2448908.5},
		{"leap day", 2016, time.February, 29, 0, 2457447.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, float64(tt.want), float64(JulianDayFromCalendar(tt.year, tt.month, tt.day, tt.hour)), 1e-2)
		})
	}
}

func TestJulianDayFromTimeMatchesCalendar(t *testing.T) {
	for _, ts := range []time.Time{
		time.Date(2016, 4, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2018, 1, 1, 6, 30, 0, 0, time.UTC),
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC),
	} {
		cal := JulianDayFromCalendar(ts.Year(), ts.Month(), ts.Day(),
			float64(ts.Hour())+float64(ts.Minute())/60+float64(ts.Second())/3600)
		assert.InDelta(t, float64(cal), float64(JulianDayFromTime(ts)), 1e-8, ts.String())
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	start := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	for i := int64(0); i < 5000; i++ {
		// Steps of 7919 hours reach past the year 6000.
		ts := time.Unix(start+i*7919*3600+i%61, 0).UTC()
		got := JulianDayFromTime(ts).Time()
		if !got.Equal(ts) {
			t.Fatalf("round trip of %v gave %v", ts, got)
		}
	}
}

func TestJulianDayTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	ts := time.Date(2018, 1, 1, 9, 0, 0, 0, loc)
	got := JulianDayFromTime(ts).Time()
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(ts))
}

func TestJulianDayAdd(t *testing.T) {
	jd := JulianDay(j2000)
	assert.InDelta(t, j2000+0.5, float64(jd.Add(12*time.Hour)), 1e-12)
	assert.InDelta(t, 0.0, jd.Centuries(), 1e-15)
}
