package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateEventAgreesWithProvider(t *testing.T) {
	tests := []struct {
		lat   float64
		lon   float64
		event EventType
		day   time.Time
	}{
		{58, 0, Rise, date(2016, time.April, 27)},
		{-33.9, 18.4, Set, date(2021, time.December, 3)},
		{40.7, -74, Rise, date(2019, time.July, 15)},
	}
	p := NewSolarProvider()
	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			pos := GeoPosition{Latitude: tt.lat, Longitude: tt.lon}
			est, err := EstimateEvent(tt.day, pos, tt.event)
			require.NoError(t, err)

			jd, hc := riseSetAzimuth(t, p, tt.day, pos, tt.event)
			assert.Equal(t, tt.event, est.Event)
			assert.WithinDuration(t, jd.Time(), est.Time, 3*time.Minute)
			assert.InDelta(t, hc.Azimuth, est.Azimuth, 0.5)
		})
	}
}

func TestEstimateEventPolar(t *testing.T) {
	_, err := EstimateEvent(date(2018, time.January, 1), GeoPosition{Latitude: 80}, Rise)
	assert.ErrorIs(t, err, ErrNoEventFound)
}

func TestEstimateEventInvalidType(t *testing.T) {
	_, err := EstimateEvent(date(2018, time.January, 1), GeoPosition{}, EventType(0))
	var compErr *ComputationError
	assert.ErrorAs(t, err, &compErr)
}

func TestSuncalcAzimuth(t *testing.T) {
	assert.InDelta(t, 180.0, suncalcAzimuth(0), 1e-12)
	assert.InDelta(t, 270.0, suncalcAzimuth(1.5707963267948966), 1e-12)
	assert.InDelta(t, 90.0, suncalcAzimuth(-1.5707963267948966), 1e-12)
}
