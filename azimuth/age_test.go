package azimuth

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devskill-org/sunazimuth/ephemeris"
)

func TestSunBotAgeCorrection(t *testing.T) {
	tests := []struct {
		latitude float64
		event    ephemeris.EventType
		azimuth  float64
		want     float64
	}{
		{80, ephemeris.Rise, 90, 3},
		{75, ephemeris.Rise, 90, 2},
		{70, ephemeris.Rise, 90, 1.5},
		{65, ephemeris.Rise, 90, 1.1},
		{60, ephemeris.Rise, 90, 0.9},
		{50, ephemeris.Rise, 90, 0.6},
		{40, ephemeris.Rise, 90, 0.4},
		{30, ephemeris.Rise, 90, 0.3},
		{20, ephemeris.Rise, 90, 0.2},
		{10, ephemeris.Rise, 90, 0.1},

		{80, ephemeris.Set, 270, -3},
		{75, ephemeris.Set, 270, -2},
		{70, ephemeris.Set, 270, -1.5},
		{65, ephemeris.Set, 270, -1.1},
		{60, ephemeris.Set, 270, -0.9},
		{50, ephemeris.Set, 270, -0.6},
		{40, ephemeris.Set, 270, -0.4},
		{30, ephemeris.Set, 270, -0.3},
		{20, ephemeris.Set, 270, -0.2},
		{10, ephemeris.Set, 270, -0.1},

		{80, ephemeris.Rise, 60, 3.5},
		{75, ephemeris.Rise, 60, 2.3},
		{70, ephemeris.Rise, 60, 1.7},
		{65, ephemeris.Rise, 60, 1.3},
		{60, ephemeris.Rise, 60, 1.1},
		{50, ephemeris.Rise, 60, 0.7},
		{40, ephemeris.Rise, 60, 0.5},
		{30, ephemeris.Rise, 60, 0.4},
		{20, ephemeris.Rise, 60, 0.2},
		{10, ephemeris.Rise, 60, 0.1},

		{80, ephemeris.Set, 300, -3.5},
		{75, ephemeris.Set, 300, -2.3},
		{70, ephemeris.Set, 300, -1.7},
		{65, ephemeris.Set, 300, -1.3},
		{60, ephemeris.Set, 300, -1.1},
		{50, ephemeris.Set, 300, -0.7},
		{40, ephemeris.Set, 300, -0.5},
		{30, ephemeris.Set, 300, -0.4},
		{20, ephemeris.Set, 300, -0.2},
		{10, ephemeris.Set, 300, -0.1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v/%v", tt.event, tt.latitude, tt.azimuth), func(t *testing.T) {
			assert.InDelta(t, tt.want, SunBotAgeCorrection(tt.latitude, tt.azimuth, tt.event), 0.05)
		})
	}
}

func TestSunBotAgeCorrectionSouthernSign(t *testing.T) {
	for _, lat := range []float64{10, 45, 58, 75} {
		rise := SunBotAgeCorrection(lat, 70, ephemeris.Rise)
		set := SunBotAgeCorrection(-lat, 290, ephemeris.Set)
		assert.Greater(t, rise, 0.0)
		assert.Greater(t, set, 0.0)
		assert.InDelta(t, rise, set, 1e-12)
		assert.InDelta(t, -rise, SunBotAgeCorrection(-lat, 70, ephemeris.Rise), 1e-12)
	}
}

func TestSunBotAgeCorrectionShape(t *testing.T) {
	// Grows with latitude.
	prev := 0.0
	for lat := 5.0; lat <= 80; lat += 5 {
		v := SunBotAgeCorrection(lat, 90, ephemeris.Rise)
		assert.Greater(t, v, prev, "latitude %v", lat)
		prev = v
	}

	// Smallest at due east, symmetric about it, flat beyond 60 degrees off.
	east := SunBotAgeCorrection(58, 90, ephemeris.Rise)
	assert.Greater(t, SunBotAgeCorrection(58, 75, ephemeris.Rise), east)
	assert.InDelta(t, SunBotAgeCorrection(58, 60, ephemeris.Rise), SunBotAgeCorrection(58, 120, ephemeris.Rise), 1e-12)
	assert.Equal(t, SunBotAgeCorrection(58, 30, ephemeris.Rise), SunBotAgeCorrection(58, 5, ephemeris.Rise))

	// Zero on the equator.
	assert.Zero(t, math.Abs(SunBotAgeCorrection(0, 90, ephemeris.Set)))
}

func TestHorizonDip(t *testing.T) {
	assert.Zero(t, HorizonDip(0))
	assert.Zero(t, HorizonDip(-20))
	assert.InDelta(t, 11.13, HorizonDip(40), 0.01)
	assert.InDelta(t, 17.6, HorizonDip(100), 1e-9)
}
