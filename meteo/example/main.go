// Package main shows how forecast conditions feed the sunrise azimuth correction.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/ephemeris"
	"github.com/devskill-org/sunazimuth/meteo"
)

func main() {
	// MET requires an identifying User-Agent
	client := meteo.NewClient("SunAzimuthExample/1.0 (username@example.com)")
	source := meteo.NewSource(client, 30*time.Minute)

	// Riga, Latvia
	pos := ephemeris.GeoPosition{Latitude: 56.9496, Longitude: 24.1052, Altitude: 14}
	date := time.Now().UTC().AddDate(0, 0, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	estimate, err := ephemeris.EstimateEvent(date, pos, ephemeris.Rise)
	if err != nil {
		log.Fatalf("Estimate failed: %v", err)
	}

	cond, err := source.Conditions(ctx, pos, estimate.Time)
	if err != nil {
		var apiErr *meteo.APIError
		var netErr *meteo.NetworkError
		switch {
		case errors.As(err, &apiErr):
			log.Fatalf("API error %d: %s", apiErr.StatusCode, apiErr.Message)
		case errors.As(err, &netErr):
			log.Fatalf("Network error: %v", netErr.Err)
		default:
			log.Fatalf("Forecast error: %v", err)
		}
	}

	fmt.Printf("Conditions at sunrise %s: %.1f hPa, %.1f°C\n",
		estimate.Time.Format("2006-01-02 15:04"), cond.PressureHPa, cond.TemperatureC)

	calc := azimuth.NewCalculator(ephemeris.NewSolarProvider())
	r, err := calc.CalculateSunriseSunsetAzimuth(date, pos, cond.PressureHPa, cond.TemperatureC, ephemeris.Rise, 0)
	if err != nil {
		log.Fatalf("Correction failed: %v", err)
	}
	fmt.Printf("Upper limb azimuth: %.3f°\n", r.AzimuthTop)
	fmt.Printf("Lower limb azimuth: %.3f°\n", r.AzimuthBot)
	fmt.Printf("Temperature/pressure shift: %+.3f° / %+.3f°\n", r.DTemperature, r.DPressure)
}
