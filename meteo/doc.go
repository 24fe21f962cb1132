// Package meteo reads air temperature and sea level pressure from the MET
// Norway Location Forecast API and turns them into observer conditions.
//
// Basic Usage:
//
//	client := meteo.NewClient("YourApp/1.0 (your-email@example.com)")
//	source := meteo.NewSource(client, 30*time.Minute)
//
//	cond, err := source.Conditions(ctx, ephemeris.GeoPosition{
//		Latitude:  59.9139,
//		Longitude: 10.7522,
//		Altitude:  23,
//	}, time.Now())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("%.1f hPa, %.1f°C\n", cond.PressureHPa, cond.TemperatureC)
//
// The forecast gives pressure at sea level; Source reduces it to the
// observer's altitude. Forecasts are cached per location.
//
// For more information about the API, visit: https://api.met.no/weatherapi/locationforecast/2.0/documentation
package meteo
