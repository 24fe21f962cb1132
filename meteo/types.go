package meteo

import "time"

// PointGeometry represents a GeoJSON point geometry
type PointGeometry struct {
	Type        string    `json:"type"`        // Should be "Point"
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude, altitude]
}

// ForecastUnits contains the units of the values read from a forecast
type ForecastUnits struct {
	AirPressureAtSeaLevel *string `json:"air_pressure_at_sea_level,omitempty"`
	AirTemperature        *string `json:"air_temperature,omitempty"`
	RelativeHumidity      *string `json:"relative_humidity,omitempty"`
}

// ForecastMeta contains metadata for the forecast
type ForecastMeta struct {
	UpdatedAt time.Time     `json:"updated_at"`
	Units     ForecastUnits `json:"units"`
}

// ForecastTimeInstant contains the instant values at one time step
type ForecastTimeInstant struct {
	AirPressureAtSeaLevel *float64 `json:"air_pressure_at_sea_level,omitempty"`
	AirTemperature        *float64 `json:"air_temperature,omitempty"`
	RelativeHumidity      *float64 `json:"relative_humidity,omitempty"`
}

// ForecastInstantData contains instant forecast data
type ForecastInstantData struct {
	Details *ForecastTimeInstant `json:"details,omitempty"`
}

// ForecastTimeStepData contains forecast data for a specific time step
type ForecastTimeStepData struct {
	Instant *ForecastInstantData `json:"instant,omitempty"`
}

// ForecastTimeStep represents a forecast for a specific time step
type ForecastTimeStep struct {
	Time time.Time             `json:"time"`
	Data *ForecastTimeStepData `json:"data,omitempty"`
}

// Forecast contains the main forecast data
type Forecast struct {
	Meta       ForecastMeta       `json:"meta"`
	Timeseries []ForecastTimeStep `json:"timeseries"`
}

// METJSONForecast represents the root forecast response
type METJSONForecast struct {
	Type       string         `json:"type"` // Should be "Feature"
	Geometry   *PointGeometry `json:"geometry,omitempty"`
	Properties *Forecast      `json:"properties,omitempty"`
}

// Location represents coordinates for a forecast request
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Altitude  *int    `json:"altitude,omitempty"`
}

// QueryParams represents query parameters for forecast requests
type QueryParams struct {
	Location Location `json:"location"`
}
