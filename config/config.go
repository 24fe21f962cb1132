// Package config holds the JSON configuration of the azimuth service.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/station"
)

// Atmosphere source names accepted in AtmosphereSources.
const (
	SourceStandard = "standard"
	SourceFixed    = "fixed"
	SourceMeteo    = "meteo"
	SourceStation  = "station"
)

// Config represents the configuration for the azimuth service
type Config struct {
	// Observer defaults, used when a request omits them
	Latitude       float64 `json:"latitude"`        // degrees, north positive
	Longitude      float64 `json:"longitude"`       // degrees, east positive
	Altitude       float64 `json:"altitude"`        // meters above sea level
	CompassBearing float64 `json:"compass_bearing"` // KP in degrees

	// Server settings
	HTTPPort       int           `json:"http_port"`       // Port for the HTTP API (0 = disabled)
	RequestTimeout time.Duration `json:"request_timeout"` // Timeout for one API request
	MaxSweepDays   int           `json:"max_sweep_days"`  // Longest sweep the API accepts

	// Atmosphere settings
	AtmosphereSources    []string            `json:"atmosphere_sources"`     // Tried in order: standard, fixed, meteo, station
	FixedPressure        float64             `json:"fixed_pressure"`         // hPa, for the fixed source
	FixedTemperature     float64             `json:"fixed_temperature"`      // °C, for the fixed source
	UserAgent            string              `json:"user_agent"`             // User agent for weather API client
	WeatherCacheTTL      time.Duration       `json:"weather_cache_ttl"`      // How long a fetched forecast is reused
	WeatherAPIURL        string              `json:"weather_api_url"`        // Override of the MET API base URL
	StationModbusAddress string              `json:"station_modbus_address"` // Weather station Modbus TCP address (IP:PORT)
	StationSlaveID       int                 `json:"station_slave_id"`
	StationTimeout       time.Duration       `json:"station_timeout"`
	StationRegisters     station.RegisterMap `json:"station_registers"`

	// Persistence
	PostgresConnString string `json:"postgres_conn_string"` // PostgreSQL connection string (empty = disabled)
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Latitude:             56.9496, // Riga, Latvia
		Longitude:            24.1052, // Riga, Latvia
		Altitude:             0,
		HTTPPort:             0,
		RequestTimeout:       30 * time.Second,
		MaxSweepDays:         366,
		AtmosphereSources:    []string{SourceStandard},
		FixedPressure:        1013.25,
		FixedTemperature:     10,
		UserAgent:            "SunAzimuth/1.0 (username@example.com)",
		WeatherCacheTTL:      30 * time.Minute,
		StationSlaveID:       station.DefaultSlaveID,
		StationTimeout:       station.DefaultTimeout,
		StationRegisters:     station.DefaultRegisterMap(),
		PostgresConnString:   "",
		StationModbusAddress: "",
	}
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	config := DefaultConfig()

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	return c.SaveConfigToWriter(file)
}

// SaveConfigToWriter saves the configuration to an io.Writer
func (c *Config) SaveConfigToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}

	return nil
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got: %f", c.Latitude)
	}

	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got: %f", c.Longitude)
	}

	if c.Altitude < 0 {
		return fmt.Errorf("altitude must be non-negative, got: %f", c.Altitude)
	}

	if c.CompassBearing < 0 || c.CompassBearing >= 360 {
		return fmt.Errorf("compass_bearing must be in [0, 360), got: %f", c.CompassBearing)
	}

	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("http_port must be between 0 and 65535, got: %d", c.HTTPPort)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be greater than 0, got: %s", c.RequestTimeout)
	}

	if c.MaxSweepDays <= 0 || c.MaxSweepDays > azimuth.MaxSweepDays {
		return fmt.Errorf("max_sweep_days must be between 1 and %d, got: %d", azimuth.MaxSweepDays, c.MaxSweepDays)
	}

	if len(c.AtmosphereSources) == 0 {
		return fmt.Errorf("atmosphere_sources cannot be empty")
	}

	valid := []string{SourceStandard, SourceFixed, SourceMeteo, SourceStation}
	for _, s := range c.AtmosphereSources {
		if !slices.Contains(valid, s) {
			return fmt.Errorf("invalid atmosphere source: %s, must be one of: standard, fixed, meteo, station", s)
		}
	}

	if c.UsesSource(SourceFixed) {
		fixed := atmosphere.Conditions{PressureHPa: c.FixedPressure, TemperatureC: c.FixedTemperature}
		if err := fixed.Validate(); err != nil {
			return fmt.Errorf("fixed atmosphere: %w", err)
		}
	}

	if c.UsesSource(SourceMeteo) {
		if c.UserAgent == "" {
			return fmt.Errorf("user_agent cannot be empty")
		}
		if c.WeatherCacheTTL <= 0 {
			return fmt.Errorf("weather_cache_ttl must be greater than 0, got: %s", c.WeatherCacheTTL)
		}
	}

	if c.UsesSource(SourceStation) {
		if c.StationModbusAddress == "" {
			return fmt.Errorf("station_modbus_address cannot be empty")
		}
		if c.StationSlaveID < station.MinSlaveID || c.StationSlaveID > station.MaxSlaveID {
			return fmt.Errorf("station_slave_id must be between %d and %d, got: %d", station.MinSlaveID, station.MaxSlaveID, c.StationSlaveID)
		}
		if err := c.StationRegisters.Validate(); err != nil {
			return fmt.Errorf("station_registers: %w", err)
		}
	}

	return nil
}

// UsesSource reports whether name is one of the configured atmosphere sources.
func (c *Config) UsesSource(name string) bool {
	return slices.Contains(c.AtmosphereSources, name)
}

// MarshalJSON implements custom JSON marshaling to handle durations
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		RequestTimeout  string `json:"request_timeout"`
		WeatherCacheTTL string `json:"weather_cache_ttl"`
		StationTimeout  string `json:"station_timeout"`
	}{
		Alias:           (*Alias)(c),
		RequestTimeout:  c.RequestTimeout.String(),
		WeatherCacheTTL: c.WeatherCacheTTL.String(),
		StationTimeout:  c.StationTimeout.String(),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling to handle durations
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config
	aux := &struct {
		*Alias
		RequestTimeout  string `json:"request_timeout"`
		WeatherCacheTTL string `json:"weather_cache_ttl"`
		StationTimeout  string `json:"station_timeout"`
	}{
		Alias: (*Alias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if aux.RequestTimeout != "" {
		if c.RequestTimeout, err = time.ParseDuration(aux.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
	}

	if aux.WeatherCacheTTL != "" {
		if c.WeatherCacheTTL, err = time.ParseDuration(aux.WeatherCacheTTL); err != nil {
			return fmt.Errorf("invalid weather_cache_ttl: %w", err)
		}
	}

	if aux.StationTimeout != "" {
		if c.StationTimeout, err = time.ParseDuration(aux.StationTimeout); err != nil {
			return fmt.Errorf("invalid station_timeout: %w", err)
		}
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
