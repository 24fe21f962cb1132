package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Version   string       `json:"version,omitempty"`
	Engine    EngineHealth `json:"engine"`
	System    SystemHealth `json:"system"`
}

// EngineHealth describes what the calculations run on.
type EngineHealth struct {
	Provider         string  `json:"provider"`
	AtmosphereSource string  `json:"atmosphere_source"`
	StoreEnabled     bool    `json:"store_enabled"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Altitude         float64 `json:"altitude"`
	CompassBearing   float64 `json:"compass_bearing"`
	MaxSweepDays     int     `json:"max_sweep_days"`
}

// SystemHealth represents system-level health information
type SystemHealth struct {
	Uptime           string `json:"uptime"`
	Goroutines       int    `json:"goroutines,omitempty"`
	WebSocketClients int    `json:"websocket_clients"`
}

// healthHandler handles the /api/health endpoint
func (ws *WebServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ws.buildHealth())
}

// readinessHandler handles the /api/ready endpoint
func (ws *WebServer) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ready := map[string]any{
		"ready":     true,
		"timestamp": ws.clock.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if ws.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ws.store.Ping(ctx); err != nil {
			ready["ready"] = false
			ready["error"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, ready)
}

func (ws *WebServer) buildHealth() HealthResponse {
	return HealthResponse{
		Status:    "healthy",
		Timestamp: ws.clock.Now().UTC().Format(time.RFC3339),
		Version:   Version,
		Engine: EngineHealth{
			Provider:         ws.session.Name(),
			AtmosphereSource: ws.source.Name(),
			StoreEnabled:     ws.store != nil,
			Latitude:         ws.config.Position.Latitude,
			Longitude:        ws.config.Position.Longitude,
			Altitude:         ws.config.Position.Altitude,
			CompassBearing:   ws.config.CompassBearing,
			MaxSweepDays:     ws.config.MaxSweepDays,
		},
		System: SystemHealth{
			Uptime:           formatUptime(ws.clock.Since(ws.startTime)),
			Goroutines:       runtime.NumGoroutine(),
			WebSocketClients: ws.clientCount(),
		},
	}
}

// formatUptime formats a duration as a string with seconds rounded to integer
func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
