package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/ephemeris"
	"github.com/devskill-org/sunazimuth/store"
)

// AzimuthResponse is the body of /api/azimuth.
type AzimuthResponse struct {
	ID         uuid.UUID             `json:"id,omitzero"`
	Date       string                `json:"date"`
	Position   ephemeris.GeoPosition `json:"position"`
	Conditions atmosphere.Conditions `json:"conditions"`
	Result     *azimuth.Result       `json:"result"`
	Aligned    bool                  `json:"aligned"`
}

// TimeResponse is the body of /api/time.
type TimeResponse struct {
	Date       string                `json:"date"`
	Position   ephemeris.GeoPosition `json:"position"`
	Conditions atmosphere.Conditions `json:"conditions"`
	Result     *azimuth.TimeResult   `json:"result"`
}

// SweepResponse is the body of /api/sweep.
type SweepResponse struct {
	ID         uuid.UUID             `json:"id,omitzero"`
	Request    azimuth.SweepRequest  `json:"request"`
	Conditions atmosphere.Conditions `json:"conditions"`
	Points     []azimuth.SweepPoint  `json:"points"`
	Alignments []string              `json:"alignments"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (ws *WebServer) azimuthHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "azimuth"
	ctx, cancel := context.WithTimeout(r.Context(), ws.config.RequestTimeout)
	defer cancel()

	req, err := ws.parseRequest(r.URL.Query())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}
	cond, err := ws.conditions(ctx, req)
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	var result *azimuth.Result
	start := ws.clock.Now()
	err = ws.calculate(func(c *azimuth.Calculator) error {
		var err error
		result, err = c.CalculateSunriseSunsetAzimuth(req.Date, req.Position, cond.PressureHPa, cond.TemperatureC, req.Event, req.KP)
		return err
	})
	ws.metrics.CalculationDuration.WithLabelValues(endpoint).Observe(ws.clock.Since(start).Seconds())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	resp := AzimuthResponse{
		Date:       req.Date.Format(time.DateOnly),
		Position:   req.Position,
		Conditions: cond,
		Result:     result,
		Aligned:    result.Aligned(),
	}

	if ws.store != nil {
		rec := &store.Record{
			Date:        req.Date,
			Position:    req.Position,
			Pressure:    cond.PressureHPa,
			Temperature: cond.TemperatureC,
			Result:      *result,
		}
		if err := ws.store.SaveResults(ctx, []*store.Record{rec}); err != nil {
			// The result is still good; only persistence failed.
			ws.logger.Printf("Failed to save azimuth result: %v", err)
		} else {
			resp.ID = rec.ID
		}
	}

	ws.succeed(w, endpoint, resp)
}

func (ws *WebServer) timeHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "time"
	ctx, cancel := context.WithTimeout(r.Context(), ws.config.RequestTimeout)
	defer cancel()

	req, err := ws.parseRequest(r.URL.Query())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}
	cond, err := ws.conditions(ctx, req)
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	var result *azimuth.TimeResult
	start := ws.clock.Now()
	err = ws.calculate(func(c *azimuth.Calculator) error {
		var err error
		result, err = c.CalculateSunriseSunsetTime(req.Date, req.Position, cond.PressureHPa, cond.TemperatureC, req.Event)
		return err
	})
	ws.metrics.CalculationDuration.WithLabelValues(endpoint).Observe(ws.clock.Since(start).Seconds())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	ws.succeed(w, endpoint, TimeResponse{
		Date:       req.Date.Format(time.DateOnly),
		Position:   req.Position,
		Conditions: cond,
		Result:     result,
	})
}

func (ws *WebServer) estimateHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "estimate"
	req, err := ws.parseRequest(r.URL.Query())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	est, err := ephemeris.EstimateEvent(req.Date, req.Position, req.Event)
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}
	ws.succeed(w, endpoint, est)
}

func (ws *WebServer) sweepHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "sweep"
	ctx, cancel := context.WithTimeout(r.Context(), ws.config.RequestTimeout)
	defer cancel()

	sweep, cond, err := ws.parseSweep(ctx, r.URL.Query())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	points, err := ws.runSweep(ctx, sweep, nil)
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	resp := SweepResponse{
		Request:    sweep,
		Conditions: cond,
		Points:     points,
		Alignments: []string{},
	}
	for _, p := range azimuth.Alignments(points) {
		resp.Alignments = append(resp.Alignments, p.Date.Format(time.DateOnly))
	}

	if ws.store != nil && r.URL.Query().Get("save") == "true" {
		if resp.ID, err = ws.store.SaveSweep(ctx, sweep, points); err != nil {
			ws.logger.Printf("Failed to save sweep: %v", err)
		}
	}

	ws.succeed(w, endpoint, resp)
}

// parseSweep reads the sweep range and resolves its atmosphere once, at the
// first day.
func (ws *WebServer) parseSweep(ctx context.Context, q url.Values) (azimuth.SweepRequest, atmosphere.Conditions, error) {
	req, err := ws.parseRequest(q)
	if err != nil {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, err
	}
	from, err := parseDate(q, "from", ws.clock.Now())
	if err != nil {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, err
	}
	to, err := parseDate(q, "to", from.AddDate(0, 0, 30))
	if err != nil {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, err
	}

	sweep := azimuth.SweepRequest{
		From:     from,
		To:       to,
		Position: req.Position,
		Event:    req.Event,
		KP:       req.KP,
	}
	if err := sweep.Validate(); err != nil {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, &paramError{Name: "to", Err: err}
	}
	if n := sweep.Days(); n > ws.config.MaxSweepDays {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, &paramError{Name: "to", Err: errors.New("sweep is longer than the configured maximum")}
	}

	req.Date = from
	cond, err := ws.conditions(ctx, req)
	if err != nil {
		return azimuth.SweepRequest{}, atmosphere.Conditions{}, err
	}
	sweep.Pressure = cond.PressureHPa
	sweep.Temperature = cond.TemperatureC
	return sweep, cond, nil
}

// runSweep computes the sweep, passing each point to fn when it is not nil.
func (ws *WebServer) runSweep(ctx context.Context, sweep azimuth.SweepRequest, fn func(azimuth.SweepPoint) error) ([]azimuth.SweepPoint, error) {
	start := ws.clock.Now()
	points := make([]azimuth.SweepPoint, 0, sweep.Days())
	err := ws.calculate(func(c *azimuth.Calculator) error {
		return c.Sweep(ctx, sweep, func(p azimuth.SweepPoint) error {
			points = append(points, p)
			if p.Aligned {
				ws.metrics.Alignments.Inc()
			}
			if fn != nil {
				return fn(p)
			}
			return nil
		})
	})
	ws.metrics.CalculationDuration.WithLabelValues("sweep").Observe(ws.clock.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	ws.metrics.SweepDays.Observe(float64(len(points)))
	return points, nil
}

func (ws *WebServer) succeed(w http.ResponseWriter, endpoint string, v any) {
	ws.metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
	writeJSON(w, http.StatusOK, v)
}

// fail maps err to a status code and writes it as JSON.
func (ws *WebServer) fail(w http.ResponseWriter, endpoint string, err error) {
	status, outcome := http.StatusInternalServerError, "error"

	var pErr *paramError
	var sErr *sourceError
	var cErr *ephemeris.ComputationError
	switch {
	case errors.As(err, &pErr):
		status, outcome = http.StatusBadRequest, "bad_request"
	case errors.As(err, &sErr):
		status = http.StatusBadGateway
	case errors.Is(err, ephemeris.ErrNoEventFound):
		status, outcome = http.StatusNotFound, "no_event"
	case errors.As(err, &cErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		ws.logger.Printf("%s request failed: %v", endpoint, err)
	}
	ws.metrics.Requests.WithLabelValues(endpoint, outcome).Inc()
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
