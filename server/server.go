// Package server exposes the azimuth engine over HTTP and WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/ephemeris"
	"github.com/devskill-org/sunazimuth/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ResultStore persists calculated results.
type ResultStore interface {
	SaveResults(ctx context.Context, records []*store.Record) error
	SaveSweep(ctx context.Context, req azimuth.SweepRequest, points []azimuth.SweepPoint) (uuid.UUID, error)
	Ping(ctx context.Context) error
}

// Config holds the server settings.
type Config struct {
	Port           int
	Position       ephemeris.GeoPosition // default observer
	CompassBearing float64               // default KP
	RequestTimeout time.Duration
	MaxSweepDays   int
}

// WebServer provides the HTTP API, health endpoints and sweep streaming
type WebServer struct {
	session  *ephemeris.Session
	source   atmosphere.Source
	store    ResultStore
	config   Config
	logger   *log.Logger
	clock    clockwork.Clock
	metrics  *Metrics
	registry *prometheus.Registry

	server    *http.Server
	handler   http.Handler
	startTime time.Time
	upgrader  websocket.Upgrader
	clients   sync.Map // *wsClient -> struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWebServer creates a web server. store may be nil.
func NewWebServer(session *ephemeris.Session, source atmosphere.Source, rs ResultStore, cfg Config, logger *log.Logger) *WebServer {
	return newWebServer(session, source, rs, cfg, logger, clockwork.NewRealClock())
}

func newWebServer(session *ephemeris.Session, source atmosphere.Source, rs ResultStore, cfg Config, logger *log.Logger, clock clockwork.Clock) *WebServer {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxSweepDays <= 0 || cfg.MaxSweepDays > azimuth.MaxSweepDays {
		cfg.MaxSweepDays = azimuth.MaxSweepDays
	}

	registry := prometheus.NewRegistry()
	mux := http.NewServeMux()
	ws := &WebServer{
		session:   session,
		source:    source,
		store:     rs,
		config:    cfg,
		logger:    logger,
		clock:     clock,
		metrics:   NewMetrics(registry),
		registry:  registry,
		handler:   mux,
		startTime: clock.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		done: make(chan struct{}),
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.RequestTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	// Register API routes
	mux.HandleFunc("GET /api/health", ws.healthHandler)
	mux.HandleFunc("GET /api/ready", ws.readinessHandler)
	mux.HandleFunc("GET /api/azimuth", ws.azimuthHandler)
	mux.HandleFunc("GET /api/time", ws.timeHandler)
	mux.HandleFunc("GET /api/estimate", ws.estimateHandler)
	mux.HandleFunc("GET /api/sweep", ws.sweepHandler)
	mux.HandleFunc("GET /api/sweep/chart", ws.sweepChartHandler)
	mux.HandleFunc("GET /api/ws", ws.wsHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return ws
}

// ServeHTTP delegates to the router, useful for testing.
func (ws *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws.handler.ServeHTTP(w, r)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	if ws.config.Port <= 0 {
		return errors.New("web server port is not configured")
	}

	go ws.broadcastStatus()

	go func() {
		ws.logger.Printf("Web server listening on %s", ws.server.Addr)
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Log error but don't crash the main application
			ws.logger.Printf("Web server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully stops the web server
func (ws *WebServer) Stop(ctx context.Context) error {
	ws.stopOnce.Do(func() {
		// Signal goroutines to stop
		close(ws.done)

		// Close all WebSocket connections
		ws.clients.Range(func(key, value any) bool {
			if c, ok := key.(*wsClient); ok {
				c.conn.Close()
			}
			return true
		})
	})

	return ws.server.Shutdown(ctx)
}

// calculate runs fn with exclusive use of the ephemeris provider.
func (ws *WebServer) calculate(fn func(c *azimuth.Calculator) error) error {
	return ws.session.Exclusive(func(p ephemeris.Provider) error {
		return fn(azimuth.NewCalculator(p))
	})
}

// conditions resolves the atmosphere of req, asking the source at the
// estimated event time when the query has none.
func (ws *WebServer) conditions(ctx context.Context, req *request) (atmosphere.Conditions, error) {
	if req.Conditions != nil {
		return *req.Conditions, nil
	}

	at := req.Date.Add(12 * time.Hour)
	if est, err := ephemeris.EstimateEvent(req.Date, req.Position, req.Event); err == nil {
		at = est.Time
	}

	cond, err := ws.source.Conditions(ctx, req.Position, at)
	if err == nil {
		err = cond.Validate()
	}
	if err != nil {
		ws.metrics.AtmosphereLookups.WithLabelValues(ws.source.Name(), "error").Inc()
		return atmosphere.Conditions{}, &sourceError{Source: ws.source.Name(), Err: err}
	}
	ws.metrics.AtmosphereLookups.WithLabelValues(ws.source.Name(), "success").Inc()
	return cond, nil
}

// sourceError is a failed atmosphere lookup.
type sourceError struct {
	Source string
	Err    error
}

func (e *sourceError) Error() string {
	return fmt.Sprintf("atmosphere from %s: %v", e.Source, e.Err)
}

func (e *sourceError) Unwrap() error {
	return e.Err
}
