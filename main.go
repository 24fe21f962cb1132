// Package main provides the solar azimuth correction entry point and CLI interface.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devskill-org/sunazimuth/atmosphere"
	"github.com/devskill-org/sunazimuth/azimuth"
	"github.com/devskill-org/sunazimuth/config"
	"github.com/devskill-org/sunazimuth/ephemeris"
	"github.com/devskill-org/sunazimuth/meteo"
	"github.com/devskill-org/sunazimuth/server"
	"github.com/devskill-org/sunazimuth/station"
	"github.com/devskill-org/sunazimuth/store"
)

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "config.json", "Configuration file path")
		help       = flag.Bool("help", false, "Show help message")
		serve      = flag.Bool("serve", false, "Run the HTTP API until interrupted")
		timeOnly   = flag.Bool("time", false, "Print the corrected event time instead of the azimuth")
		estimate   = flag.Bool("estimate", false, "Print the quick suncalc estimate of the event")
		sweep      = flag.Bool("sweep", false, "Correct every day from -from to -to and list alignments")
		date       = flag.String("date", "", "Date (YYYY-MM-DD, default today UTC)")
		from       = flag.String("from", "", "First sweep day (YYYY-MM-DD, default today UTC)")
		to         = flag.String("to", "", "Last sweep day (YYYY-MM-DD, default 30 days after -from)")
		event      = flag.String("event", "rise", "Event: rise or set")
		kp         = flag.Float64("kp", -1, "Compass bearing in degrees (default from configuration)")
		save       = flag.Bool("save", false, "Store results in PostgreSQL")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = config.DefaultConfig()
	case err != nil:
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	if *kp >= 0 {
		cfg.CompassBearing = *kp
	}

	logger := log.New(os.Stdout, "[AZIMUTH] ", log.LstdFlags)

	source, closeSource, err := buildSource(cfg)
	if err != nil {
		logger.Printf("Error creating atmosphere source: %v", err)
		os.Exit(1)
	}
	defer closeSource()

	var rs *store.Store
	if cfg.PostgresConnString != "" && (*serve || *save) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rs, err = store.Open(ctx, cfg.PostgresConnString, logger)
		cancel()
		if err != nil {
			logger.Printf("Error opening result store: %v", err)
			os.Exit(1)
		}
		defer rs.Close()
	}

	if *serve {
		runServer(cfg, source, rs, logger)
		return
	}

	ev, err := ephemeris.ParseEventType(*event)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	pos := ephemeris.GeoPosition{Latitude: cfg.Latitude, Longitude: cfg.Longitude, Altitude: cfg.Altitude}
	calc := azimuth.NewCalculator(ephemeris.NewSolarProvider())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	switch {
	case *sweep:
		start, err := parseDay(*from, today())
		if err == nil {
			var end time.Time
			if end, err = parseDay(*to, start.AddDate(0, 0, 30)); err == nil {
				err = runSweep(ctx, os.Stdout, calc, source, rs, pos, ev, cfg.CompassBearing, start, end)
			}
		}
		exitOn(err)
	case *estimate:
		day, err := parseDay(*date, today())
		exitOn(err)
		est, err := ephemeris.EstimateEvent(day, pos, ev)
		exitOn(err)
		fmt.Printf("Estimated sun%s: %s, azimuth %.2f°\n", est.Event, est.Time.Format(time.RFC3339), est.Azimuth)
	default:
		day, err := parseDay(*date, today())
		exitOn(err)
		cond, err := resolve(ctx, source, day, pos, ev)
		exitOn(err)
		if *timeOnly {
			tr, err := calc.CalculateSunriseSunsetTime(day, pos, cond.PressureHPa, cond.TemperatureC, ev)
			exitOn(err)
			printTime(os.Stdout, tr, cond)
			return
		}
		r, err := calc.CalculateSunriseSunsetAzimuth(day, pos, cond.PressureHPa, cond.TemperatureC, ev, cfg.CompassBearing)
		exitOn(err)
		printAzimuth(os.Stdout, day, r, cond)
		if rs != nil && *save {
			rec := &store.Record{Date: day, Position: pos, Pressure: cond.PressureHPa, Temperature: cond.TemperatureC, Result: *r}
			exitOn(rs.SaveResults(ctx, []*store.Record{rec}))
			logger.Printf("Saved result %s", rec.ID)
		}
	}
}

// buildSource creates the configured atmosphere sources in order. The returned
// func releases the station connection, if any.
func buildSource(cfg *config.Config) (atmosphere.Source, func(), error) {
	var chain atmosphere.Chain
	closer := func() {}

	for _, name := range cfg.AtmosphereSources {
		switch name {
		case config.SourceStandard:
			chain = append(chain, atmosphere.Fixed(atmosphere.Standard()))
		case config.SourceFixed:
			chain = append(chain, atmosphere.Fixed{PressureHPa: cfg.FixedPressure, TemperatureC: cfg.FixedTemperature, Source: config.SourceFixed})
		case config.SourceMeteo:
			client := meteo.NewClient(cfg.UserAgent)
			if cfg.WeatherAPIURL != "" {
				client.SetBaseURL(cfg.WeatherAPIURL)
			}
			chain = append(chain, meteo.NewSource(client, cfg.WeatherCacheTTL))
		case config.SourceStation:
			mc, err := station.NewTCPClient(cfg.StationModbusAddress, byte(cfg.StationSlaveID), cfg.StationTimeout, cfg.StationRegisters)
			if err != nil {
				closer()
				return nil, nil, fmt.Errorf("weather station: %w", err)
			}
			prev := closer
			closer = func() {
				mc.Close()
				prev()
			}
			chain = append(chain, station.NewSource(mc))
		}
	}

	if len(chain) == 1 {
		return chain[0], closer, nil
	}
	return chain, closer, nil
}

func runServer(cfg *config.Config, source atmosphere.Source, rs *store.Store, logger *log.Logger) {
	if cfg.HTTPPort == 0 {
		logger.Printf("http_port is not set, nothing to serve")
		os.Exit(1)
	}

	fmt.Printf("Starting solar azimuth API with the following configuration:\n")
	fmt.Printf("  Observer: %.4f, %.4f, %.0f m\n", cfg.Latitude, cfg.Longitude, cfg.Altitude)
	fmt.Printf("  Compass bearing: %.2f°\n", cfg.CompassBearing)
	fmt.Printf("  Atmosphere: %s (%s)\n", source.Name(), cfg.AtmosphereSources)
	fmt.Printf("  Port: %d\n", cfg.HTTPPort)
	if rs != nil {
		fmt.Printf("  Result store: PostgreSQL\n")
	}
	fmt.Println()

	var resultStore server.ResultStore
	if rs != nil {
		resultStore = rs
	}
	session := ephemeris.NewSession(ephemeris.NewSolarProvider())
	ws := server.NewWebServer(session, source, resultStore, server.Config{
		Port:           cfg.HTTPPort,
		Position:       ephemeris.GeoPosition{Latitude: cfg.Latitude, Longitude: cfg.Longitude, Altitude: cfg.Altitude},
		CompassBearing: cfg.CompassBearing,
		RequestTimeout: cfg.RequestTimeout,
		MaxSweepDays:   cfg.MaxSweepDays,
	}, logger)

	if err := ws.Start(); err != nil {
		logger.Printf("Web server error: %v", err)
		os.Exit(1)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Printf("Server started. Press Ctrl+C to stop...")
	<-sigChan
	logger.Printf("Shutdown signal received, stopping server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ws.Stop(ctx); err != nil {
		logger.Printf("Error stopping web server: %v", err)
	}

	logger.Printf("Server stopped successfully")
}

// resolve asks the source for the conditions at the estimated event time.
func resolve(ctx context.Context, source atmosphere.Source, day time.Time, pos ephemeris.GeoPosition, ev ephemeris.EventType) (atmosphere.Conditions, error) {
	at := day.Add(12 * time.Hour)
	if est, err := ephemeris.EstimateEvent(day, pos, ev); err == nil {
		at = est.Time
	}
	cond, err := source.Conditions(ctx, pos, at)
	if err != nil {
		return atmosphere.Conditions{}, fmt.Errorf("atmosphere from %s: %w", source.Name(), err)
	}
	return cond, cond.Validate()
}

func runSweep(ctx context.Context, w io.Writer, calc *azimuth.Calculator, source atmosphere.Source, rs *store.Store, pos ephemeris.GeoPosition, ev ephemeris.EventType, kp float64, from, to time.Time) error {
	cond, err := resolve(ctx, source, from, pos, ev)
	if err != nil {
		return err
	}
	req := azimuth.SweepRequest{
		From:        from,
		To:          to,
		Position:    pos,
		Pressure:    cond.PressureHPa,
		Temperature: cond.TemperatureC,
		Event:       ev,
		KP:          kp,
	}

	points, err := calc.SweepAll(ctx, req)
	if err != nil {
		return err
	}
	printSweep(w, req, points, cond)

	if rs != nil {
		id, err := rs.SaveSweep(ctx, req, points)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved sweep %s\n", id)
	}
	return nil
}

func printAzimuth(w io.Writer, day time.Time, r *azimuth.Result, cond atmosphere.Conditions) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "SUN%s AZIMUTH %s\n", upper(r.Event), day.Format(time.DateOnly))
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Atmosphere:         %.1f hPa, %.1f °C (%s)\n", cond.PressureHPa, cond.TemperatureC, cond.Source)
	fmt.Fprintf(w, "Reference:          %.5f° at latitude %.0f°\n", r.ReferenceAzimuth, r.ReferenceLatitude)
	fmt.Fprintf(w, "  latitude          %+.5f°\n", r.DLatitude)
	fmt.Fprintf(w, "  longitude         %+.5f°\n", r.DLongitude)
	fmt.Fprintf(w, "  altitude          %+.5f°\n", r.DAltitude)
	fmt.Fprintf(w, "  temperature       %+.5f°\n", r.DTemperature)
	fmt.Fprintf(w, "  pressure          %+.5f°\n", r.DPressure)
	fmt.Fprintf(w, "  horizon dip       %+.5f°\n", r.Dh)
	fmt.Fprintf(w, "Total correction:   %+.5f° (K = %.3f)\n", r.DAzimuth, r.K)
	fmt.Fprintf(w, "Upper limb:         %.5f°\n", r.AzimuthTop)
	fmt.Fprintf(w, "Lower limb:         %.5f° (span %.5f°)\n", r.AzimuthBot, r.DAzimuthAge)
	fmt.Fprintf(w, "Compass bearing:    %.5f° (top %+.5f°, bottom %+.5f°)\n", r.KP, r.DKPTop, r.DKPBot)
	if r.Aligned() {
		fmt.Fprintf(w, "Aligned:            yes, at %.0f%% of the disc\n", r.KPFraction*100)
	} else {
		fmt.Fprintf(w, "Aligned:            no\n")
	}
	fmt.Fprintln(w, "========================================")
}

func printTime(w io.Writer, tr *azimuth.TimeResult, cond atmosphere.Conditions) {
	fmt.Fprintf(w, "Sun%s: %s (uncorrected %s, dip correction %+.2f min)\n",
		tr.Event, tr.DateTime.Format(time.RFC3339), tr.Raw.Time.Format(time.RFC3339), tr.DT)
	fmt.Fprintf(w, "Azimuth %.4f°, altitude %.4f° at %.1f hPa, %.1f °C (%s)\n",
		tr.Raw.Coordinates.Azimuth, tr.Raw.Coordinates.ApparentAltitude, cond.PressureHPa, cond.TemperatureC, cond.Source)
}

func printSweep(w io.Writer, req azimuth.SweepRequest, points []azimuth.SweepPoint, cond atmosphere.Conditions) {
	fmt.Fprintf(w, "Sun%s sweep %s .. %s, KP %.2f°, %.1f hPa, %.1f °C (%s)\n\n",
		req.Event, req.From.Format(time.DateOnly), req.To.Format(time.DateOnly), req.KP, cond.PressureHPa, cond.TemperatureC, cond.Source)
	fmt.Fprintln(w, "┌────────────┬────────────┬────────────┬────────────┬─────────┐")
	fmt.Fprintln(w, "│    Date    │ Upper limb │ Lower limb │  KP - top  │ Aligned │")
	fmt.Fprintln(w, "├────────────┼────────────┼────────────┼────────────┼─────────┤")
	aligned := 0
	for _, p := range points {
		if p.NoEvent {
			fmt.Fprintf(w, "│ %10s │ %10s │ %10s │ %10s │ %7s │\n", p.Date.Format(time.DateOnly), "-", "-", "-", "")
			continue
		}
		mark := ""
		if p.Aligned {
			mark = "*"
			aligned++
		}
		fmt.Fprintf(w, "│ %10s │ %10.4f │ %10.4f │ %+10.4f │ %7s │\n",
			p.Date.Format(time.DateOnly), p.Result.AzimuthTop, p.Result.AzimuthBot, -p.Result.DKPTop, mark)
	}
	fmt.Fprintln(w, "└────────────┴────────────┴────────────┴────────────┴─────────┘")
	fmt.Fprintf(w, "Days: %d, aligned: %d\n", len(points), aligned)
}

func upper(e ephemeris.EventType) string {
	if e == ephemeris.Set {
		return "SET"
	}
	return "RISE"
}

func parseDay(v string, def time.Time) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return t, nil
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func exitOn(err error) {
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Solar azimuth - corrected sunrise and sunset azimuths for a compass bearing")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Computes the azimuth of the Sun's upper and lower limb on the horizon at rise")
	fmt.Println("  or set, corrected for the observer's latitude, longitude, altitude, pressure and")
	fmt.Println("  temperature, and tells whether a compass bearing (KP) falls on the solar disc.")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  sunazimuth [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Today's corrected sunrise azimuth at the configured observer")
	fmt.Println("  sunazimuth")
	fmt.Println()
	fmt.Println("  # Sunset on a given day against bearing 301.5")
	fmt.Println("  sunazimuth -event=set -date=2016-04-27 -kp=301.5")
	fmt.Println()
	fmt.Println("  # Find the days a bearing lines up with the rising Sun")
	fmt.Println("  sunazimuth -sweep -from=2016-04-01 -to=2016-05-31 -kp=61.9")
	fmt.Println()
	fmt.Println("  # Run the HTTP API")
	fmt.Println("  sunazimuth -serve --config=config.json")
	fmt.Println()
	fmt.Println("  # Show this help")
	fmt.Println("  sunazimuth -help")
}
