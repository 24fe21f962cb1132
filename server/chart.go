package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/devskill-org/sunazimuth/azimuth"
)

// sweepChartHandler renders the limb azimuths of a sweep against the compass
// bearing as an HTML line chart.
func (ws *WebServer) sweepChartHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "sweep_chart"
	ctx, cancel := context.WithTimeout(r.Context(), ws.config.RequestTimeout)
	defer cancel()

	sweep, _, err := ws.parseSweep(ctx, r.URL.Query())
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}
	points, err := ws.runSweep(ctx, sweep, nil)
	if err != nil {
		ws.fail(w, endpoint, err)
		return
	}

	var buf bytes.Buffer
	if err := sweepChart(sweep, points).Render(&buf); err != nil {
		ws.fail(w, endpoint, fmt.Errorf("render chart: %w", err))
		return
	}

	ws.metrics.Requests.WithLabelValues(endpoint, "ok").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func sweepChart(sweep azimuth.SweepRequest, points []azimuth.SweepPoint) *charts.Line {
	dates := make([]string, 0, len(points))
	top := make([]opts.LineData, 0, len(points))
	bot := make([]opts.LineData, 0, len(points))
	kp := make([]opts.LineData, 0, len(points))

	for _, p := range points {
		dates = append(dates, p.Date.Format(time.DateOnly))
		kp = append(kp, opts.LineData{Value: sweep.KP})
		if p.Result == nil {
			// Gap for days without the event.
			top = append(top, opts.LineData{Value: "-"})
			bot = append(bot, opts.LineData{Value: "-"})
			continue
		}
		top = append(top, opts.LineData{Value: p.Result.AzimuthTop})
		bot = append(bot, opts.LineData{Value: p.Result.AzimuthBot})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Solar azimuth sweep", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Sun%s azimuth", sweep.Event),
			Subtitle: fmt.Sprintf("%v, %.1f hPa, %.1f °C, KP %.2f°", sweep.Position, sweep.Pressure, sweep.Temperature, sweep.KP),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Azimuth (°)", NameLocation: "middle", NameGap: 45, Scale: opts.Bool(true)}),
	)
	line.SetXAxis(dates).
		AddSeries("upper limb", top).
		AddSeries("lower limb", bot).
		AddSeries("compass bearing", kp, charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}))

	return line
}
