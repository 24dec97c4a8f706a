package plot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/boristopalov/lightswitch/pkg/core"
)

// Series is the trace of one episode
type Series struct {
	Name    string
	History []core.HistoryEntry
}

type Options struct {
	Title string
	Theme string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Light Switch Status Over Time"
	}
	if o.Theme == "" {
		o.Theme = "shine"
	}
	return o
}

// HistoryChart builds a step line of light status against time step
func HistoryChart(series Series, o Options) *charts.Line {
	o = o.withDefaults()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    o.Title,
			Subtitle: series.Name,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: o.Theme,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Time Steps",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Light Status (0 = Off, 1 = On)",
			Min:  0,
			Max:  1,
		}),
	)

	steps := make([]string, 0, len(series.History))
	items := make([]opts.LineData, 0, len(series.History))
	for _, entry := range series.History {
		steps = append(steps, strconv.Itoa(entry.TimeStep))
		items = append(items, opts.LineData{Value: entry.LightStatus})
	}

	line.SetXAxis(steps).
		AddSeries("Light Status", items, charts.WithLineChartOpts(opts.LineChart{Step: "end"}))
	return line
}

// WriteHistoryChart renders one chart per series on a single HTML page
func WriteHistoryChart(w io.Writer, o Options, series ...Series) error {
	if len(series) == 0 {
		return errors.New("no history to plot")
	}
	page := components.NewPage()
	for _, s := range series {
		page.AddCharts(HistoryChart(s, o))
	}
	return page.Render(w)
}

// SaveHistoryChart writes the page to path, creating parent directories
func SaveHistoryChart(path string, o Options, series ...Series) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHistoryChart(f, o, series...); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

// Serve exposes dir over HTTP until ctx is cancelled
func Serve(ctx context.Context, addr, dir string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: http.FileServer(http.Dir(dir)),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving %s at http://%s", dir, addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
