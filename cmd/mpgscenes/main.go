package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spektr-org/mpgscenes/engine"
	"github.com/spektr-org/mpgscenes/export"
	"github.com/spektr-org/mpgscenes/helpers"
	"github.com/spektr-org/mpgscenes/internal/config"
	"github.com/spektr-org/mpgscenes/internal/logging"
	"github.com/spektr-org/mpgscenes/internal/metrics"
	"github.com/spektr-org/mpgscenes/internal/transport/httpapi"
	"github.com/spektr-org/mpgscenes/render"
	"github.com/spektr-org/mpgscenes/scene"
)

// ============================================================================
// MPGSCENES CLI — Render a scene once, export stats, or serve all three
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to YAML config file")
	filePath := flag.String("file", "", "Path to cars CSV (overrides data.file)")
	sceneName := flag.String("scene", "", "Scene to render: scene1, scene2, scene3")
	format := flag.String("format", "svg", "Output format: svg, html, json, csv, xlsx")
	measure := flag.String("measure", "", "Measure for csv/xlsx: highway_mpg, city_mpg, engine_cylinders")
	by := flag.String("by", "", "Dimension for csv/xlsx: make, fuel")
	sortBy := flag.String("sort", "", "Sort for csv/xlsx: value_desc, value_asc, label_asc, label_desc")
	outFile := flag.String("out", "", "Write output to file instead of stdout")
	computed := flag.Bool("computed-annotations", false, "Derive bar-scene max/min callouts from the data")
	serve := flag.Bool("serve", false, "Serve the scenes over HTTP")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `mpgscenes — car fuel-economy story in three scenes

Usage:
  mpgscenes --file cars2017.csv --scene scene1 --out scene1.svg
  mpgscenes --file cars2017.csv --scene scene3 --format html --out index.html
  mpgscenes --file cars2017.csv --format csv --measure city_mpg --by fuel
  mpgscenes --config mpgscenes.yaml --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  MPG_SERVER_HOST, MPG_SERVER_PORT, MPG_DATA_FILE, MPG_LOGGING_LEVEL, ...
  override the config file; see internal/config.
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("mpgscenes %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	if *configPath == "" {
		*configPath = os.Getenv(config.EnvPrefix + "_CONFIG")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("%v", err)
	}
	if *filePath != "" {
		cfg.Data.File = *filePath
	}
	if flagSet("computed-annotations") {
		cfg.Scenes.ComputedAnnotations = *computed
	}
	if *sceneName == "" {
		*sceneName = cfg.Scenes.Default
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	// ── Data ──────────────────────────────────────────────────────────────
	ds, err := helpers.LoadCars(cfg.Data.File)
	if err != nil {
		logger.Error("failed to load dataset", slog.String("file", cfg.Data.File), slog.String("error", err.Error()))
		fatalf("%v", err)
	}
	logger.Info("dataset loaded", slog.String("file", cfg.Data.File), slog.Int("records", ds.Len()))

	// ── Serve mode ────────────────────────────────────────────────────────
	if *serve {
		if err := runServer(cfg, ds, logger); err != nil {
			logger.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// ── One-shot mode ─────────────────────────────────────────────────────
	ctrl := scene.NewController(ds,
		scene.WithLogger(logger),
		scene.WithComputedExtremes(cfg.Scenes.ComputedAnnotations),
	)
	q := engine.Query{Measure: *measure, By: *by, SortBy: *sortBy}
	err = writeOutput(*outFile, func(w io.Writer) error {
		return renderOnce(w, ctrl, *sceneName, strings.ToLower(*format), q)
	})
	if err != nil {
		fatalf("%v", err)
	}
	if *outFile != "" {
		logger.Info("output written", slog.String("path", *outFile), slog.String("format", *format))
	}
}

// writeOutput runs fn against a buffered writer on path, or on stdout when
// path is empty. The file is closed before returning and a failed flush or
// close is reported.
func writeOutput(path string, fn func(io.Writer) error) error {
	out := io.Writer(os.Stdout)
	var f *os.File
	if path != "" {
		var err error
		if f, err = os.Create(path); err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		out = f
	}

	bw := bufio.NewWriter(out)
	err := fn(bw)
	if err == nil {
		if ferr := bw.Flush(); ferr != nil {
			err = fmt.Errorf("failed to write output: %w", ferr)
		}
	}
	if f != nil {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}
	return err
}

// renderOnce writes one scene (svg, html, json) or one stat export
// (csv, xlsx) to w.
func renderOnce(w io.Writer, ctrl *scene.Controller, name, format string, q engine.Query) error {
	switch format {
	case "csv", "xlsx":
		ef, err := export.ParseFormat(format)
		if err != nil {
			return err
		}
		res, err := engine.Execute(q, ctrl.Dataset())
		if err != nil {
			return err
		}
		return export.Write(w, res, ef)
	case "svg", "html", "json":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	sc, err := ctrl.Lookup(name)
	if err != nil {
		return err
	}
	surface, err := ctrl.Show(name)
	if err != nil {
		return err
	}
	switch format {
	case "html":
		return render.Page(w, render.PageData{
			Title:   sc.Title(),
			Active:  name,
			Scenes:  ctrl.Scenes(),
			Surface: surface,
		})
	case "json":
		return render.JSON(w, surface)
	default:
		return render.SVG(w, surface)
	}
}

// ============================================================================
// SERVER
// ============================================================================

func runServer(cfg *config.Config, ds *engine.Dataset, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []scene.Option{
		scene.WithLogger(logger),
		scene.WithComputedExtremes(cfg.Scenes.ComputedAnnotations),
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled() {
		m = metrics.New()
		m.SetRecords(ds.Len())
		opts = append(opts, scene.WithObserver(m.ObserveRender))
	}

	router := httpapi.NewRouter(httpapi.Options{
		Controller:   scene.NewController(ds, opts...),
		Logger:       logger,
		Metrics:      m,
		MetricsPath:  cfg.Metrics.Path,
		DefaultScene: cfg.Scenes.Default,
		Version:      version,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
	})
	return httpapi.Serve(ctx, cfg.Server, router, logger)
}

// ============================================================================
// HELPERS
// ============================================================================

func flagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
