// Command ls-orbits is a terminal viewer for satellite and asteroid orbits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"github.com/litescript/ls-orbits/internal/feed"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/report"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/target"
	"github.com/litescript/ls-orbits/internal/ui"
	"github.com/litescript/ls-orbits/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode bool
	jsonPath    string
	withPath    bool
)

const (
	defaultRefresh = 30 * time.Minute
	minRefresh     = 1 * time.Minute
	defaultSat     = 25544 // ISS
)

func main() {
	tleFile := flag.String("tle-file", "", "Read TLEs from a catalog file (use - for stdin)")
	skipInvalid := flag.Bool("skip-invalid", false, "Drop catalog entries that fail to decode instead of listing them")
	search := flag.String("search", "", "Search the TLE API by satellite name")
	pageSize := flag.Int("page-size", 20, "Maximum search results")
	sats := flag.String("sat", "", "Comma-separated NORAD catalog numbers")
	neos := flag.String("neo", "", "Comma-separated NASA NeoWs asteroid IDs")
	apiKey := flag.String("api-key", envOr("NASA_API_KEY", feed.DemoKey), "NASA API key (env NASA_API_KEY)")
	samples := flag.Int("samples", orbit.DefaultConfig().Samples, "Orbit polyline segments")
	keplerIter := flag.Int("kepler-iter", orbit.DefaultKeplerIterations, "Fixed-point iterations for Kepler's equation")
	refresh := flag.Duration("refresh", defaultRefresh, "Re-fetch interval in TUI mode (0 disables)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Log file in TUI mode (default: ls-orbits.log in the temp dir)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export targets as JSON to file (use - for stdout)")
	flag.BoolVar(&withPath, "json-path", false, "Include sampled orbit points in the JSON export")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ls-orbits %s\n", version.Version)
		return
	}

	if *refresh > 0 && *refresh < minRefresh {
		*refresh = minRefresh
	}

	headless := summaryMode || jsonPath != ""

	// Set up logging. The TUI owns the terminal, so logs go to a file.
	logger := logging.New(logging.ParseLevel(*logLevel))
	if !headless {
		path := *logFile
		if path == "" {
			path = filepath.Join(os.TempDir(), "ls-orbits.log")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	var collector *metrics.Collector
	if *metricsAddr != "" {
		var err error
		collector, err = metrics.NewCollector(prometheus.NewRegistry())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		go serveMetrics(ctx, *metricsAddr, collector, logger)
	}

	propCfg := orbit.DefaultConfig()
	propCfg.Samples = *samples
	propCfg.KeplerIterations = *keplerIter
	prop := orbit.NewPropagator(propCfg)

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	if collector != nil {
		stateCfg.Counter = collector
	}
	stateMgr := state.NewManager(stateCfg)

	ld := &loader{
		tleFile:     *tleFile,
		skipInvalid: *skipInvalid,
		search:      *search,
		pageSize:    *pageSize,
		neos:        parseIDs(*neos),
		stdin:       os.Stdin,
		logger:      logger,
		tles: feed.NewTLEClient(
			feed.WithLogger(logger),
			feed.WithMetrics(collector),
		),
		neo: feed.NewNeoClient(*apiKey,
			feed.WithLogger(logger),
			feed.WithMetrics(collector),
		),
	}
	for _, s := range parseIDs(*sats) {
		id, err := strconv.Atoi(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -sat value %q\n", s)
			os.Exit(2)
		}
		ld.sats = append(ld.sats, id)
	}
	if ld.tleFile == "" && ld.search == "" && len(ld.sats) == 0 && len(ld.neos) == 0 {
		ld.sats = []int{defaultSat}
	}

	// Headless mode: no TUI
	if headless {
		if err := runHeadless(ctx, ld, prop, stateMgr, collector, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use -summary or -json")
		os.Exit(1)
	}

	var p *tea.Program
	var reload ui.Reloader
	if ld.Reloadable() {
		// The UI publishes the result itself once the reload returns.
		reload = func() error {
			return doLoad(ctx, ld, prop, stateMgr, collector, nil, logger)
		}
	}

	model := ui.New(stateMgr, prop, reload)
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	go runLoadLoop(ctx, ld, prop, stateMgr, collector, p, logger)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runLoadLoop(ctx context.Context, ld *loader, prop *orbit.Propagator, stateMgr *state.Manager, m *metrics.Collector, p *tea.Program, logger *logging.Logger) {
	_ = doLoad(ctx, ld, prop, stateMgr, m, p, logger)

	interval := stateMgr.RefreshInterval()
	if interval <= 0 || !ld.Reloadable() {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Load loop shutting down")
			return
		case <-ticker.C:
			_ = doLoad(ctx, ld, prop, stateMgr, m, p, logger)
		}
	}
}

// doLoad fetches, propagates and publishes one target set. p may be nil.
func doLoad(ctx context.Context, ld *loader, prop *orbit.Propagator, stateMgr *state.Manager, m *metrics.Collector, p *tea.Program, logger *logging.Logger) error {
	logger.Debug("Loading targets from %s", ld.Source())
	start := time.Now()

	targets, err := ld.Load(ctx)
	failed := target.Build(prop, targets, m)
	dur := time.Since(start)

	if err != nil {
		logger.Error("Load failed: %v", err)
	}
	logger.Info("Loaded %d targets (%d rejected) in %v", len(targets), failed, dur.Round(time.Millisecond))

	stateMgr.Update(ld.Source(), targets, dur, err)
	if p != nil {
		if err != nil && len(targets) == 0 {
			p.Send(ui.ErrorMsg{Error: err})
		}
		p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
	}
	return err
}

// runHeadless loads once and writes the requested outputs.
func runHeadless(ctx context.Context, ld *loader, prop *orbit.Propagator, stateMgr *state.Manager, m *metrics.Collector, logger *logging.Logger) error {
	err := doLoad(ctx, ld, prop, stateMgr, m, nil, logger)
	snap := stateMgr.Snapshot()
	if len(snap.Targets) == 0 {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if jsonPath != "" {
		export := report.ExportTargets(snap.Source, snap.Targets, snap.LastLoad, report.Options{IncludePath: withPath})
		if jsonPath == "-" {
			if err := export.WriteJSON(os.Stdout); err != nil {
				return fmt.Errorf("write JSON to stdout: %w", err)
			}
		} else {
			f, err := os.Create(jsonPath)
			if err != nil {
				return fmt.Errorf("create JSON file: %w", err)
			}
			defer f.Close()
			if err := export.WriteJSON(f); err != nil {
				return fmt.Errorf("write JSON to file: %w", err)
			}
		}
	}

	if summaryMode {
		report.WriteSummaryTable(os.Stdout, snap.Source, snap.Targets, snap.LastLoad)
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, c *metrics.Collector, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Metrics server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
