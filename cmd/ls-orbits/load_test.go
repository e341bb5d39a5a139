package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/ls-orbits/internal/feed"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/state"
	"github.com/litescript/ls-orbits/internal/target"
)

const (
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func TestLoaderFileKeepsRejectedEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.txt")
	content := strings.Join([]string{
		"ISS (ZARYA)", issLine1, issLine2,
		"CUT", issLine1, issLine2[:40],
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	ld := &loader{tleFile: path, logger: logging.Discard()}
	targets, err := ld.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}
	if !targets[1].ParseFailed() || targets[1].RawText() == "" {
		t.Errorf("rejected entry lost its raw text: %+v", targets[1])
	}
	if ld.Source() != "file:"+path || !ld.Reloadable() {
		t.Errorf("Source() = %q", ld.Source())
	}
}

func TestLoaderSkipInvalid(t *testing.T) {
	content := strings.Join([]string{
		"CUT", issLine1, issLine2[:40],
		"ISS (ZARYA)", issLine1, issLine2,
	}, "\n")
	ld := &loader{
		tleFile:     "-",
		skipInvalid: true,
		stdin:       strings.NewReader(content),
		logger:      logging.Discard(),
	}
	targets, err := ld.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1", len(targets))
	}
	if targets[0].Name != "ISS (ZARYA)" || targets[0].ID != "25544" || targets[0].Err != nil {
		t.Errorf("target = %+v", targets[0])
	}
}

func TestLoaderStdin(t *testing.T) {
	ld := &loader{
		tleFile: "-",
		stdin:   strings.NewReader(issLine1 + "\n" + issLine2 + "\n"),
		logger:  logging.Discard(),
	}
	targets, err := ld.Load(context.Background())
	if err != nil || len(targets) != 1 {
		t.Fatalf("Load() = %d targets, %v", len(targets), err)
	}
	if targets[0].Name != "NORAD 25544" {
		t.Errorf("unnamed entry label = %q", targets[0].Name)
	}
	if ld.Reloadable() || ld.Source() != "file:stdin" {
		t.Errorf("stdin loader: reloadable=%v source=%q", ld.Reloadable(), ld.Source())
	}
}

func TestLoaderPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tle/25544":
			fmt.Fprintf(w, `{"satelliteId": 25544, "name": "ISS (ZARYA)", "date": "2008-09-20T12:25:40+00:00", "line1": %q, "line2": %q}`, issLine1, issLine2)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ld := &loader{
		sats:   []int{25544, 99999},
		tles:   feed.NewTLEClient(feed.WithBaseURL(srv.URL), feed.WithRetries(0)),
		logger: logging.Discard(),
	}
	targets, err := ld.Load(context.Background())
	if len(targets) != 1 || targets[0].ID != "25544" {
		t.Fatalf("got %d targets", len(targets))
	}
	if !errors.Is(err, feed.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound for the missing satellite", err)
	}
	if !strings.Contains(ld.Source(), "norad:99999") {
		t.Errorf("Source() = %q", ld.Source())
	}
}

func TestLoaderNothingConfigured(t *testing.T) {
	ld := &loader{logger: logging.Discard()}
	if _, err := ld.Load(context.Background()); !errors.Is(err, errNoTargets) {
		t.Errorf("error = %v, want errNoTargets", err)
	}
}

func TestDoLoadPublishesState(t *testing.T) {
	ld := &loader{
		tleFile: "-",
		stdin:   strings.NewReader("ISS\n" + issLine1 + "\n" + issLine2 + "\n"),
		logger:  logging.Discard(),
	}
	mgr := state.NewManager(state.DefaultConfig())
	prop := orbit.NewPropagator(orbit.DefaultConfig())

	if err := doLoad(context.Background(), ld, prop, mgr, nil, nil, logging.Discard()); err != nil {
		t.Fatalf("doLoad() error: %v", err)
	}
	snap := mgr.Snapshot()
	if len(snap.Targets) != 1 || !snap.Targets[0].OK() {
		t.Fatalf("snapshot targets = %v", snap.Targets)
	}
	if snap.Targets[0].Kind != target.KindSatellite || snap.Source != "file:stdin" {
		t.Errorf("snapshot = %q/%v", snap.Source, snap.Targets[0].Kind)
	}
}

func TestParseIDs(t *testing.T) {
	got := parseIDs(" 25544, ,20580,")
	if len(got) != 2 || got[0] != "25544" || got[1] != "20580" {
		t.Errorf("parseIDs = %q", got)
	}
	if parseIDs("") != nil {
		t.Error("empty flag should give no IDs")
	}
}
