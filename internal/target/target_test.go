package target

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/litescript/ls-orbits/internal/feed"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/tle"
)

const (
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func TestFromTLE(t *testing.T) {
	tg := FromTLE(" ISS (ZARYA) ", issLine1, issLine2)
	if tg.Err != nil {
		t.Fatalf("unexpected error: %v", tg.Err)
	}
	if tg.ID != "25544" || tg.Name != "ISS (ZARYA)" || tg.Kind != KindSatellite {
		t.Errorf("target = %q/%q/%v", tg.ID, tg.Name, tg.Kind)
	}
	if tg.Body != orbit.Earth {
		t.Errorf("body = %v, want Earth", tg.Body.Name)
	}
	if tg.OK() {
		t.Error("OK() before Propagate")
	}
}

func TestFromTLEParseFailureKeepsRawText(t *testing.T) {
	short := issLine2[:40]
	tg := FromTLE("BROKEN", issLine1, short)

	if !tg.ParseFailed() {
		t.Fatalf("ParseFailed() = false, err = %v", tg.Err)
	}
	if tg.TLE != nil {
		t.Error("no parsed TLE expected")
	}
	if tg.RawText() != issLine1+"\n"+short {
		t.Errorf("RawText() = %q", tg.RawText())
	}
	if tg.ID != "25544" {
		t.Errorf("ID = %q, want catalog from raw line", tg.ID)
	}

	p := orbit.NewPropagator(orbit.DefaultConfig())
	if err := tg.Propagate(p); !errors.Is(err, tle.ErrShortLine) {
		t.Errorf("Propagate() = %v, want the parse error", err)
	}
	if tg.OK() {
		t.Error("OK() should be false")
	}
}

func TestPropagateSatellite(t *testing.T) {
	tg := FromTLE("ISS", issLine1, issLine2)
	p := orbit.NewPropagator(orbit.Config{Samples: 90})
	if err := tg.Propagate(p); err != nil {
		t.Fatal(err)
	}
	if !tg.OK() || len(tg.Track.Path) != 91 {
		t.Fatalf("track has %d points", len(tg.Track.Path))
	}
	if !scalar.EqualWithinAbs(tg.Track.Quantities.PeriodMinutes, 91.596, 0.01) {
		t.Errorf("period = %v", tg.Track.Quantities.PeriodMinutes)
	}

	g, err := tg.Ground(tg.Elements.Epoch)
	if err != nil {
		t.Fatalf("Ground() error: %v", err)
	}
	if g.AltKm < 300 || g.AltKm > 420 {
		t.Errorf("SGP4 altitude %v", g.AltKm)
	}

	epoch := tg.Elements.Epoch
	pos0, ok := tg.PositionAt(p, epoch)
	if !ok {
		t.Fatal("no position at epoch")
	}
	if pos0.Sub(tg.Track.Position).Norm() > 1e-6 {
		t.Errorf("position at epoch %v differs from track %v", pos0, tg.Track.Position)
	}
	period := time.Duration(tg.Track.Quantities.PeriodMinutes * float64(time.Minute))
	pos1, _ := tg.PositionAt(p, epoch.Add(period))
	if pos1.Sub(pos0).Norm() > 1 {
		t.Errorf("position after one period moved %v km", pos1.Sub(pos0).Norm())
	}
	half, _ := tg.PositionAt(p, epoch.Add(period/2))
	if half.Sub(pos0).Norm() < 10000 {
		t.Errorf("position after half a period only moved %v km", half.Sub(pos0).Norm())
	}
}

func TestGroundUnavailableForTruncatedTLE(t *testing.T) {
	tg := FromTLE("ISS", issLine1, issLine2[:63])
	if err := tg.Propagate(orbit.NewPropagator(orbit.DefaultConfig())); err != nil {
		t.Fatal(err)
	}
	if _, err := tg.Ground(time.Now()); !errors.Is(err, tle.ErrShortLine) {
		t.Errorf("Ground() = %v, want ErrShortLine", err)
	}
}

func TestFromNEO(t *testing.T) {
	neo := &feed.NearEarthObject{ID: "2000433", Name: "433 Eros (A898 PA)"}
	tg := FromNEO(neo)
	if !errors.Is(tg.Err, orbit.ErrInvalidElement) {
		t.Fatalf("empty orbital data err = %v", tg.Err)
	}
	if tg.Kind != KindAsteroid || tg.Body != orbit.Sun || tg.Label() != "433 Eros (A898 PA)" {
		t.Errorf("target = %+v", tg)
	}
	if _, err := tg.Ground(time.Now()); err == nil {
		t.Error("asteroids have no ground track")
	}
}

func TestBuildRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}

	bad := FromParsedTLE(&tle.TLE{Name: "DEGENERATE", CatalogNumber: 1, MeanMotion: 15, Eccentricity: 0.1})
	bad.Elements.Eccentricity = 1.2
	targets := []*Target{
		FromTLE("ISS", issLine1, issLine2),
		FromTLE("SHORT", issLine1, "2 25544"),
		bad,
	}

	failed := Build(orbit.NewPropagator(orbit.DefaultConfig()), targets, m)
	if failed != 2 {
		t.Errorf("Build() failed = %d, want 2", failed)
	}
	if !targets[0].OK() || targets[2].OK() {
		t.Error("unexpected target states after Build")
	}
	if got := testutil.ToFloat64(m.ParseErrors); got != 1 {
		t.Errorf("parse errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Propagations.WithLabelValues("error")); got != 1 {
		t.Errorf("propagation errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Propagations.WithLabelValues("ok")); got != 1 {
		t.Errorf("propagation ok = %v, want 1", got)
	}
}

func TestKindString(t *testing.T) {
	if KindSatellite.String() != "satellite" || KindAsteroid.String() != "asteroid" || Kind(9).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
