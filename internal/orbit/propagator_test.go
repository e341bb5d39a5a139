package orbit

import (
	"errors"
	"sync"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestNewPropagatorDefaults(t *testing.T) {
	p := NewPropagator(Config{})
	cfg := p.Config()
	if cfg != DefaultConfig() {
		t.Errorf("zero config not defaulted: %+v", cfg)
	}

	p = NewPropagator(Config{Samples: 12, KeplerIterations: 40, Scale: 0.5})
	if cfg := p.Config(); cfg.Samples != 12 || cfg.KeplerIterations != 40 || cfg.Scale != 0.5 {
		t.Errorf("explicit config overridden: %+v", cfg)
	}
}

func TestPropagateTrack(t *testing.T) {
	p := NewPropagator(Config{Samples: 120})
	el := sampleElements[1].el // Molniya

	track, err := p.Propagate(el, Earth)
	if err != nil {
		t.Fatalf("Propagate() error: %v", err)
	}
	if len(track.Path) != 121 {
		t.Errorf("path has %d points, want 121", len(track.Path))
	}
	if !track.HasPosition {
		t.Fatal("expected a position for elements with mean anomaly")
	}
	r := track.Position.Norm()
	a, e := el.SemiMajorAxisKm, el.Eccentricity
	if r < a*(1-e)-1e-6 || r > a*(1+e)+1e-6 {
		t.Errorf("position radius %v outside apsides", r)
	}
	if !track.Quantities.Available {
		t.Error("quantities should be available")
	}
}

func TestPropagateWithoutMeanAnomaly(t *testing.T) {
	p := NewPropagator(DefaultConfig())
	track, err := p.Propagate(sampleElements[2].el, Earth)
	if err != nil {
		t.Fatal(err)
	}
	if track.HasPosition {
		t.Error("position should be absent without mean anomaly")
	}

	if _, err := p.Position(sampleElements[2].el); !errors.Is(err, ErrInvalidElement) {
		t.Errorf("Position() error = %v, want ErrInvalidElement", err)
	}
}

func TestPropagateRejectsInvalid(t *testing.T) {
	p := NewPropagator(DefaultConfig())
	el := sampleElements[0].el
	el.Eccentricity = 1.5

	track, err := p.Propagate(el, Earth)
	if !errors.Is(err, ErrInvalidElement) {
		t.Fatalf("error = %v, want ErrInvalidElement", err)
	}
	if track.Path != nil {
		t.Error("no path should be returned for invalid elements")
	}
}

func TestPositionAtPeriapsis(t *testing.T) {
	p := NewPropagator(DefaultConfig())
	el := Elements{SemiMajorAxisKm: 10000, Eccentricity: 0.2, HasMeanAnomaly: true}

	pos, err := p.Position(el)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(pos.X, 8000, 1e-9) || !scalar.EqualWithinAbs(pos.Y, 0, 1e-9) {
		t.Errorf("periapsis position = %v, want (8000, 0, 0)", pos)
	}
}

func TestPropagatorScale(t *testing.T) {
	const earthRadii = 1 / 6371.0
	p := NewPropagator(Config{Samples: 60, Scale: earthRadii})
	el := Elements{SemiMajorAxisKm: 6371 * 2, Eccentricity: 0, HasMeanAnomaly: true, MeanAnomalyDeg: 30}

	track, err := p.Propagate(el, Earth)
	if err != nil {
		t.Fatal(err)
	}
	for k, pt := range track.Path {
		if !scalar.EqualWithinAbs(pt.Norm(), 2, 1e-9) {
			t.Fatalf("point %d radius %v, want 2 Earth radii", k, pt.Norm())
		}
	}
	if !scalar.EqualWithinAbs(track.Position.Norm(), 2, 1e-9) {
		t.Errorf("position radius %v, want 2", track.Position.Norm())
	}
	// Quantities stay in km regardless of display scale.
	if !scalar.EqualWithinAbs(track.Quantities.SemiMajorAxisKm, 12742, 1e-9) {
		t.Errorf("semi-major axis %v, want km", track.Quantities.SemiMajorAxisKm)
	}
}

func TestPropagateDeterministicConcurrent(t *testing.T) {
	p := NewPropagator(DefaultConfig())
	el := sampleElements[0].el
	want, err := p.Propagate(el, Earth)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Propagate(el, Earth)
			if err != nil {
				errs <- err.Error()
				return
			}
			if got.Position != want.Position || got.Path[17] != want.Path[17] {
				errs <- "propagation not deterministic"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
