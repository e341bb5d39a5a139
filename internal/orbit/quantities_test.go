package orbit

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestQuantitiesFromMeanMotionISS(t *testing.T) {
	q, err := QuantitiesFromMeanMotion(15.50377579, 0.0006703)
	if err != nil {
		t.Fatalf("QuantitiesFromMeanMotion() error: %v", err)
	}
	if !q.Available {
		t.Fatal("quantities should be available")
	}

	if !scalar.EqualWithinAbs(q.PeriodMinutes, 92.87, 0.02) {
		t.Errorf("period = %v min, want ≈92.87", q.PeriodMinutes)
	}
	if !scalar.EqualWithinAbs(q.SemiMajorAxisKm, 6794, 2) {
		t.Errorf("semi-major axis = %v km, want ≈6794", q.SemiMajorAxisKm)
	}
	if q.ApoapsisAltKm <= q.PeriapsisAltKm {
		t.Errorf("apogee %v should exceed perigee %v", q.ApoapsisAltKm, q.PeriapsisAltKm)
	}
	for name, alt := range map[string]float64{"apogee": q.ApoapsisAltKm, "perigee": q.PeriapsisAltKm} {
		if alt < 400 || alt > 440 {
			t.Errorf("%s altitude = %v km, want within 400-440", name, alt)
		}
	}
	if !scalar.EqualWithinAbs(q.ApoapsisKm-q.PeriapsisKm, 2*q.SemiMajorAxisKm*0.0006703, 1e-9) {
		t.Errorf("apsis spread inconsistent with eccentricity")
	}
}

func TestQuantitiesFromMeanMotionGEO(t *testing.T) {
	// One sidereal day gives the geostationary radius.
	q, err := QuantitiesFromMeanMotion(1.0027379, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(q.SemiMajorAxisKm, 42164, 5) {
		t.Errorf("GEO semi-major axis = %v, want ≈42164", q.SemiMajorAxisKm)
	}
}

func TestQuantitiesUnavailable(t *testing.T) {
	for _, n := range []float64{0, -1, 1e-12, math.NaN(), math.Inf(1)} {
		q, err := QuantitiesFromMeanMotion(n, 0.001)
		if err == nil {
			t.Errorf("mean motion %v: expected error", n)
		}
		if !errors.Is(err, ErrInvalidElement) {
			t.Errorf("mean motion %v: error %v is not ErrInvalidElement", n, err)
		}
		if q.Available || q != (Quantities{}) {
			t.Errorf("mean motion %v: got %+v, want zero unavailable result", n, q)
		}
	}
}

func TestPeriodFromMeanMotion(t *testing.T) {
	got, err := PeriodFromMeanMotion(2)
	if err != nil || got != 720 {
		t.Errorf("PeriodFromMeanMotion(2) = %v, %v; want 720", got, err)
	}
	if _, err := PeriodFromMeanMotion(0); err == nil {
		t.Error("PeriodFromMeanMotion(0) should fail")
	}
}

func TestSemiMajorAxisRoundTrip(t *testing.T) {
	// Kepler's third law and the mean-motion helper must agree.
	el := Elements{SemiMajorAxisKm: 7000, Eccentricity: 0.01}
	n := el.MeanMotionRadPerSec(Earth)
	revPerDay := n * 86400 / (2 * math.Pi)

	a, err := SemiMajorAxisFromMeanMotion(revPerDay, Earth)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(a, 7000, 1e-6) {
		t.Errorf("round trip a = %v, want 7000", a)
	}
}

func TestQuantitiesFromElementsHeliocentric(t *testing.T) {
	// 1 AU around the Sun is one sidereal year.
	el := Elements{SemiMajorAxisKm: 149597870.7, Eccentricity: 0.0167}
	q, err := QuantitiesFromElements(el, Sun)
	if err != nil {
		t.Fatal(err)
	}
	days := q.PeriodMinutes / MinutesPerDay
	if !scalar.EqualWithinAbs(days, 365.25, 0.1) {
		t.Errorf("period = %v days, want ≈365.25", days)
	}
	if !scalar.EqualWithinAbs(q.PeriapsisAltKm, q.PeriapsisKm-Sun.RadiusKm, 1e-6) {
		t.Errorf("periapsis altitude not relative to solar radius")
	}
}

func TestQuantitiesFromElementsPrefersMeanMotion(t *testing.T) {
	el := Elements{SemiMajorAxisKm: 6794, Eccentricity: 0.0006703, MeanMotionRevPerDay: 15.5}
	q, err := QuantitiesFromElements(el, Earth)
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(q.PeriodMinutes, MinutesPerDay/15.5, 1e-12) {
		t.Errorf("period = %v, want TLE-derived %v", q.PeriodMinutes, MinutesPerDay/15.5)
	}
}
