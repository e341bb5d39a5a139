package tle

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestSGP4AtEpoch(t *testing.T) {
	tle, err := Parse(issLine1, issLine2)
	if err != nil {
		t.Fatal(err)
	}
	prop, err := NewSGP4(tle)
	if err != nil {
		t.Fatalf("NewSGP4() error: %v", err)
	}

	for _, offset := range []time.Duration{0, 30 * time.Minute, 6 * time.Hour} {
		g, err := prop.At(tle.EpochTime().Add(offset))
		if err != nil {
			t.Fatalf("At(+%v) error: %v", offset, err)
		}
		if g.AltKm < 300 || g.AltKm > 420 {
			t.Errorf("At(+%v) altitude = %.1f km, want ISS-like", offset, g.AltKm)
		}
		if math.Abs(g.LatDeg) > 52 {
			t.Errorf("At(+%v) latitude %.2f exceeds inclination", offset, g.LatDeg)
		}
		if g.LonDeg < -180 || g.LonDeg >= 180 {
			t.Errorf("At(+%v) longitude %.2f out of range", offset, g.LonDeg)
		}
		if g.SpeedKmS < 7.4 || g.SpeedKmS > 7.9 {
			t.Errorf("At(+%v) speed = %.3f km/s", offset, g.SpeedKmS)
		}
		if r := g.ECI.Norm(); r < 6600 || r > 6850 {
			t.Errorf("At(+%v) ECI radius = %.1f km", offset, r)
		}
	}
}

func TestNewSGP4RejectsTruncated(t *testing.T) {
	tle, err := Parse(issLine1, issShortLine2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSGP4(tle); !errors.Is(err, ErrShortLine) {
		t.Errorf("NewSGP4() error = %v, want ErrShortLine", err)
	}
}

func TestNewSGP4RejectsBadChecksum(t *testing.T) {
	tle, err := Parse(issLine1[:68]+"0", issLine2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewSGP4(tle); !errors.Is(err, ErrChecksum) {
		t.Errorf("NewSGP4() error = %v, want ErrChecksum", err)
	}
}
