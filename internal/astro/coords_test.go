package astro

import (
	"math"
	"testing"
)

func TestDegToRad(t *testing.T) {
	tests := []struct {
		deg float64
		rad float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{360, 2 * math.Pi},
		{-90, -math.Pi / 2},
	}

	for _, tt := range tests {
		got := DegToRad(tt.deg)
		if math.Abs(got-tt.rad) > 1e-10 {
			t.Errorf("DegToRad(%v) = %v, want %v", tt.deg, got, tt.rad)
		}
		back := RadToDeg(got)
		if math.Abs(back-tt.deg) > 1e-10 {
			t.Errorf("RadToDeg(DegToRad(%v)) = %v", tt.deg, back)
		}
	}
}

func TestNormalizeDeg(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{-30, 330},
		{725, 5},
	}

	for _, tt := range tests {
		got := NormalizeDeg(tt.in)
		if math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRad(t *testing.T) {
	got := NormalizeRad(-math.Pi / 2)
	if math.Abs(got-1.5*math.Pi) > 1e-12 {
		t.Errorf("NormalizeRad(-π/2) = %v, want 3π/2", got)
	}
	if got := NormalizeRad(5 * math.Pi); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("NormalizeRad(5π) = %v, want π", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{92.88, "92.9m"},
		{723, "12h03m"},
		{1436.07, "23h56m"},
		{525949, "365.2d"},
		{-1, "n/a"},
		{math.NaN(), "n/a"},
	}

	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDistanceKm(t *testing.T) {
	if got := FormatDistanceKm(420); got != "420 km" {
		t.Errorf("FormatDistanceKm(420) = %q", got)
	}
	if got := FormatDistanceKm(AU); got != "1.000 AU" {
		t.Errorf("FormatDistanceKm(AU) = %q", got)
	}
}
