// Package orbit turns classical orbital elements into 3D positions, sampled
// orbit polylines and derived scalar quantities.
//
// All functions are pure. Angles are accepted in degrees on Elements and
// converted to radians internally; lengths are kilometers throughout.
package orbit

import (
	"math"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
)

// Body is the central body an orbit is referenced to.
type Body struct {
	Name     string
	MuKm3S2  float64 // Gravitational parameter
	RadiusKm float64 // Mean radius, used for altitude conversion
}

// Earth is the default central body.
var Earth = Body{Name: "Earth", MuKm3S2: 398600.4418, RadiusKm: 6371}

// Sun is used for heliocentric small-body orbits.
var Sun = Body{Name: "Sun", MuKm3S2: 1.32712440018e11, RadiusKm: 695700}

const (
	// MinutesPerDay converts revolutions/day into a period.
	MinutesPerDay = 1440.0

	// MaxEccentricity is the largest eccentricity treated as a usable closed
	// orbit. Above it the periapsis radius collapses and sampled points lose
	// all precision.
	MaxEccentricity = 1 - 1e-9

	// MinMeanMotion is the smallest mean motion (rev/day) accepted for period
	// derivation. Anything slower yields periods beyond float precision use.
	MinMeanMotion = 1e-9
)

// Elements is a set of classical orbital elements.
type Elements struct {
	SemiMajorAxisKm float64
	Eccentricity    float64
	InclinationDeg  float64
	RAANDeg         float64
	ArgPerigeeDeg   float64

	// MeanAnomalyDeg is only meaningful when HasMeanAnomaly is set.
	MeanAnomalyDeg float64
	HasMeanAnomaly bool

	// MeanMotionRevPerDay is set when elements come from a TLE. Zero means
	// unknown.
	MeanMotionRevPerDay float64

	Epoch time.Time
}

// Validate checks that the elements describe a closed, finite ellipse.
func (el Elements) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"semi-major axis", el.SemiMajorAxisKm},
		{"eccentricity", el.Eccentricity},
		{"inclination", el.InclinationDeg},
		{"RAAN", el.RAANDeg},
		{"argument of perigee", el.ArgPerigeeDeg},
		{"mean anomaly", el.MeanAnomalyDeg},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.name, f.v, "not a finite number")
		}
	}
	if el.SemiMajorAxisKm <= 0 {
		return invalid("semi-major axis", el.SemiMajorAxisKm, "must be positive")
	}
	return validateEccentricity(el.Eccentricity)
}

func validateEccentricity(e float64) error {
	switch {
	case math.IsNaN(e):
		return invalid("eccentricity", e, "not a finite number")
	case e < 0:
		return invalid("eccentricity", e, "must be non-negative")
	case e >= 1:
		return invalid("eccentricity", e, "open (parabolic or hyperbolic) orbits are not supported")
	case e > MaxEccentricity:
		return invalid("eccentricity", e, "numerically degenerate (too close to 1)")
	}
	return nil
}

// radians returns the orientation angles in radians: i, ω, Ω.
func (el Elements) radians() (i, argp, raan float64) {
	return astro.DegToRad(el.InclinationDeg),
		astro.DegToRad(el.ArgPerigeeDeg),
		astro.DegToRad(el.RAANDeg)
}

// MeanMotionRadPerSec returns n = sqrt(mu / a³) for the given body.
func (el Elements) MeanMotionRadPerSec(body Body) float64 {
	a := el.SemiMajorAxisKm
	if a <= 0 || body.MuKm3S2 <= 0 {
		return 0
	}
	return math.Sqrt(body.MuKm3S2 / (a * a * a))
}

// Advance returns a copy with the mean anomaly moved forward by dt using
// two-body motion. Elements without a mean anomaly are returned unchanged.
func (el Elements) Advance(dt time.Duration, body Body) Elements {
	if !el.HasMeanAnomaly {
		return el
	}
	n := el.MeanMotionRadPerSec(body)
	if el.MeanMotionRevPerDay > 0 {
		n = el.MeanMotionRevPerDay * 2 * math.Pi / 86400
	}
	out := el
	m := astro.DegToRad(el.MeanAnomalyDeg) + n*dt.Seconds()
	out.MeanAnomalyDeg = astro.RadToDeg(astro.NormalizeRad(m))
	if !el.Epoch.IsZero() {
		out.Epoch = el.Epoch.Add(dt)
	}
	return out
}
