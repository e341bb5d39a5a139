package orbit

import (
	"math"

	"github.com/litescript/ls-orbits/internal/astro"
)

// Radius evaluates the orbit's polar equation r = a(1-e²)/(1+e·cosθ).
func Radius(a, e, theta float64) float64 {
	return a * (1 - e*e) / (1 + e*math.Cos(theta))
}

// PerifocalToInertial places the point at true anomaly theta on the ellipse
// (a, e) and rotates it by ω in-plane, i about the node line and Ω about
// the inertial Z axis. All angles are radians; output has a's length unit.
func PerifocalToInertial(theta, a, e, incl, argp, raan float64) astro.Vec3 {
	r := Radius(a, e, theta)
	xOrb := r * math.Cos(theta)
	yOrb := r * math.Sin(theta)

	cw, sw := math.Cos(argp), math.Sin(argp)
	cO, sO := math.Cos(raan), math.Sin(raan)
	ci, si := math.Cos(incl), math.Sin(incl)

	return astro.Vec3{
		X: xOrb*(cw*cO-sw*sO*ci) - yOrb*(sw*cO+cw*sO*ci),
		Y: xOrb*(cw*sO+sw*cO*ci) - yOrb*(sw*sO-cw*cO*ci),
		Z: xOrb*sw*si + yOrb*cw*si,
	}
}

// SampleEllipse returns n+1 points evenly spaced in true anomaly over
// [0, 2π]. The final point is the first point repeated, so the polyline
// closes exactly.
func SampleEllipse(a, e, incl, argp, raan float64, n int) ([]astro.Vec3, error) {
	if math.IsNaN(a) || a <= 0 {
		return nil, invalid("semi-major axis", a, "must be positive")
	}
	if err := validateEccentricity(e); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, invalid("sample count", float64(n), "must be at least 1")
	}

	points := make([]astro.Vec3, n+1)
	step := 2 * math.Pi / float64(n)
	for k := 0; k < n; k++ {
		points[k] = PerifocalToInertial(float64(k)*step, a, e, incl, argp, raan)
	}
	// cos(2π) and sin(2π) are not exactly 1 and 0 in floating point.
	points[n] = points[0]
	return points, nil
}
