package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// SunPosition returns the Sun's apparent right ascension and declination in
// degrees.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	ra, dec := solar.ApparentEquatorial(julian.TimeToJD(t.UTC()))
	return NormalizeDeg(RadToDeg(ra.Rad())), RadToDeg(dec.Rad())
}

// SunDirection returns the unit vector from Earth toward the Sun in the
// equatorial inertial frame.
func SunDirection(t time.Time) Vec3 {
	raDeg, decDeg := SunPosition(t)
	return Star{RAdeg: raDeg, DecDeg: decDeg}.Direction()
}

// InShadow reports whether pos (km, Earth-centered inertial) lies inside
// Earth's cylindrical shadow for a Sun along sunDir.
func InShadow(pos, sunDir Vec3, radiusKm float64) bool {
	along := pos.Dot(sunDir.Normalized())
	if along >= 0 {
		return false
	}
	perp := pos.Sub(sunDir.Normalized().Scale(along))
	return perp.Norm() < radiusKm
}

// AngularSeparation is the great-circle angle between two directions, in
// degrees.
func AngularSeparation(a, b Vec3) float64 {
	c := a.Normalized().Dot(b.Normalized())
	c = math.Max(-1, math.Min(1, c))
	return RadToDeg(math.Acos(c))
}
