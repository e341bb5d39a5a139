// Package astro provides vector math, unit conversion and view projection
// shared by the orbit propagator and the terminal renderer.
package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the vector product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// View is a camera orientation looking at the origin.
// Yaw turns around the inertial Z axis, pitch tilts the camera toward the
// orbital plane. Yaw=0, Pitch=90 is a straight top-down view.
type View struct {
	YawDeg   float64
	PitchDeg float64
}

// DefaultView returns a tilted three-quarter view that shows inclination.
func DefaultView() View {
	return View{YawDeg: 30, PitchDeg: 60}
}

// TopDownView looks straight down the +Z axis.
func TopDownView() View {
	return View{YawDeg: 0, PitchDeg: 90}
}

// ProjectedPoint represents a 2D projected position with metadata.
type ProjectedPoint struct {
	X     float64 // Screen X (right), same units as input
	Y     float64 // Screen Y (up), same units as input
	Depth float64 // Distance toward the camera; larger is nearer
}

// Project maps a 3D point to the camera's image plane using an
// orthographic projection.
func Project(v Vec3, view View) ProjectedPoint {
	yaw := DegToRad(view.YawDeg)
	// Pitch 90 means looking down -Z; tilt is measured from the top-down pose.
	tilt := DegToRad(90 - view.PitchDeg)

	cy, sy := math.Cos(yaw), math.Sin(yaw)
	x1 := v.X*cy + v.Y*sy
	y1 := -v.X*sy + v.Y*cy
	z1 := v.Z

	ct, st := math.Cos(tilt), math.Sin(tilt)
	y2 := y1*ct + z1*st
	z2 := -y1*st + z1*ct

	return ProjectedPoint{X: x1, Y: y2, Depth: z2}
}

// Extent returns the largest absolute projected coordinate over points,
// which callers use to fit a polyline into a viewport.
func Extent(points []Vec3, view View) float64 {
	var maxAbs float64
	for _, p := range points {
		proj := Project(p, view)
		if a := math.Abs(proj.X); a > maxAbs {
			maxAbs = a
		}
		if a := math.Abs(proj.Y); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// KmToAU converts kilometers to Astronomical Units.
func KmToAU(km float64) float64 {
	return km / AU
}

// AUToKm converts Astronomical Units to kilometers.
func AUToKm(au float64) float64 {
	return au * AU
}
