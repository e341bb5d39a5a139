package tle

import (
	"errors"
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/litescript/ls-orbits/internal/astro"
)

// ErrPropagation is returned when SGP4 produces no usable state.
var ErrPropagation = errors.New("sgp4 propagation failed")

// Geodetic is a sub-satellite point with the inertial position it came from.
type Geodetic struct {
	Time     time.Time
	LatDeg   float64
	LonDeg   float64
	AltKm    float64
	SpeedKmS float64
	ECI      astro.Vec3 // TEME, km
}

// SGP4 propagates a full-width element set with the perturbed SGP4/SDP4
// model. It complements the two-body ellipse with a ground-track fix.
type SGP4 struct {
	sat     satellite.Satellite
	catalog int
}

// NewSGP4 initializes SGP4 from t. Both lines must be full width with valid
// checksums; go-satellite exits the process on malformed input, so nothing
// else is passed through.
func NewSGP4(t *TLE) (*SGP4, error) {
	if !t.Full() {
		return nil, fmt.Errorf("sgp4 for %d: %w: need %d columns", t.CatalogNumber, ErrShortLine, LineLength)
	}
	if err := t.VerifyChecksums(); err != nil {
		return nil, fmt.Errorf("sgp4 for %d: %w", t.CatalogNumber, err)
	}

	sat := satellite.TLEToSat(t.Line1[:LineLength], t.Line2[:LineLength], satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("sgp4 init for %d: code=%d %s: %w", t.CatalogNumber, sat.Error, sat.ErrorStr, ErrPropagation)
	}
	return &SGP4{sat: sat, catalog: t.CatalogNumber}, nil
}

// At returns the sub-satellite point at when. Times are truncated to whole
// seconds.
func (s *SGP4) At(when time.Time) (Geodetic, error) {
	when = when.UTC()
	year, month, day := when.Date()
	hour, min, sec := when.Clock()

	pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
	eci := astro.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z}
	if !eci.IsFinite() || eci.Norm() == 0 {
		return Geodetic{}, fmt.Errorf("%w for %d at %s", ErrPropagation, s.catalog, when.Format(time.RFC3339))
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	alt, speed, ll := satellite.ECIToLLA(pos, gmst)

	// ECIToLLA returns radians; longitude is folded into [-180, 180).
	lon := math.Mod(astro.RadToDeg(ll.Longitude), 360)
	if lon >= 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return Geodetic{
		Time:     when,
		LatDeg:   astro.RadToDeg(ll.Latitude),
		LonDeg:   lon,
		AltKm:    alt,
		SpeedKmS: speed,
		ECI:      eci,
	}, nil
}
