package orbit

import "math"

// Quantities are human-meaningful scalars derived from orbital elements.
// When Available is false the other fields are zero and must not be shown.
type Quantities struct {
	Available       bool
	PeriodMinutes   float64
	SemiMajorAxisKm float64
	ApoapsisKm      float64 // Distance from the body's center
	PeriapsisKm     float64
	ApoapsisAltKm   float64 // Distance above the body's mean radius
	PeriapsisAltKm  float64
}

// PeriodFromMeanMotion converts revolutions/day to minutes per revolution.
func PeriodFromMeanMotion(revPerDay float64) (float64, error) {
	if err := checkMeanMotion(revPerDay); err != nil {
		return 0, err
	}
	return MinutesPerDay / revPerDay, nil
}

// SemiMajorAxisFromPeriod applies Kepler's third law:
// a = cbrt((T / 2π)² · mu).
func SemiMajorAxisFromPeriod(periodSec, mu float64) float64 {
	t := periodSec / (2 * math.Pi)
	return math.Cbrt(t * t * mu)
}

// SemiMajorAxisFromMeanMotion returns the semi-major axis in km for a mean
// motion in revolutions/day around body.
func SemiMajorAxisFromMeanMotion(revPerDay float64, body Body) (float64, error) {
	period, err := PeriodFromMeanMotion(revPerDay)
	if err != nil {
		return 0, err
	}
	return SemiMajorAxisFromPeriod(period*60, body.MuKm3S2), nil
}

// QuantitiesFromMeanMotion derives period, semi-major axis and apogee/perigee
// altitudes for an Earth orbit with the given mean motion and eccentricity.
// A non-positive or degenerate mean motion yields Quantities{} and an error.
func QuantitiesFromMeanMotion(revPerDay, e float64) (Quantities, error) {
	if err := checkMeanMotion(revPerDay); err != nil {
		return Quantities{}, err
	}
	if err := validateEccentricity(e); err != nil {
		return Quantities{}, err
	}
	period := MinutesPerDay / revPerDay
	a := SemiMajorAxisFromPeriod(period*60, Earth.MuKm3S2)
	return apsides(a, e, period, Earth), nil
}

// QuantitiesFromElements derives quantities from the semi-major axis, using
// the TLE mean motion for the period when one is present.
func QuantitiesFromElements(el Elements, body Body) (Quantities, error) {
	if err := el.Validate(); err != nil {
		return Quantities{}, err
	}
	var period float64
	if el.MeanMotionRevPerDay > 0 {
		period = MinutesPerDay / el.MeanMotionRevPerDay
	} else {
		n := el.MeanMotionRadPerSec(body)
		if n <= 0 {
			return Quantities{}, invalid("gravitational parameter", body.MuKm3S2, "must be positive")
		}
		period = 2 * math.Pi / n / 60
	}
	return apsides(el.SemiMajorAxisKm, el.Eccentricity, period, body), nil
}

func apsides(a, e, periodMin float64, body Body) Quantities {
	apo := a * (1 + e)
	peri := a * (1 - e)
	return Quantities{
		Available:       true,
		PeriodMinutes:   periodMin,
		SemiMajorAxisKm: a,
		ApoapsisKm:      apo,
		PeriapsisKm:     peri,
		ApoapsisAltKm:   apo - body.RadiusKm,
		PeriapsisAltKm:  peri - body.RadiusKm,
	}
}

func checkMeanMotion(revPerDay float64) error {
	switch {
	case math.IsNaN(revPerDay) || math.IsInf(revPerDay, 0):
		return invalid("mean motion", revPerDay, "not a finite number")
	case revPerDay <= 0:
		return invalid("mean motion", revPerDay, "must be positive")
	case revPerDay < MinMeanMotion:
		return invalid("mean motion", revPerDay, "numerically degenerate (too close to 0)")
	}
	return nil
}
