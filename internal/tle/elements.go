package tle

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/litescript/ls-orbits/internal/orbit"
)

// Elements converts the TLE into classical elements around Earth. The
// semi-major axis comes from the mean motion by Kepler's third law; the
// mean anomaly is always present.
func (t *TLE) Elements() (orbit.Elements, error) {
	a, err := orbit.SemiMajorAxisFromMeanMotion(t.MeanMotion, orbit.Earth)
	if err != nil {
		return orbit.Elements{}, err
	}
	el := orbit.Elements{
		SemiMajorAxisKm:     a,
		Eccentricity:        t.Eccentricity,
		InclinationDeg:      t.Inclination,
		RAANDeg:             t.RAAN,
		ArgPerigeeDeg:       t.ArgPerigee,
		MeanAnomalyDeg:      t.MeanAnomaly,
		HasMeanAnomaly:      true,
		MeanMotionRevPerDay: t.MeanMotion,
		Epoch:               t.EpochTime(),
	}
	if err := el.Validate(); err != nil {
		return orbit.Elements{}, err
	}
	return el, nil
}

// Quantities derives period, semi-major axis and apsis altitudes from the
// mean motion and eccentricity.
func (t *TLE) Quantities() (orbit.Quantities, error) {
	return orbit.QuantitiesFromMeanMotion(t.MeanMotion, t.Eccentricity)
}

// EpochTime returns the element set epoch in UTC.
func (t *TLE) EpochTime() time.Time {
	start := time.Date(t.EpochYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	// Day 1.0 is midnight on January 1.
	offset := (t.EpochDay - 1) * 24 * float64(time.Hour)
	return start.Add(time.Duration(offset))
}

// JulianDate returns the epoch as a Julian date.
func (t *TLE) JulianDate() float64 {
	return julian.TimeToJD(t.EpochTime())
}

// Age returns how old the element set is at now.
func (t *TLE) Age(now time.Time) time.Duration {
	return now.Sub(t.EpochTime())
}

// Checksum computes the modulo-10 checksum of the first 68 columns of a
// line: digits count their value, minus signs count one.
func Checksum(line string) int {
	n := len(line)
	if n > LineLength-1 {
		n = LineLength - 1
	}
	sum := 0
	for i := 0; i < n; i++ {
		c := line[i]
		switch {
		case c >= '0' && c <= '9':
			sum += int(c - '0')
		case c == '-':
			sum++
		}
	}
	return sum % 10
}

// VerifyChecksums checks both lines against their trailing checksum digit.
// Truncated lines carry no checksum and fail with ErrShortLine.
func (t *TLE) VerifyChecksums() error {
	for i, line := range []string{t.Line1, t.Line2} {
		n := i + 1
		want := t.Checksum1
		if n == 2 {
			want = t.Checksum2
		}
		if want < 0 {
			return &ParseError{Line: n, Field: "checksum", Err: fmt.Errorf("%w: no checksum column", ErrShortLine)}
		}
		if got := Checksum(line); got != want {
			return &ParseError{
				Line:    n,
				Field:   "checksum",
				Columns: "69-69",
				Value:   line[LineLength-1 : LineLength],
				Err:     fmt.Errorf("%w: computed %d", ErrChecksum, got),
			}
		}
	}
	return nil
}
