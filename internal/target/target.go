// Package target joins raw upstream records, parsed elements and the
// propagated track for one object the user can select.
package target

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/feed"
	"github.com/litescript/ls-orbits/internal/metrics"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/tle"
)

// Kind identifies where a target's elements came from.
type Kind int

const (
	KindSatellite Kind = iota // Earth orbit from a TLE
	KindAsteroid              // Heliocentric orbit from NeoWs
)

func (k Kind) String() string {
	switch k {
	case KindSatellite:
		return "satellite"
	case KindAsteroid:
		return "asteroid"
	default:
		return "unknown"
	}
}

// Target is one selectable object. It is built once and not modified after
// Build returns, so snapshots may share it.
type Target struct {
	Kind  Kind
	ID    string // NORAD catalog number or NeoWs id
	Name  string
	Class string // Orbit class for asteroids, e.g. "AMO"

	// Raw TLE text, kept so an unparseable record can still be shown.
	Line1 string
	Line2 string

	TLE      *tle.TLE // nil for asteroids and unparseable TLEs
	Elements orbit.Elements
	Body     orbit.Body
	Track    orbit.Track

	// Err is the parse or propagation failure, if any. A target with Err
	// set has no usable Track.
	Err error

	sgp4    *tle.SGP4
	sgp4Err error
}

// FromTLE parses raw TLE lines into a target. Parse failures are recorded
// on the target rather than returned.
func FromTLE(name, line1, line2 string) *Target {
	t := &Target{
		Kind:  KindSatellite,
		Name:  strings.TrimSpace(name),
		Line1: line1,
		Line2: line2,
		Body:  orbit.Earth,
	}
	parsed, err := tle.Parse(line1, line2)
	if err != nil {
		t.Err = err
		if len(line1) >= 7 {
			t.ID = strings.TrimSpace(line1[2:7])
		}
		return t
	}
	parsed.Name = t.Name
	t.setTLE(parsed)
	return t
}

// FromParsedTLE wraps an already decoded element set.
func FromParsedTLE(p *tle.TLE) *Target {
	t := &Target{
		Kind:  KindSatellite,
		Name:  p.Name,
		Line1: p.Line1,
		Line2: p.Line2,
		Body:  orbit.Earth,
	}
	t.setTLE(p)
	return t
}

// FromRecord builds a target from a TLE API record.
func FromRecord(r feed.TLERecord) *Target {
	t := FromTLE(r.Name, r.Line1, r.Line2)
	if t.ID == "" && r.SatelliteID > 0 {
		t.ID = strconv.Itoa(r.SatelliteID)
	}
	return t
}

func (t *Target) setTLE(p *tle.TLE) {
	t.TLE = p
	t.ID = strconv.Itoa(p.CatalogNumber)
	if t.Name == "" {
		t.Name = "NORAD " + t.ID
	}
	el, err := p.Elements()
	if err != nil {
		t.Err = err
		return
	}
	t.Elements = el
}

// FromNEO builds a heliocentric target from a NeoWs record.
func FromNEO(n *feed.NearEarthObject) *Target {
	t := &Target{
		Kind:  KindAsteroid,
		ID:    n.ID,
		Name:  n.Name,
		Class: n.OrbitalData.OrbitClass.Type,
		Body:  orbit.Sun,
	}
	el, err := n.Elements()
	if err != nil {
		t.Err = err
		return t
	}
	t.Elements = el
	return t
}

// OK reports whether the target has a drawable track.
func (t *Target) OK() bool {
	return t.Err == nil && len(t.Track.Path) > 0
}

// ParseFailed reports whether the raw TLE text could not be decoded.
func (t *Target) ParseFailed() bool {
	var pe *tle.ParseError
	return errors.As(t.Err, &pe)
}

// RawText returns the original TLE lines.
func (t *Target) RawText() string {
	if t.Line1 == "" && t.Line2 == "" {
		return ""
	}
	return t.Line1 + "\n" + t.Line2
}

// Label is a short display name.
func (t *Target) Label() string {
	if t.Name != "" {
		return t.Name
	}
	if t.ID != "" {
		return t.Kind.String() + " " + t.ID
	}
	return "(unnamed)"
}

// Propagate computes the track with p. Any failure is stored in Err.
func (t *Target) Propagate(p *orbit.Propagator) error {
	if t.Err != nil {
		return t.Err
	}
	track, err := p.Propagate(t.Elements, t.Body)
	if err != nil {
		t.Err = fmt.Errorf("propagate %s: %w", t.Label(), err)
		return t.Err
	}
	t.Track = track

	if t.TLE != nil {
		t.sgp4, t.sgp4Err = tle.NewSGP4(t.TLE)
	}
	return nil
}

// PositionAt returns the two-body position at when, advancing the mean
// anomaly from the element epoch.
func (t *Target) PositionAt(p *orbit.Propagator, when time.Time) (astro.Vec3, bool) {
	if !t.OK() || !t.Elements.HasMeanAnomaly {
		return astro.Vec3{}, false
	}
	el := t.Elements
	if !el.Epoch.IsZero() {
		el = el.Advance(when.Sub(el.Epoch), t.Body)
	}
	pos, err := p.Position(el)
	if err != nil {
		return astro.Vec3{}, false
	}
	return pos, true
}

// Ground returns the SGP4 sub-satellite point at when. It is only available
// for satellites with full-width TLE lines.
func (t *Target) Ground(when time.Time) (tle.Geodetic, error) {
	if t.sgp4 == nil {
		if t.sgp4Err != nil {
			return tle.Geodetic{}, t.sgp4Err
		}
		return tle.Geodetic{}, fmt.Errorf("%s: no SGP4 model", t.Label())
	}
	return t.sgp4.At(when)
}

// Build propagates every target with p and records the outcome in m, which
// may be nil. It returns how many targets failed.
func Build(p *orbit.Propagator, targets []*Target, m *metrics.Collector) int {
	failed := 0
	for _, t := range targets {
		if t.ParseFailed() {
			m.ParseFailed()
			failed++
			continue
		}
		start := time.Now()
		err := t.Propagate(p)
		m.ObservePropagation(err, time.Since(start))
		if err != nil {
			failed++
		}
	}
	return failed
}
