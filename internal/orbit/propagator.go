package orbit

import (
	"fmt"

	"github.com/litescript/ls-orbits/internal/astro"
)

// Config controls sampling density, solver budget and output scaling.
type Config struct {
	Samples          int     // Polyline segments; the path has Samples+1 points
	KeplerIterations int     // Fixed-point iterations for Kepler's equation
	Scale            float64 // Multiplier applied to every output point
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Samples:          180,
		KeplerIterations: DefaultKeplerIterations,
		Scale:            1.0,
	}
}

// Track is everything a viewer needs to draw one orbit.
type Track struct {
	Position    astro.Vec3 // Body position; valid only when HasPosition
	HasPosition bool
	Path        []astro.Vec3
	Quantities  Quantities
}

// Propagator is the shared element-to-geometry pipeline. It is immutable
// and safe for concurrent use.
type Propagator struct {
	cfg Config
}

// NewPropagator creates a propagator, filling zero fields from DefaultConfig.
func NewPropagator(cfg Config) *Propagator {
	def := DefaultConfig()
	if cfg.Samples <= 0 {
		cfg.Samples = def.Samples
	}
	if cfg.KeplerIterations <= 0 {
		cfg.KeplerIterations = def.KeplerIterations
	}
	if cfg.Scale == 0 {
		cfg.Scale = def.Scale
	}
	return &Propagator{cfg: cfg}
}

// Config returns the effective configuration.
func (p *Propagator) Config() Config {
	return p.cfg
}

// Position returns the body's instantaneous position for the mean anomaly
// carried in el.
func (p *Propagator) Position(el Elements) (astro.Vec3, error) {
	if err := el.Validate(); err != nil {
		return astro.Vec3{}, err
	}
	if !el.HasMeanAnomaly {
		return astro.Vec3{}, fmt.Errorf("position requires a mean anomaly: %w", ErrInvalidElement)
	}
	m := astro.DegToRad(el.MeanAnomalyDeg)
	nu := TrueAnomaly(m, el.Eccentricity, p.cfg.KeplerIterations)
	i, argp, raan := el.radians()
	pos := PerifocalToInertial(nu, el.SemiMajorAxisKm, el.Eccentricity, i, argp, raan)
	return pos.Scale(p.cfg.Scale), nil
}

// Path samples the closed orbit polyline.
func (p *Propagator) Path(el Elements) ([]astro.Vec3, error) {
	if err := el.Validate(); err != nil {
		return nil, err
	}
	i, argp, raan := el.radians()
	points, err := SampleEllipse(el.SemiMajorAxisKm, el.Eccentricity, i, argp, raan, p.cfg.Samples)
	if err != nil {
		return nil, err
	}
	if p.cfg.Scale != 1 {
		for k := range points {
			points[k] = points[k].Scale(p.cfg.Scale)
		}
	}
	return points, nil
}

// Propagate computes the path, the position when a mean anomaly is known,
// and derived quantities relative to body.
func (p *Propagator) Propagate(el Elements, body Body) (Track, error) {
	path, err := p.Path(el)
	if err != nil {
		return Track{}, err
	}

	track := Track{Path: path}
	if el.HasMeanAnomaly {
		pos, err := p.Position(el)
		if err != nil {
			return Track{}, err
		}
		track.Position = pos
		track.HasPosition = true
	}

	q, err := QuantitiesFromElements(el, body)
	if err != nil {
		return Track{}, err
	}
	track.Quantities = q
	return track, nil
}
