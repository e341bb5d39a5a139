package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/orbit"
)

const (
	// DefaultNeoURL is the NASA API root.
	DefaultNeoURL = "https://api.nasa.gov"

	// DemoKey is NASA's shared, heavily rate-limited API key.
	DemoKey = "DEMO_KEY"
)

// number decodes JSON numbers that NeoWs sends as strings.
type number struct {
	value float64
	set   bool
}

var _ json.Unmarshaler = (*number)(nil)

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decode number %s: %w", b, err)
	}
	n.value, n.set = v, true
	return nil
}

// OrbitalData is the orbit_data block of a NeoWs record. Distances are AU,
// angles degrees, mean motion degrees/day.
type OrbitalData struct {
	OrbitID                string `json:"orbit_id"`
	OrbitDeterminationDate string `json:"orbit_determination_date"`

	EpochOsculation   number `json:"epoch_osculation"` // Julian date
	Eccentricity      number `json:"eccentricity"`
	SemiMajorAxis     number `json:"semi_major_axis"`
	Inclination       number `json:"inclination"`
	AscendingNodeLong number `json:"ascending_node_longitude"`
	PerihelionArg     number `json:"perihelion_argument"`
	MeanAnomaly       number `json:"mean_anomaly"`
	MeanMotion        number `json:"mean_motion"`
	OrbitalPeriod     number `json:"orbital_period"` // days

	OrbitClass struct {
		Type        string `json:"orbit_class_type"`
		Description string `json:"orbit_class_description"`
	} `json:"orbit_class"`
}

// NearEarthObject is a NeoWs lookup result.
type NearEarthObject struct {
	ID                   string      `json:"id"`
	Name                 string      `json:"name"`
	Designation          string      `json:"designation"`
	AbsoluteMagnitude    float64     `json:"absolute_magnitude_h"`
	PotentiallyHazardous bool        `json:"is_potentially_hazardous_asteroid"`
	SentryObject         bool        `json:"is_sentry_object"`
	NasaJPLURL           string      `json:"nasa_jpl_url"`
	OrbitalData          OrbitalData `json:"orbital_data"`
}

// Elements converts the osculating elements into heliocentric orbit
// elements in km. Fields missing from the record are reported as invalid.
func (n *NearEarthObject) Elements() (orbit.Elements, error) {
	od := n.OrbitalData
	required := []struct {
		name string
		v    number
	}{
		{"semi-major axis", od.SemiMajorAxis},
		{"eccentricity", od.Eccentricity},
		{"inclination", od.Inclination},
		{"RAAN", od.AscendingNodeLong},
		{"argument of perigee", od.PerihelionArg},
	}
	for _, r := range required {
		if !r.v.set {
			return orbit.Elements{}, &orbit.InvalidElementError{Field: r.name, Value: math.NaN(), Reason: "missing from record"}
		}
	}

	el := orbit.Elements{
		SemiMajorAxisKm: astro.AUToKm(od.SemiMajorAxis.value),
		Eccentricity:    od.Eccentricity.value,
		InclinationDeg:  od.Inclination.value,
		RAANDeg:         od.AscendingNodeLong.value,
		ArgPerigeeDeg:   od.PerihelionArg.value,
	}
	if od.MeanAnomaly.set {
		el.MeanAnomalyDeg = od.MeanAnomaly.value
		el.HasMeanAnomaly = true
	}
	if od.MeanMotion.set && od.MeanMotion.value > 0 {
		el.MeanMotionRevPerDay = od.MeanMotion.value / 360
	}
	if od.EpochOsculation.set {
		el.Epoch = julian.JDToTime(od.EpochOsculation.value)
	}

	if err := el.Validate(); err != nil {
		return orbit.Elements{}, err
	}
	return el, nil
}

// NeoClient looks up asteroids in NASA's NeoWs service.
type NeoClient struct {
	*Client
	apiKey string
}

// NewNeoClient creates a NeoWs client. An empty key uses DemoKey.
func NewNeoClient(apiKey string, opts ...Option) *NeoClient {
	if apiKey == "" {
		apiKey = DemoKey
	}
	return &NeoClient{Client: newClient("neo", DefaultNeoURL, opts...), apiKey: apiKey}
}

// Lookup fetches one object by its NeoWs (SPK) id, e.g. "2000433" for Eros.
func (c *NeoClient) Lookup(ctx context.Context, id string) (*NearEarthObject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("neo: empty object id")
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var neo NearEarthObject
	if err := c.getJSON(ctx, "/neo/rest/v1/neo/"+url.PathEscape(id), q, &neo); err != nil {
		return nil, err
	}
	c.logger.Info("neo %s: %s (%s)", id, neo.Name, neo.OrbitalData.OrbitClass.Type)
	return &neo, nil
}
