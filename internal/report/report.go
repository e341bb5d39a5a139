// Package report renders loaded targets for headless output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-orbits/internal/astro"
	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/target"
)

// Export is the JSON-serializable representation of a target set.
type Export struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Source      string         `json:"source,omitempty"`
	Targets     []TargetExport `json:"targets"`
}

// TargetExport is a JSON-friendly target with derived fields.
type TargetExport struct {
	Kind       string            `json:"kind"`
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Body       string            `json:"central_body"`
	Error      string            `json:"error,omitempty"`
	RawTLE     []string          `json:"raw_tle,omitempty"`
	Elements   *ElementsExport   `json:"elements,omitempty"`
	Quantities *QuantitiesExport `json:"quantities,omitempty"`
	Position   *[3]float64       `json:"position_km,omitempty"`
	Path       [][3]float64      `json:"path_km,omitempty"`
}

// ElementsExport holds elements in degrees and km.
type ElementsExport struct {
	Epoch          *time.Time `json:"epoch,omitempty"`
	SemiMajorAxis  float64    `json:"semi_major_axis_km"`
	Eccentricity   float64    `json:"eccentricity"`
	Inclination    float64    `json:"inclination_deg"`
	RAAN           float64    `json:"raan_deg"`
	ArgPerigee     float64    `json:"arg_perigee_deg"`
	MeanAnomaly    *float64   `json:"mean_anomaly_deg,omitempty"`
	MeanMotionRevD float64    `json:"mean_motion_rev_per_day,omitempty"`
}

// QuantitiesExport holds derived scalars.
type QuantitiesExport struct {
	PeriodMinutes  float64 `json:"period_minutes"`
	ApoapsisAltKm  float64 `json:"apoapsis_altitude_km"`
	PeriapsisAltKm float64 `json:"periapsis_altitude_km"`
}

// Options controls what goes into an export.
type Options struct {
	IncludePath bool
}

// ExportTargets converts targets to an exportable format.
func ExportTargets(source string, targets []*target.Target, generatedAt time.Time, opts Options) *Export {
	export := &Export{
		GeneratedAt: generatedAt,
		Source:      source,
		Targets:     make([]TargetExport, 0, len(targets)),
	}

	for _, t := range targets {
		te := TargetExport{
			Kind: t.Kind.String(),
			ID:   t.ID,
			Name: t.Name,
			Body: t.Body.Name,
		}
		if t.Err != nil {
			te.Error = t.Err.Error()
			if t.ParseFailed() {
				te.RawTLE = []string{t.Line1, t.Line2}
			}
			export.Targets = append(export.Targets, te)
			continue
		}

		te.Elements = exportElements(t.Elements)
		if q := t.Track.Quantities; q.Available {
			te.Quantities = &QuantitiesExport{
				PeriodMinutes:  q.PeriodMinutes,
				ApoapsisAltKm:  q.ApoapsisAltKm,
				PeriapsisAltKm: q.PeriapsisAltKm,
			}
		}
		if t.Track.HasPosition {
			p := vec(t.Track.Position)
			te.Position = &p
		}
		if opts.IncludePath {
			te.Path = make([][3]float64, len(t.Track.Path))
			for i, pt := range t.Track.Path {
				te.Path[i] = vec(pt)
			}
		}
		export.Targets = append(export.Targets, te)
	}
	return export
}

func exportElements(el orbit.Elements) *ElementsExport {
	out := &ElementsExport{
		SemiMajorAxis:  el.SemiMajorAxisKm,
		Eccentricity:   el.Eccentricity,
		Inclination:    el.InclinationDeg,
		RAAN:           el.RAANDeg,
		ArgPerigee:     el.ArgPerigeeDeg,
		MeanMotionRevD: el.MeanMotionRevPerDay,
	}
	if !el.Epoch.IsZero() {
		e := el.Epoch.UTC()
		out.Epoch = &e
	}
	if el.HasMeanAnomaly {
		m := el.MeanAnomalyDeg
		out.MeanAnomaly = &m
	}
	return out
}

func vec(v astro.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// WriteJSON writes the export as indented JSON to the given writer.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Kind      string
	ID        string
	Name      string
	Incl      string
	Ecc       string
	Period    string
	Apoapsis  string
	Periapsis string
	Status    string
}

// GenerateSummaryRows creates summary rows from targets.
func GenerateSummaryRows(targets []*target.Target) []SummaryRow {
	var rows []SummaryRow
	for _, t := range targets {
		r := SummaryRow{
			Kind:      t.Kind.String(),
			ID:        t.ID,
			Name:      t.Label(),
			Incl:      "-",
			Ecc:       "-",
			Period:    "-",
			Apoapsis:  "-",
			Periapsis: "-",
			Status:    "ok",
		}
		switch {
		case t.ParseFailed():
			r.Status = "unparseable"
		case t.Err != nil:
			r.Status = "invalid"
		}
		if t.Err == nil {
			r.Incl = fmt.Sprintf("%.2f°", t.Elements.InclinationDeg)
			r.Ecc = fmt.Sprintf("%.5f", t.Elements.Eccentricity)
		}
		if q := t.Track.Quantities; q.Available {
			r.Period = astro.FormatMinutes(q.PeriodMinutes)
			r.Apoapsis = astro.FormatDistanceKm(q.ApoapsisAltKm)
			r.Periapsis = astro.FormatDistanceKm(q.PeriapsisAltKm)
		}
		rows = append(rows, r)
	}
	return rows
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, source string, targets []*target.Target, timestamp time.Time) {
	rows := GenerateSummaryRows(targets)

	fmt.Fprintf(w, "Orbits: %s @ %s\n", source, timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 100))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No targets")
		return
	}

	// Header
	fmt.Fprintf(w, "%-9s %-8s %-22s %-8s %-8s %-9s %-12s %-12s %-11s\n",
		"Kind", "ID", "Name", "Incl", "Ecc", "Period", "Apoapsis", "Periapsis", "Status")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	ok := 0
	for _, r := range rows {
		if r.Status == "ok" {
			ok++
		}
		fmt.Fprintf(w, "%-9s %-8s %-22s %-8s %-8s %-9s %-12s %-12s %-11s\n",
			r.Kind,
			truncateStr(r.ID, 8),
			truncateStr(r.Name, 22),
			r.Incl,
			r.Ecc,
			r.Period,
			r.Apoapsis,
			r.Periapsis,
			r.Status,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d targets, %d propagated\n", len(rows), ok)

	// Unparseable records are shown raw so nothing is silently lost.
	for _, t := range targets {
		if t.ParseFailed() {
			fmt.Fprintf(w, "\n%s: %v\n%s\n", t.Label(), t.Err, t.RawText())
		}
	}
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
