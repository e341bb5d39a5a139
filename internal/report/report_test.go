package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-orbits/internal/orbit"
	"github.com/litescript/ls-orbits/internal/target"
)

const (
	issLine1 = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issLine2 = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
)

func loadTargets(t *testing.T) []*target.Target {
	t.Helper()
	targets := []*target.Target{
		target.FromTLE("ISS (ZARYA)", issLine1, issLine2),
		target.FromTLE("TRUNCATED", issLine1, issLine2[:40]),
	}
	target.Build(orbit.NewPropagator(orbit.Config{Samples: 8}), targets, nil)
	return targets
}

func TestExportTargets(t *testing.T) {
	targets := loadTargets(t)
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	export := ExportTargets("file", targets, at, Options{IncludePath: true})
	if export.GeneratedAt != at || export.Source != "file" {
		t.Errorf("header = %v/%q", export.GeneratedAt, export.Source)
	}
	if len(export.Targets) != 2 {
		t.Fatalf("Targets count = %d, want 2", len(export.Targets))
	}

	iss := export.Targets[0]
	if iss.Kind != "satellite" || iss.ID != "25544" || iss.Body != "Earth" {
		t.Errorf("iss = %+v", iss)
	}
	if iss.Elements == nil || iss.Elements.MeanAnomaly == nil || *iss.Elements.MeanAnomaly != 325.0288 {
		t.Errorf("elements = %+v", iss.Elements)
	}
	if iss.Quantities == nil || iss.Quantities.PeriodMinutes < 91 || iss.Quantities.PeriodMinutes > 92 {
		t.Errorf("quantities = %+v", iss.Quantities)
	}
	if len(iss.Path) != 9 || iss.Path[0] != iss.Path[8] {
		t.Errorf("path has %d points or does not close", len(iss.Path))
	}
	if iss.Position == nil {
		t.Error("position missing")
	}

	bad := export.Targets[1]
	if bad.Error == "" || len(bad.RawTLE) != 2 || bad.Elements != nil {
		t.Errorf("unparseable target = %+v", bad)
	}
}

func TestExportWithoutPath(t *testing.T) {
	export := ExportTargets("x", loadTargets(t), time.Now(), Options{})
	if export.Targets[0].Path != nil {
		t.Error("path exported without IncludePath")
	}
}

func TestWriteJSON(t *testing.T) {
	export := ExportTargets("file", loadTargets(t), time.Now(), Options{})

	var buf bytes.Buffer
	if err := export.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{`"semi_major_axis_km"`, `"period_minutes"`, `"raw_tle"`, `"central_body": "Earth"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("JSON missing %s", key)
		}
	}
}

func TestGenerateSummaryRows(t *testing.T) {
	rows := GenerateSummaryRows(loadTargets(t))
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Status != "ok" || rows[0].Period != "91.6m" || rows[0].Incl != "51.64°" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Status != "unparseable" || rows[1].Period != "-" {
		t.Errorf("row 1 = %+v", rows[1])
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2025, 1, 25, 12, 0, 0, 0, time.UTC)
	WriteSummaryTable(&buf, "catalog.txt", loadTargets(t), ts)

	out := buf.String()
	for _, want := range []string{
		"Orbits: catalog.txt @ 2025-01-25T12:00:00Z",
		"ISS (ZARYA)",
		"Total: 2 targets, 1 propagated",
		"TRUNCATED: tle line 2",
		issLine2[:40],
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, "search", nil, time.Now())
	if !strings.Contains(buf.String(), "No targets") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is .."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
