// Package tle decodes NORAD two-line element sets.
package tle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// LineLength is the standard width of a TLE line.
	LineLength = 69

	// Minimum widths needed for the fields every caller relies on:
	// line 1 through the first derivative of mean motion (col 43),
	// line 2 through mean motion (col 63).
	minLine1 = 43
	minLine2 = 63
)

// TLE is a decoded two-line element set. Angles are degrees, mean motion is
// revolutions/day.
type TLE struct {
	Name string // Optional line 0

	// Line 1
	CatalogNumber  int
	Classification byte
	IntlDesignator string
	EpochYear      int     // Four-digit year
	EpochDay       float64 // Day of year with fraction, 1-based
	MeanMotionDot  float64 // First derivative of mean motion / 2, rev/day²
	MeanMotionDDot float64 // Second derivative / 6; full-width lines only
	BStar          float64 // Drag term; full-width lines only
	ElementSet     int

	// Line 2
	Inclination      float64
	RAAN             float64
	Eccentricity     float64
	ArgPerigee       float64
	MeanAnomaly      float64
	MeanMotion       float64
	RevolutionNumber int

	Checksum1 int // -1 when line 1 is not full width
	Checksum2 int // -1 when line 2 is not full width

	Line1 string
	Line2 string
}

// Full reports whether both lines carried all 69 columns, which is required
// for checksum verification and SGP4.
func (t *TLE) Full() bool {
	return len(t.Line1) >= LineLength && len(t.Line2) >= LineLength
}

// Parse decodes a two-line element set. Lines may be shorter than 69
// columns as long as they reach the last field needed for the orbit;
// anything shorter fails with *ParseError rather than a partly filled TLE.
func Parse(line1, line2 string) (*TLE, error) {
	line1 = strings.TrimRight(line1, "\r\n")
	line2 = strings.TrimRight(line2, "\r\n")

	if err := checkLine(1, line1, minLine1); err != nil {
		return nil, err
	}
	if err := checkLine(2, line2, minLine2); err != nil {
		return nil, err
	}

	t := &TLE{Line1: line1, Line2: line2, Checksum1: -1, Checksum2: -1}
	if err := t.parseLine1(line1); err != nil {
		return nil, err
	}
	if err := t.parseLine2(line2); err != nil {
		return nil, err
	}
	return t, nil
}

func checkLine(n int, line string, minLen int) error {
	if strings.TrimSpace(line) == "" {
		return &ParseError{Line: n, Field: "line", Err: ErrMissingLine}
	}
	if len(line) < minLen {
		return &ParseError{
			Line:  n,
			Field: "line",
			Err:   fmt.Errorf("%w: %d columns, need %d", ErrShortLine, len(line), minLen),
		}
	}
	if line[0] != byte('0'+n) {
		return &ParseError{Line: n, Field: "line number", Columns: "1", Value: line[:1], Err: ErrLineNumber}
	}
	return nil
}

// field slices 1-based inclusive columns [from, to].
type field struct {
	line     int
	name     string
	from, to int
}

func (f field) raw(s string) string {
	return s[f.from-1 : f.to]
}

func (f field) fail(s string, err error) error {
	return &ParseError{
		Line:    f.line,
		Field:   f.name,
		Columns: fmt.Sprintf("%d-%d", f.from, f.to),
		Value:   f.raw(s),
		Err:     err,
	}
}

// float accepts plain decimal notation only. ParseFloat alone would also take
// "NaN", "Inf" and hex forms.
func (f field) float(s string) (float64, error) {
	raw := strings.TrimSpace(f.raw(s))
	if strings.ContainsFunc(raw, notDecimal) {
		return 0, f.fail(s, strconv.ErrSyntax)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, f.fail(s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, f.fail(s, strconv.ErrRange)
	}
	return v, nil
}

func notDecimal(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		return false
	}
	return true
}

func (f field) int(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(f.raw(s)))
	if err != nil {
		return 0, f.fail(s, err)
	}
	return v, nil
}

func (t *TLE) parseLine1(s string) error {
	var err error

	catalog := field{1, "catalog number", 3, 7}
	if t.CatalogNumber, err = parseCatalog(catalog.raw(s)); err != nil {
		return catalog.fail(s, err)
	}
	t.Classification = s[7]
	t.IntlDesignator = strings.TrimSpace(field{1, "international designator", 10, 17}.raw(s))

	year, err := field{1, "epoch year", 19, 20}.int(s)
	if err != nil {
		return err
	}
	// Two-digit years 57-99 are 1957-1999, the launch of the catalog.
	if year < 57 {
		t.EpochYear = 2000 + year
	} else {
		t.EpochYear = 1900 + year
	}
	if t.EpochDay, err = (field{1, "epoch day", 21, 32}).float(s); err != nil {
		return err
	}

	// Written as " .00016717" or "-.00002182"; ParseFloat accepts both.
	if t.MeanMotionDot, err = (field{1, "mean motion derivative", 34, 43}).float(s); err != nil {
		return err
	}

	if len(s) < LineLength {
		return nil
	}

	ddot := field{1, "mean motion second derivative", 45, 52}
	if t.MeanMotionDDot, err = parseAssumedDecimal(ddot.raw(s)); err != nil {
		return ddot.fail(s, err)
	}
	bstar := field{1, "bstar", 54, 61}
	if t.BStar, err = parseAssumedDecimal(bstar.raw(s)); err != nil {
		return bstar.fail(s, err)
	}
	if t.ElementSet, err = (field{1, "element set number", 65, 68}).int(s); err != nil {
		return err
	}
	if t.Checksum1, err = (field{1, "checksum", 69, 69}).int(s); err != nil {
		return err
	}
	return nil
}

func (t *TLE) parseLine2(s string) error {
	var err error

	catalog := field{2, "catalog number", 3, 7}
	num, err := parseCatalog(catalog.raw(s))
	if err != nil {
		return catalog.fail(s, err)
	}
	if num != t.CatalogNumber {
		return catalog.fail(s, fmt.Errorf("%w: %d vs %d", ErrCatalogMismatch, t.CatalogNumber, num))
	}

	if t.Inclination, err = (field{2, "inclination", 9, 16}).float(s); err != nil {
		return err
	}
	if t.RAAN, err = (field{2, "RAAN", 18, 25}).float(s); err != nil {
		return err
	}

	// Leading decimal point is implied: "0006703" is 0.0006703.
	ecc := field{2, "eccentricity", 27, 33}
	digits := strings.TrimSpace(ecc.raw(s))
	if digits == "" || strings.ContainsAny(digits, ".+-") {
		return ecc.fail(s, strconv.ErrSyntax)
	}
	if t.Eccentricity, err = strconv.ParseFloat("0."+digits, 64); err != nil {
		return ecc.fail(s, err)
	}

	if t.ArgPerigee, err = (field{2, "argument of perigee", 35, 42}).float(s); err != nil {
		return err
	}
	if t.MeanAnomaly, err = (field{2, "mean anomaly", 44, 51}).float(s); err != nil {
		return err
	}
	if t.MeanMotion, err = (field{2, "mean motion", 53, 63}).float(s); err != nil {
		return err
	}

	if len(s) < LineLength {
		return nil
	}
	if t.RevolutionNumber, err = (field{2, "revolution number", 64, 68}).int(s); err != nil {
		return err
	}
	if t.Checksum2, err = (field{2, "checksum", 69, 69}).int(s); err != nil {
		return err
	}
	return nil
}

// parseCatalog decodes a five-column catalog number, including the Alpha-5
// form where a leading letter (A=10 … Z=33, skipping I and O) extends the
// range past 99999.
func parseCatalog(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	c := s[0]
	if c < 'A' || c > 'Z' {
		return strconv.Atoi(s)
	}
	if c == 'I' || c == 'O' {
		return 0, strconv.ErrSyntax
	}
	v := int(c-'A') + 10
	if c > 'I' {
		v--
	}
	if c > 'O' {
		v--
	}
	rest, err := strconv.Atoi(s[1:])
	if err != nil || len(s) != 5 {
		return 0, strconv.ErrSyntax
	}
	return v*10000 + rest, nil
}

// parseAssumedDecimal decodes fields like " 12345-4" or "-11606-4", which mean
// ±0.12345e-4.
func parseAssumedDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	sign := 1.0
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if len(s) < 3 {
		return 0, strconv.ErrSyntax
	}
	mantissa, exp := s[:len(s)-2], s[len(s)-2:]
	m, err := strconv.ParseFloat("0."+mantissa, 64)
	if err != nil {
		return 0, err
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return 0, err
	}
	return sign * m * math.Pow10(e), nil
}

// ParseText parses two-line or three-line (named) TLE text.
func ParseText(text string) (*TLE, error) {
	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		l = strings.TrimRight(l, "\r \t")
		if l != "" {
			lines = append(lines, l)
		}
	}

	var name string
	switch len(lines) {
	case 2:
	case 3:
		name = cleanName(lines[0])
		lines = lines[1:]
	case 0:
		return nil, &ParseError{Line: 1, Field: "line", Err: ErrMissingLine}
	case 1:
		return nil, &ParseError{Line: 2, Field: "line", Err: ErrMissingLine}
	default:
		return nil, fmt.Errorf("tle text has %d lines, want 2 or 3", len(lines))
	}

	t, err := Parse(lines[0], lines[1])
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// cleanName strips the "0 " prefix used by three-line (3LE) catalogs.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0 ") {
		s = strings.TrimSpace(s[2:])
	}
	return s
}
