package tle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/litescript/ls-orbits/internal/logging"
)

// Entry is one element set as laid out in a catalog, before field decoding.
type Entry struct {
	Name  string
	Line1 string
	Line2 string
}

// ReadCatalog splits a stream of element sets in either two-line or
// three-line (named) form, as published by CelesTrak and Space-Track.
// Only the line structure is checked; entries whose fields do not decode are
// still returned so callers can show them raw. Structurally broken entries
// are skipped with a warning.
func ReadCatalog(r io.Reader, logger *logging.Logger) ([]Entry, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n\t ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE catalog: %w", err)
	}

	var out []Entry
	for i := 0; i < len(lines); {
		var name string
		if !isDataLine(lines[i], '1') {
			name = cleanName(lines[i])
			i++
		}
		if i+1 >= len(lines) {
			logger.Warn("skipping truncated entry %q at end of catalog", name)
			break
		}
		if !isDataLine(lines[i], '1') || !isDataLine(lines[i+1], '2') {
			logger.Warn("skipping malformed entry %q near line %d", name, i+1)
			// Resync on the next line that could start an entry.
			if name == "" {
				i++
			}
			continue
		}
		out = append(out, Entry{Name: name, Line1: lines[i], Line2: lines[i+1]})
		i += 2
	}

	logger.Debug("read %d catalog entries from %d lines", len(out), len(lines))
	return out, nil
}

// ParseCatalog reads and decodes a catalog. Entries that fail to decode are
// skipped with a warning; only read errors fail.
func ParseCatalog(r io.Reader, logger *logging.Logger) ([]*TLE, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	entries, err := ReadCatalog(r, logger)
	if err != nil {
		return nil, err
	}

	out := make([]*TLE, 0, len(entries))
	for _, e := range entries {
		t, err := Parse(e.Line1, e.Line2)
		if err != nil {
			logger.Warn("skipping entry %q: %v", e.Name, err)
			continue
		}
		t.Name = e.Name
		out = append(out, t)
	}
	return out, nil
}

func isDataLine(s string, n byte) bool {
	return len(s) >= 2 && s[0] == n && s[1] == ' '
}
