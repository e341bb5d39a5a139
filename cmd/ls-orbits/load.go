package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/litescript/ls-orbits/internal/feed"
	"github.com/litescript/ls-orbits/internal/logging"
	"github.com/litescript/ls-orbits/internal/target"
	"github.com/litescript/ls-orbits/internal/tle"
)

var errNoTargets = errors.New("no targets loaded")

// loader gathers targets from every configured source.
type loader struct {
	tleFile     string // "-" reads stdin once
	skipInvalid bool   // Drop entries that fail to decode
	search      string
	pageSize    int
	sats        []int
	neos        []string

	tles   *feed.TLEClient
	neo    *feed.NeoClient
	stdin  io.Reader
	logger *logging.Logger
}

// Source describes where targets come from, for headers and the footer.
func (l *loader) Source() string {
	var parts []string
	if l.tleFile != "" {
		name := l.tleFile
		if name == "-" {
			name = "stdin"
		}
		parts = append(parts, "file:"+name)
	}
	if l.search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", l.search))
	}
	for _, id := range l.sats {
		parts = append(parts, fmt.Sprintf("norad:%d", id))
	}
	for _, id := range l.neos {
		parts = append(parts, "neo:"+id)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Reloadable reports whether Load can be called more than once.
func (l *loader) Reloadable() bool {
	return l.tleFile != "-"
}

// Load fetches every source. Individual failures are logged and skipped;
// an error is returned only when nothing could be loaded, or alongside the
// partial set when some sources failed.
func (l *loader) Load(ctx context.Context) ([]*target.Target, error) {
	var (
		targets []*target.Target
		errs    []error
	)

	if l.tleFile != "" {
		got, err := l.loadFile()
		if err != nil {
			errs = append(errs, err)
		}
		targets = append(targets, got...)
	}

	if l.search != "" {
		records, err := l.tles.Search(ctx, l.search, l.pageSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("search %q: %w", l.search, err))
		}
		for _, r := range records {
			targets = append(targets, target.FromRecord(r))
		}
	}

	for _, id := range l.sats {
		r, err := l.tles.Get(ctx, id)
		if err != nil {
			l.logger.Warn("satellite %d: %v", id, err)
			errs = append(errs, fmt.Errorf("satellite %d: %w", id, err))
			continue
		}
		targets = append(targets, target.FromRecord(r))
	}

	for _, id := range l.neos {
		n, err := l.neo.Lookup(ctx, id)
		if err != nil {
			l.logger.Warn("asteroid %s: %v", id, err)
			errs = append(errs, fmt.Errorf("asteroid %s: %w", id, err))
			continue
		}
		targets = append(targets, target.FromNEO(n))
	}

	err := errors.Join(errs...)
	if len(targets) == 0 && err == nil {
		err = errNoTargets
	}
	return targets, err
}

func (l *loader) loadFile() ([]*target.Target, error) {
	r := l.stdin
	if l.tleFile != "-" {
		f, err := os.Open(l.tleFile)
		if err != nil {
			return nil, fmt.Errorf("open TLE file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if l.skipInvalid {
		parsed, err := tle.ParseCatalog(r, l.logger)
		if err != nil {
			return nil, err
		}
		targets := make([]*target.Target, 0, len(parsed))
		for _, p := range parsed {
			targets = append(targets, target.FromParsedTLE(p))
		}
		return targets, nil
	}

	entries, err := tle.ReadCatalog(r, l.logger)
	if err != nil {
		return nil, err
	}
	targets := make([]*target.Target, 0, len(entries))
	for _, e := range entries {
		targets = append(targets, target.FromTLE(e.Name, e.Line1, e.Line2))
	}
	return targets, nil
}

// parseIDs splits a comma-separated flag value.
func parseIDs(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
