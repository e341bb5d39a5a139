// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - SGP4 ground-track fix in detail view, Prometheus metrics, catalog files
// 0.2.0 - NASA NeoWs asteroid orbits, heliocentric scaling, JSON export
// 0.1.0 - Initial release: TLE search, two-body orbit view, headless summary
