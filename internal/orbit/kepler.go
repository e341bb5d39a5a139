package orbit

import "math"

// DefaultKeplerIterations is the fixed-point iteration budget. Ten steps are
// plenty for near-circular Earth orbits; the error shrinks roughly by a
// factor e per step, so eccentric asteroid orbits need a larger budget.
const DefaultKeplerIterations = 10

// SolveKepler solves M = E - e·sin(E) for the eccentric anomaly E using the
// fixed-point iteration E(n+1) = M + e·sin(E(n)) seeded with E(0) = M.
// Exactly iterations steps are taken; a non-positive count returns M.
func SolveKepler(meanAnomalyRad, e float64, iterations int) float64 {
	E := meanAnomalyRad
	for i := 0; i < iterations; i++ {
		E = meanAnomalyRad + e*math.Sin(E)
	}
	return E
}

// TrueFromEccentric converts an eccentric anomaly to the true anomaly using
// the half-angle form, which stays well conditioned near periapsis.
func TrueFromEccentric(E, e float64) float64 {
	return 2 * math.Atan2(
		math.Sqrt(1+e)*math.Sin(E/2),
		math.Sqrt(1-e)*math.Cos(E/2),
	)
}

// TrueAnomaly solves Kepler's equation and returns the true anomaly in radians.
func TrueAnomaly(meanAnomalyRad, e float64, iterations int) float64 {
	return TrueFromEccentric(SolveKepler(meanAnomalyRad, e, iterations), e)
}

// KeplerResidual returns |M - (E - e·sin E)|, the error left in a solution.
func KeplerResidual(meanAnomalyRad, e, E float64) float64 {
	return math.Abs(meanAnomalyRad - (E - e*math.Sin(E)))
}
