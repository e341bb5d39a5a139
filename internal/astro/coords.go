package astro

import (
	"fmt"
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDeg wraps an angle into [0, 360).
func NormalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// NormalizeRad wraps an angle into [0, 2π).
func NormalizeRad(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return rad
}

// FormatMinutes formats a duration in minutes to a compact string such as
// "92.9m", "12h03m" or "365.2d".
func FormatMinutes(minutes float64) string {
	switch {
	case math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes < 0:
		return "n/a"
	case minutes < 120:
		return fmt.Sprintf("%.1fm", minutes)
	case minutes < 48*60:
		h := int(minutes / 60)
		m := int(math.Round(minutes - float64(h)*60))
		if m == 60 {
			h++
			m = 0
		}
		return fmt.Sprintf("%dh%02dm", h, m)
	default:
		return fmt.Sprintf("%.1fd", minutes/1440)
	}
}

// FormatDistanceKm formats a distance, switching to AU beyond 0.01 AU.
func FormatDistanceKm(km float64) string {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return "n/a"
	}
	if math.Abs(km) >= 0.01*AU {
		return fmt.Sprintf("%.3f AU", KmToAU(km))
	}
	return fmt.Sprintf("%.0f km", km)
}
