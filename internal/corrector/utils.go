package corrector

import "math"

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

// round3 keeps reported scores readable.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
