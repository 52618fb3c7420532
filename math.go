package geoforward

import (
	"math"
)

func pow2(x float64) float64 {
	return x * x
}

// isClose reports |a-b| <= atol + rtol*|b|.
func isClose(a, b float64) bool {
	return math.Abs(a-b) <= isCloseAbsTol+isCloseRelTol*math.Abs(b)
}

// finitePositive rejects zero, negatives, NaN and both infinities.
func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
