package detect

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSE returns the root mean squared error between two series of the
// same length. It panics if the lengths differ.
func RMSE(x, y []float64) float64 {
	return floats.Distance(x, y, 2) / math.Sqrt(float64(len(x)))
}
