// Package detect implements clear-sky detection for measured solar
// irradiance using the five-criteria rolling-window method of Reno and
// Hansen (Global Horizontal Irradiance Clear Sky Models: Implementation
// and Analysis, 2012). A window of measured GHI is compared against the
// matching window of a modeled clear-sky series; a sample is reported
// clear when at least one window covering it satisfies all five criteria.
package detect

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Canonical criterion order. Thresholds are matched to criteria strictly
// by position, so this order is load-bearing and must never change.
const (
	CriterionMeanDiff = iota
	CriterionMaxDiff
	CriterionLineLengthDiff
	CriterionSigmaDiff
	CriterionMaxSlopeDev

	NumCriteria
)

// Criteria holds the five clear-sky statistics for one window, in
// canonical order.
type Criteria [NumCriteria]float64

// computeCriteria calculates the five clear-sky criteria for a pair of
// equal-length windows. Both windows must have at least one sample; the
// slope-based criteria (line length, sigma, max slope deviation) are 0
// for single-sample windows, which have no consecutive pairs.
func computeCriteria(measured, predicted []float64) Criteria {
	var c Criteria

	c[CriterionMeanDiff] = stat.Mean(measured, nil) - stat.Mean(predicted, nil)
	c[CriterionMaxDiff] = floats.Max(measured) - floats.Max(predicted)
	c[CriterionLineLengthDiff] = lineLength(measured) - lineLength(predicted)
	c[CriterionSigmaDiff] = slopeSigma(measured) - slopeSigma(predicted)
	c[CriterionMaxSlopeDev] = maxSlopeDeviation(measured, predicted)

	return c
}

// lineLength sums sqrt(Δ²+1) over consecutive sample pairs. The +1 term
// is the squared unit time step between samples.
func lineLength(v []float64) float64 {
	var length float64
	for i := 0; i+1 < len(v); i++ {
		d := v[i+1] - v[i]
		length += math.Sqrt(d*d + 1)
	}
	return length
}

// slopeSigma returns the sample standard deviation of the first
// differences of v, normalized by the mean of v. A zero or near-zero
// mean makes the division blow up; the method calls for 0 in that case
// rather than a NaN or Inf that would poison the criterion comparison.
func slopeSigma(v []float64) float64 {
	if len(v) < 2 {
		return 0.0
	}

	slopes := make([]float64, len(v)-1)
	for i := range slopes {
		slopes[i] = v[i+1] - v[i]
	}

	sigma := stat.StdDev(slopes, nil) / stat.Mean(v, nil)
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return 0.0
	}
	return sigma
}

// maxSlopeDeviation returns the largest absolute difference between the
// measured and predicted sample-to-sample changes.
func maxSlopeDeviation(measured, predicted []float64) float64 {
	var max float64
	for i := 0; i+1 < len(measured); i++ {
		dev := math.Abs((measured[i+1] - measured[i]) - (predicted[i+1] - predicted[i]))
		if dev > max {
			max = dev
		}
	}
	return max
}
