package detect

import (
	"math"
	"testing"
)

func TestComputeCriteria(t *testing.T) {
	tests := []struct {
		name      string
		measured  []float64
		predicted []float64
		expected  Criteria
		epsilon   float64
	}{
		{
			name:      "identical windows give all zeros",
			measured:  []float64{100, 150, 200, 150},
			predicted: []float64{100, 150, 200, 150},
			expected:  Criteria{0, 0, 0, 0, 0},
			epsilon:   1e-12,
		},
		{
			name:      "constant offset shifts mean and max only",
			measured:  []float64{110, 110, 110},
			predicted: []float64{100, 100, 100},
			expected:  Criteria{10, 10, 0, 0, 0},
			epsilon:   1e-12,
		},
		{
			name:      "ramp against flat",
			measured:  []float64{1, 2, 4},
			predicted: []float64{1, 1, 1},
			expected: Criteria{
				4.0/3.0 - 1.0,
				3,
				math.Sqrt(2) + math.Sqrt(10) - 2,
				math.Sqrt(0.5) / (7.0 / 3.0),
				2,
			},
			epsilon: 1e-9,
		},
		{
			name:      "single sample window has no slope criteria",
			measured:  []float64{250},
			predicted: []float64{240},
			expected:  Criteria{10, 10, 0, 0, 0},
			epsilon:   1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeCriteria(tt.measured, tt.predicted)
			for i := 0; i < NumCriteria; i++ {
				if math.Abs(got[i]-tt.expected[i]) > tt.epsilon {
					t.Errorf("criterion %d: got %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSlopeSigmaGuard(t *testing.T) {
	tests := []struct {
		name string
		v    []float64
	}{
		{name: "zero mean with zero slope deviation", v: []float64{2, 0, -2}},
		{name: "zero mean with nonzero slopes", v: []float64{1, -2, 1}},
		{name: "single sample", v: []float64{0}},
		{name: "two samples have one slope and undefined deviation", v: []float64{3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slopeSigma(tt.v)
			if got != 0.0 {
				t.Errorf("slopeSigma(%v) = %v, expected 0.0", tt.v, got)
			}
		})
	}
}

func TestSlopeSigmaFinite(t *testing.T) {
	// sd of slopes {1,2} is sqrt(0.5), mean of v is 7/3
	v := []float64{1, 2, 4}
	expected := math.Sqrt(0.5) / (7.0 / 3.0)

	got := slopeSigma(v)
	if math.Abs(got-expected) > 1e-12 {
		t.Errorf("slopeSigma(%v) = %v, expected %v", v, got, expected)
	}
}

func TestLineLength(t *testing.T) {
	tests := []struct {
		name     string
		v        []float64
		expected float64
	}{
		{name: "empty", v: nil, expected: 0},
		{name: "single sample", v: []float64{42}, expected: 0},
		{name: "flat segments count unit time steps", v: []float64{5, 5, 5}, expected: 2},
		{name: "unit rise", v: []float64{0, 1}, expected: math.Sqrt(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lineLength(tt.v)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("lineLength(%v) = %v, expected %v", tt.v, got, tt.expected)
			}
		})
	}
}

func TestEvaluateCriteria(t *testing.T) {
	inRange := Thresholds{{-1, 1}, {-1, 1}, {-1, 1}, {-1, 1}, {-1, 1}}

	tests := []struct {
		name       string
		criteria   Criteria
		thresholds Thresholds
		expected   bool
	}{
		{name: "all zero passes", criteria: Criteria{}, thresholds: inRange, expected: true},
		{name: "bounds are inclusive", criteria: Criteria{-1, 1, -1, 1, 1}, thresholds: inRange, expected: true},
		{name: "one criterion out disqualifies", criteria: Criteria{0, 0, 0, 0, 1.001}, thresholds: inRange, expected: false},
		{
			name:       "unordered bounds are normalized",
			criteria:   Criteria{0.5, 0, 0, 0, 0},
			thresholds: Thresholds{{1, -1}, {1, -1}, {1, -1}, {1, -1}, {1, -1}},
			expected:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluateCriteria(tt.criteria, tt.thresholds)
			if got != tt.expected {
				t.Errorf("evaluateCriteria(%v) = %v, expected %v", tt.criteria, got, tt.expected)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	tests := []struct {
		name     string
		x        []float64
		y        []float64
		expected float64
	}{
		{name: "identical series", x: []float64{1, 2, 3}, y: []float64{1, 2, 3}, expected: 0},
		{name: "constant offset", x: []float64{1, 1, 1, 1}, y: []float64{3, 3, 3, 3}, expected: 2},
		{name: "mixed errors", x: []float64{0, 0}, y: []float64{3, 4}, expected: math.Sqrt(12.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RMSE(tt.x, tt.y)
			if math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("RMSE = %v, expected %v", got, tt.expected)
			}
		})
	}
}
