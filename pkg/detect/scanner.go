package detect

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// Validation errors returned before any window is processed. Callers can
// classify a failure with errors.Is.
var (
	ErrLengthMismatch = errors.New("measured and predicted series must be the same length")
	ErrWindowLength   = errors.New("window length must be between 1 and the series length")
	ErrThresholdCount = errors.New("exactly five threshold ranges are required")
)

func validate(measured, predicted []float64, thresholds Thresholds, windowLen int) error {
	if len(measured) != len(predicted) {
		return fmt.Errorf("%w: measured has %d samples, predicted has %d",
			ErrLengthMismatch, len(measured), len(predicted))
	}
	if windowLen < 1 || windowLen > len(measured) {
		return fmt.Errorf("%w: got window length %d for a %d-sample series",
			ErrWindowLength, windowLen, len(measured))
	}
	if len(thresholds) != NumCriteria {
		return fmt.Errorf("%w: got %d", ErrThresholdCount, len(thresholds))
	}
	return nil
}

// ClearPoints classifies each sample of a measured irradiance series as
// clear or cloudy by sliding a window of windowLen samples over both the
// measured and predicted series. A window qualifies when all five
// criteria fall within their thresholds; every sample the window covers
// is then marked clear. Marks only accumulate: a sample is clear in the
// result if at least one window covering it qualified, regardless of how
// the other windows judged it. Samples within windowLen-1 of either end
// are covered by fewer windows and therefore have fewer chances to be
// marked, which is inherent to the method.
//
// Cancellation is checked once per window position. On cancellation the
// partial mask is discarded and the context's error is returned.
func ClearPoints(ctx context.Context, measured, predicted []float64, thresholds Thresholds, windowLen int) ([]bool, error) {
	if err := validate(measured, predicted, thresholds, windowLen); err != nil {
		return nil, err
	}

	mask := make([]bool, len(measured))
	if err := scanRange(ctx, measured, predicted, thresholds, windowLen, 0, len(measured)-windowLen+1, mask); err != nil {
		return nil, err
	}
	return mask, nil
}

// ClearPointsParallel computes the same mask as ClearPoints by
// partitioning window start positions across workers. Each worker marks
// a private mask and the masks are merged with a logical OR, so the
// result is identical to the sequential scan no matter how positions are
// split. workers < 1 selects runtime.NumCPU().
func ClearPointsParallel(ctx context.Context, measured, predicted []float64, thresholds Thresholds, windowLen, workers int) ([]bool, error) {
	if err := validate(measured, predicted, thresholds, windowLen); err != nil {
		return nil, err
	}

	n := len(measured)
	positions := n - windowLen + 1
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > positions {
		workers = positions
	}

	masks := make([][]bool, workers)
	errs := make([]error, workers)
	chunk := (positions + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		first := w * chunk
		last := first + chunk
		if last > positions {
			last = positions
		}

		masks[w] = make([]bool, n)
		wg.Add(1)
		go func(w, first, last int) {
			defer wg.Done()
			errs[w] = scanRange(ctx, measured, predicted, thresholds, windowLen, first, last, masks[w])
		}(w, first, last)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := make([]bool, n)
	for _, m := range masks {
		for i, clear := range m {
			if clear {
				merged[i] = true
			}
		}
	}
	return merged, nil
}

// scanRange evaluates window start positions [first, last) and marks
// qualifying windows in mask.
func scanRange(ctx context.Context, measured, predicted []float64, thresholds Thresholds, windowLen, first, last int, mask []bool) error {
	for start := first; start < last; start++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + windowLen
		criteria := computeCriteria(measured[start:end], predicted[start:end])
		if evaluateCriteria(criteria, thresholds) {
			for i := start; i < end; i++ {
				mask[i] = true
			}
		}
	}
	return nil
}
