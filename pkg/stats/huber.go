// Package stats provides robust statistical helpers for transaction
// anomaly detection.
package stats

import (
	"math"
	"sort"
)

// Tuning defaults for the Huber estimator.
const (
	DefaultDelta = 5.0
	DefaultK     = 2.0

	convergenceTol = 1e-5
	maxIterations  = 100
)

// HuberResult holds the outcome of a robust anomaly check.
type HuberResult struct {
	IsAnomaly bool
	Average   float64
}

// huberLocation computes a robust central estimate via Huber's M-estimator.
// Each point's influence is capped: weight 1 within delta of the current
// estimate, delta/|residual| beyond it. Iterates until the estimate moves
// less than convergenceTol, or stops at maxIterations with whatever it has.
func huberLocation(data []float64, delta float64) float64 {
	var sum float64
	for _, x := range data {
		sum += x
	}
	mu := sum / float64(len(data))

	for iter := 0; iter < maxIterations; iter++ {
		var num, den float64
		for _, x := range data {
			r := x - mu
			w := 1.0
			if math.Abs(r) > delta {
				w = delta / math.Abs(r)
			}
			num += w * x
			den += w
		}
		next := num / den
		if math.Abs(mu-next) < convergenceTol {
			mu = next
			break
		}
		mu = next
	}
	return mu
}

// huberScale estimates a robust analogue of the standard deviation, applying
// Huber weights to squared residuals against the converged location.
func huberScale(data []float64, delta float64) float64 {
	mu := huberLocation(data, delta)

	var num, den float64
	for _, x := range data {
		r := x - mu
		w := 1.0
		if math.Abs(r) > delta {
			w = delta / math.Abs(r)
		}
		num += w * r * r
		den += w
	}
	return math.Sqrt(num / den)
}

// FlagAnomalyHuber flags newValue as anomalous when it exceeds the robust
// center of history by more than k robust standard deviations. Only upward
// deviation is flagged; unusually small values pass. Empty history returns
// a zero result rather than an error.
func FlagAnomalyHuber(newValue float64, history []float64, delta, k float64) HuberResult {
	if len(history) == 0 {
		return HuberResult{IsAnomaly: false, Average: 0}
	}

	mu := huberLocation(history, delta)
	scale := huberScale(history, delta)

	return HuberResult{
		IsAnomaly: newValue > mu+k*scale,
		Average:   mu,
	}
}

// FlagAnomalyMovingAverage is the simpler companion check for callers that
// have a moving average but no full history: flags when current exceeds the
// average by more than thresholdPct (0.2 = 20%).
func FlagAnomalyMovingAverage(current, movingAvg, thresholdPct float64) bool {
	return current > movingAvg*(1+thresholdPct)
}

// Median returns the median of values, or 0 for an empty slice.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
