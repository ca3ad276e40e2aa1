// Package stats provides scalar aggregation helpers used by the service
// layer's segment summaries. Weighted variants delegate to gonum.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// WeightedMean calculates the weighted mean. A nil weights slice falls back
// to the unweighted mean.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if weights == nil || floats.Sum(weights) == 0 {
		return Mean(values)
	}
	return stat.Mean(values, weights)
}

// StdDev calculates the sample standard deviation
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// MeanStdDev calculates mean and sample standard deviation in one pass
func MeanStdDev(values []float64) (float64, float64) {
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// Min returns the minimum value
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Min(values)
}

// Max returns the maximum value
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// Sum returns the sum of all values
func Sum(values []float64) float64 {
	return floats.Sum(values)
}
