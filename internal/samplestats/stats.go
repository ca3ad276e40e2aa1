// Package samplestats provides pure reducers over ordered sequences of
// composite samples: centroids, spread, duration, path distance, altitude
// and accuracy summaries.
//
// Every reducer that needs at least one present location reports absence
// through a boolean return instead of a zero value, so callers never mistake
// "no data" for a measurement of zero.
package samplestats

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lokokit/locomotion-backend-go/internal/models"
	"github.com/lokokit/locomotion-backend-go/internal/spatial"
)

// AccuracyFloor is the minimum accuracy, in meters, used when deriving
// inverse-accuracy weights. Accuracies below the floor are clamped so a
// perfect fix cannot divide by zero or dominate the centroid.
const AccuracyFloor = 1.0

// Locations returns the representative locations of the samples, in order,
// with absent entries filtered out
func Locations(samples []*models.Sample) []*models.Location {
	var locs []*models.Location
	for _, s := range samples {
		if s.HasLocation() {
			locs = append(locs, s.RepresentativeLocation)
		}
	}
	return locs
}

// Center returns the unweighted geometric centroid of all present
// representative locations. Returns false when no sample has a location.
func Center(samples []*models.Sample) (models.Coordinate, bool) {
	locs := Locations(samples)
	if len(locs) == 0 {
		return models.Coordinate{}, false
	}
	return centroid(locs, nil), true
}

// WeightedCenter returns the centroid weighted by inverse horizontal
// accuracy, so tight fixes pull harder than noisy ones. Returns false when
// no sample has a location.
func WeightedCenter(samples []*models.Sample) (models.Coordinate, bool) {
	locs := Locations(samples)
	if len(locs) == 0 {
		return models.Coordinate{}, false
	}
	weights := make([]float64, len(locs))
	for i, loc := range locs {
		weights[i] = 1 / math.Max(loc.HorizontalAccuracy, AccuracyFloor)
	}
	return centroid(locs, weights), true
}

// RadiusFrom returns the mean and sample standard deviation of the
// great-circle distances from every present location to center. Returns
// (0, 0) for zero or one location.
func RadiusFrom(samples []*models.Sample, center models.Coordinate) (mean, stdDev float64) {
	locs := Locations(samples)
	if len(locs) < 2 {
		return 0, 0
	}
	dists := make([]float64, len(locs))
	for i, loc := range locs {
		dists[i] = spatial.HaversineDistance(
			loc.Coordinate.Latitude, loc.Coordinate.Longitude,
			center.Latitude, center.Longitude)
	}
	return stat.MeanStdDev(dists, nil)
}

// Duration returns last minus first timestamp across the ordered sequence.
// Zero for empty or single-element sequences. The sequence is assumed
// already time-ordered; it is not re-sorted.
func Duration(samples []*models.Sample) time.Duration {
	if len(samples) < 2 {
		return 0
	}
	return samples[len(samples)-1].Timestamp.Sub(samples[0].Timestamp)
}

// Distance returns the sum of great-circle distances between consecutive
// present locations, in meters. Samples without a location are skipped, not
// interpolated: the leg bridges straight to the next present location.
func Distance(samples []*models.Sample) float64 {
	var total float64
	var prev *models.Location
	for _, s := range samples {
		if !s.HasLocation() {
			continue
		}
		loc := s.RepresentativeLocation
		if prev != nil {
			total += spatial.HaversineDistance(
				prev.Coordinate.Latitude, prev.Coordinate.Longitude,
				loc.Coordinate.Latitude, loc.Coordinate.Longitude)
		}
		prev = loc
	}
	return total
}

// Bearing returns the initial great-circle bearing, in degrees from north,
// from the first present location to the last. Returns false when fewer than
// two samples carry a location.
func Bearing(samples []*models.Sample) (float64, bool) {
	locs := Locations(samples)
	if len(locs) < 2 {
		return 0, false
	}
	first, last := locs[0], locs[len(locs)-1]
	bearing := spatial.Bearing(
		first.Coordinate.Latitude, first.Coordinate.Longitude,
		last.Coordinate.Latitude, last.Coordinate.Longitude)
	return bearing, true
}

// WeightedMeanAltitude returns the inverse-vertical-accuracy weighted mean
// altitude over all locations that carry altitude. Returns false when none do.
func WeightedMeanAltitude(samples []*models.Sample) (float64, bool) {
	var alts, weights []float64
	for _, loc := range Locations(samples) {
		if !loc.HasAltitude() {
			continue
		}
		acc := AccuracyFloor
		if loc.VerticalAccuracy != nil {
			acc = math.Max(*loc.VerticalAccuracy, AccuracyFloor)
		}
		alts = append(alts, *loc.Altitude)
		weights = append(weights, 1/acc)
	}
	if len(alts) == 0 {
		return 0, false
	}
	return stat.Mean(alts, weights), true
}

// HorizontalAccuracyRange returns the (min, max) horizontal accuracy across
// all present locations. Returns false when no location exists.
func HorizontalAccuracyRange(samples []*models.Sample) (min, max float64, ok bool) {
	var accs []float64
	for _, loc := range Locations(samples) {
		accs = append(accs, loc.HorizontalAccuracy)
	}
	if len(accs) == 0 {
		return 0, 0, false
	}
	return floats.Min(accs), floats.Max(accs), true
}

// VerticalAccuracyRange returns the (min, max) vertical accuracy across all
// present locations that report one. Returns false when none do.
func VerticalAccuracyRange(samples []*models.Sample) (min, max float64, ok bool) {
	var accs []float64
	for _, loc := range Locations(samples) {
		if loc.VerticalAccuracy != nil {
			accs = append(accs, *loc.VerticalAccuracy)
		}
	}
	if len(accs) == 0 {
		return 0, 0, false
	}
	return floats.Min(accs), floats.Max(accs), true
}

// centroid computes the (optionally weighted) arithmetic mean of the
// location coordinates in degrees. Adequate for the short spans a sample
// sequence covers; a single location comes back exactly.
func centroid(locs []*models.Location, weights []float64) models.Coordinate {
	// A single location is its own centroid, bit-exact
	if len(locs) == 1 {
		return locs[0].Coordinate
	}
	lats := make([]float64, len(locs))
	lons := make([]float64, len(locs))
	for i, loc := range locs {
		lats[i] = loc.Coordinate.Latitude
		lons[i] = loc.Coordinate.Longitude
	}
	return models.Coordinate{
		Latitude:  stat.Mean(lats, weights),
		Longitude: stat.Mean(lons, weights),
	}
}
