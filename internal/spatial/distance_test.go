package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere
	d := HaversineDistance(0, 0, 1, 0)
	want := EarthRadiusMeters * math.Pi / 180
	if math.Abs(d-want) > 1 {
		t.Errorf("expected ~%f m per degree of latitude, got %f", want, d)
	}

	if d := HaversineDistance(52.52, 13.405, 52.52, 13.405); d != 0 {
		t.Errorf("distance from a point to itself must be 0, got %f", d)
	}

	// Symmetric
	ab := HaversineDistance(10, 20, 11, 21)
	ba := HaversineDistance(11, 21, 10, 20)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance must be symmetric: %f vs %f", ab, ba)
	}
}

func TestBearing(t *testing.T) {
	if b := Bearing(0, 0, 0, 1); math.Abs(b-90) > 1e-9 {
		t.Errorf("due east must be bearing 90, got %f", b)
	}
	if b := Bearing(0, 0, 1, 0); math.Abs(b-0) > 1e-9 {
		t.Errorf("due north must be bearing 0, got %f", b)
	}
	if b := Bearing(0, 0, 0, -1); math.Abs(b-270) > 1e-9 {
		t.Errorf("due west must be bearing 270, got %f", b)
	}
}
