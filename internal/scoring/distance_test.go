package scoring

import (
	"math"
	"testing"
)

func TestDistanceKMZeroForSamePoint(t *testing.T) {
	if d := DistanceKM(52.37, 4.90, 52.37, 4.90); d != 0 {
		t.Fatalf("expected 0 for identical coordinates, got %f", d)
	}
}

func TestDistanceKMKnownPair(t *testing.T) {
	// Amsterdam -> Paris, roughly 430 km.
	d := DistanceKM(52.3676, 4.9041, 48.8566, 2.3522)
	if math.Abs(d-430) > 10 {
		t.Fatalf("expected Amsterdam-Paris around 430km, got %f", d)
	}
}

func TestDistanceKMSymmetric(t *testing.T) {
	a := DistanceKM(43.238949, 76.889709, 51.169392, 71.449074)
	b := DistanceKM(51.169392, 71.449074, 43.238949, 76.889709)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance must be symmetric, got %f vs %f", a, b)
	}
}
