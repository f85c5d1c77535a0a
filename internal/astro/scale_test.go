package astro

import (
	"math"
	"testing"

	"github.com/litescript/ls-orrery/internal/catalog"
)

var allKinds = []catalog.Kind{catalog.KindStar, catalog.KindPlanet, catalog.KindMoon, catalog.KindAsteroid}

func TestScaleDistance_Zero(t *testing.T) {
	for _, k := range allKinds {
		if got := ScaleDistance(0, TuningFor(k).Distance); got != 0 {
			t.Errorf("%v: ScaleDistance(0) = %v, want 0", k, got)
		}
	}
}

func TestScaleDistance_Finite(t *testing.T) {
	s := TuningFor(catalog.KindPlanet).Distance
	inputs := []float64{-5, math.NaN(), 1e-30, 1, 1e12, 1e300, math.Inf(1)}
	for _, in := range inputs {
		got := ScaleDistance(in, s)
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("ScaleDistance(%v) = %v, want finite", in, got)
		}
		if got < 0 {
			t.Errorf("ScaleDistance(%v) = %v, want >= 0", in, got)
		}
	}
}

func TestScaleDistance_Monotonic(t *testing.T) {
	for _, k := range allKinds {
		s := TuningFor(k).Distance
		prev := ScaleDistance(0, s)
		for real := 1.0; real < 1e13; real *= 1.7 {
			got := ScaleDistance(real, s)
			if got < prev {
				t.Fatalf("%v: ScaleDistance not monotonic at %v: %v < %v", k, real, got, prev)
			}
			prev = got
		}
	}
}

func TestScaleDistance_Compressive(t *testing.T) {
	s := DistanceScale{ScaleLen: 1e6, BaseScale: 10}
	for _, real := range []float64{1e7, 1e8, 1e9, 5e10} {
		// Concave: the step over [x, 2x] is smaller than over [0, x].
		upper := ScaleDistance(2*real, s) - ScaleDistance(real, s)
		base := ScaleDistance(real, s) - ScaleDistance(0, s)
		if !(upper < base) {
			t.Errorf("at %v: step %v should be smaller than %v", real, upper, base)
		}

		// Logarithmic: each doubling adds about BaseScale*ln2, where linear
		// growth would double the step.
		lower := ScaleDistance(real, s) - ScaleDistance(real/2, s)
		if upper > lower*1.01 {
			t.Errorf("at %v: doubling step grew from %v to %v", real, lower, upper)
		}
		if math.Abs(upper-s.BaseScale*math.Ln2) > 0.01*s.BaseScale {
			t.Errorf("at %v: doubling step = %v, want ~%v", real, upper, s.BaseScale*math.Ln2)
		}
	}
}

func TestScaleDistance_LinearNearOrigin(t *testing.T) {
	s := DistanceScale{ScaleLen: 1e6, BaseScale: 10}
	a := ScaleDistance(1000, s)
	b := ScaleDistance(2000, s)
	if math.Abs(b/a-2) > 1e-3 {
		t.Errorf("ratio near origin = %v, want ~2 (linear)", b/a)
	}
}

func TestScaleRadius_Floor(t *testing.T) {
	for _, k := range allKinds {
		s := TuningFor(k).Radius
		for _, r := range []float64{0, 1e-9, 0.5, 1, 100} {
			if got := ScaleRadius(r, s); got < s.MinSize {
				t.Errorf("%v: ScaleRadius(%v) = %v, below MinSize %v", k, r, got, s.MinSize)
			}
		}
	}
	// Degenerate tuning still yields a positive radius.
	if got := ScaleRadius(math.NaN(), RadiusScale{}); !(got > 0) {
		t.Errorf("ScaleRadius with empty tuning = %v, want > 0", got)
	}
}

func TestScaleRadius_MonotonicAndCapped(t *testing.T) {
	s := RadiusScale{RadiusScale: 0.02, MinSize: 0.3, MaxSize: 6}
	prev := 0.0
	for r := 0.0; r < 1e7; r = r*1.5 + 1 {
		got := ScaleRadius(r, s)
		if got < prev {
			t.Fatalf("ScaleRadius not monotonic at %v", r)
		}
		prev = got
	}
	if got := ScaleRadius(1e12, s); got != 6 {
		t.Errorf("ScaleRadius above cap = %v, want 6", got)
	}
	if got := ScaleRadius(1e12, RadiusScale{RadiusScale: 1, MinSize: 1}); got != 1e6 {
		t.Errorf("unbounded ScaleRadius = %v, want 1e6", got)
	}
}

func TestTuning_StarLargerThanMoon(t *testing.T) {
	star := ScaleRadius(700000, TuningFor(catalog.KindStar).Radius)
	moon := ScaleRadius(1000, TuningFor(catalog.KindMoon).Radius)
	if !(star > moon) {
		t.Errorf("star radius %v should exceed moon radius %v", star, moon)
	}
}
