// Package astro maps real astronomical sizes and distances into scene units
// and provides the background star catalogue.
package astro

import (
	"math"

	"github.com/litescript/ls-orrery/internal/catalog"
)

// DistanceScale tunes ScaleDistance.
type DistanceScale struct {
	ScaleLen  float64 // km; below this distances stay roughly linear
	BaseScale float64 // scene units per asinh unit
}

// RadiusScale tunes ScaleRadius.
type RadiusScale struct {
	RadiusScale float64 // scene units per sqrt(km)
	MinSize     float64 // floor, always > 0
	MaxSize     float64 // 0 = unbounded
}

// Tuning groups the scaling constants for one body kind.
type Tuning struct {
	Distance DistanceScale
	Radius   RadiusScale
}

// minSceneRadius is the floor applied when a tuning table has no usable MinSize.
const minSceneRadius = 0.05

// ScaleDistance compresses a real distance in km into scene units:
// linear for real << ScaleLen, logarithmic beyond it. Zero, negative and NaN
// inputs return 0.
func ScaleDistance(real float64, s DistanceScale) float64 {
	if !(real > 0) || s.ScaleLen <= 0 {
		return 0
	}
	if math.IsInf(real, 1) {
		real = math.MaxFloat64
	}
	return s.BaseScale * math.Asinh(real/s.ScaleLen)
}

// ScaleRadius maps a physical radius in km to a scene radius of
// sqrt(real)*RadiusScale clamped to [MinSize, MaxSize]. The result is always
// positive so tiny bodies stay visible and clickable.
func ScaleRadius(real float64, s RadiusScale) float64 {
	lo := s.MinSize
	if lo <= 0 {
		lo = minSceneRadius
	}
	if !(real > 0) {
		return lo
	}
	r := math.Sqrt(real) * s.RadiusScale
	if s.MaxSize > 0 && r > s.MaxSize {
		r = s.MaxSize
	}
	if !(r >= lo) {
		r = lo
	}
	return r
}

// TuningFor returns the scaling constants for a body kind. Moon-to-planet
// and planet-to-star distances differ by about two orders of magnitude, so
// each kind gets its own ScaleLen.
func TuningFor(k catalog.Kind) Tuning {
	switch k {
	case catalog.KindStar:
		return Tuning{
			Distance: DistanceScale{ScaleLen: 1e8, BaseScale: 40},
			Radius:   RadiusScale{RadiusScale: 0.01, MinSize: 1.0, MaxSize: 12},
		}
	case catalog.KindPlanet:
		return Tuning{
			Distance: DistanceScale{ScaleLen: 1e7, BaseScale: 20},
			Radius:   RadiusScale{RadiusScale: 0.02, MinSize: 0.3, MaxSize: 6},
		}
	case catalog.KindMoon:
		return Tuning{
			Distance: DistanceScale{ScaleLen: 1e5, BaseScale: 4},
			Radius:   RadiusScale{RadiusScale: 0.015, MinSize: 0.15, MaxSize: 3},
		}
	case catalog.KindAsteroid:
		return Tuning{
			Distance: DistanceScale{ScaleLen: 1e7, BaseScale: 20},
			Radius:   RadiusScale{RadiusScale: 0.015, MinSize: 0.1, MaxSize: 1},
		}
	default:
		return TuningFor(catalog.KindPlanet)
	}
}
