package astro

import "github.com/go-gl/mathgl/mgl64"

// RootWindow bounds the span of root (parentless) positions, in scene units.
type RootWindow struct {
	MinDistance float64
	MaxDistance float64
}

// DefaultRootWindow keeps neighbouring systems within a few system radii of
// each other.
func DefaultRootWindow() RootWindow {
	return RootWindow{MinDistance: 300, MaxDistance: 3000}
}

// RootSpan returns the largest pairwise distance between positions.
func RootSpan(positions []mgl64.Vec3) float64 {
	span := 0.0
	for i := range positions {
		for j := i + 1; j < len(positions); j++ {
			if d := positions[i].Sub(positions[j]).Len(); d > span {
				span = d
			}
		}
	}
	return span
}

// NormalizeRoots returns the single global factor that brings the span of
// root positions into the window, and the rescaled positions. With one or no
// root, or all roots coincident, the factor is 1 and positions are returned
// unchanged.
func NormalizeRoots(positions []mgl64.Vec3, w RootWindow) (float64, []mgl64.Vec3) {
	if len(positions) <= 1 {
		return 1, positions
	}
	span := RootSpan(positions)
	if span == 0 {
		return 1, positions
	}

	factor := 1.0
	switch {
	case w.MinDistance > 0 && span < w.MinDistance:
		factor = w.MinDistance / span
	case w.MaxDistance > 0 && span > w.MaxDistance:
		factor = w.MaxDistance / span
	default:
		return 1, positions
	}

	out := make([]mgl64.Vec3, len(positions))
	for i, p := range positions {
		out[i] = p.Mul(factor)
	}
	return factor, out
}
