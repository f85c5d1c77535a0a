// Package catalog defines the celestial-body descriptors consumed by the scene
// and loads them from dataset files, Kepler KOI rows, or built-in demos.
package catalog

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind categorizes a celestial body. Scaling constants and texture styles
// are looked up per kind.
type Kind int

const (
	KindStar Kind = iota
	KindPlanet
	KindMoon
	KindAsteroid
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	case KindAsteroid:
		return "asteroid"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name. Unknown names map to KindPlanet.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "star", "sun":
		return KindStar
	case "moon", "satellite":
		return KindMoon
	case "asteroid", "comet":
		return KindAsteroid
	default:
		return KindPlanet
	}
}

// MaterialStyle selects the procedural texture used when no texture file is
// available.
type MaterialStyle int

const (
	StyleDefault MaterialStyle = iota // pick by kind
	StyleRocky
	StyleGassy
)

// String returns the style name.
func (s MaterialStyle) String() string {
	switch s {
	case StyleRocky:
		return "rocky"
	case StyleGassy:
		return "gassy"
	default:
		return "default"
	}
}

// ParseMaterialStyle parses a style name.
func ParseMaterialStyle(s string) MaterialStyle {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rocky":
		return StyleRocky
	case "gassy", "gas":
		return StyleGassy
	default:
		return StyleDefault
	}
}

// Descriptor is one input record describing a body. A dataset is an ordered
// list of descriptors: a parent must appear before its children.
type Descriptor struct {
	Name           string        // unique within a dataset
	Kind           Kind          // star, planet, moon, asteroid
	PhysicalRadius float64       // km
	Color          string        // hex colour hint, e.g. "#2E86AB"
	TextureRef     []string      // alternate texture sources, tried in order
	Position       *mgl64.Vec3   // absolute position, roots only
	OrbitDistance  float64       // km from parent
	OrbitPeriod    float64       // simulation time units (days)
	ParentName     string        // empty for roots
	OrbitNormal    *mgl64.Vec3   // unit normal of the orbit plane
	Trajectory     *mgl64.Vec3   // linear drift per second, roots only
	LightEmission  float64       // 0 = not an emitter
	ViewOrbitPath  *bool         // nil = true
	ViewRing       *bool         // nil = true
	Style          MaterialStyle // procedural texture style
}

// ShowsOrbitPath reports whether an orbit path should be drawn.
func (d Descriptor) ShowsOrbitPath() bool {
	return d.ViewOrbitPath == nil || *d.ViewOrbitPath
}

// ShowsIndicatorRing reports whether the indicator ring tracks visual size.
// When false the ring still exists as a hit target.
func (d Descriptor) ShowsIndicatorRing() bool {
	return d.ViewRing == nil || *d.ViewRing
}

// Orbits reports whether the descriptor carries usable orbital elements.
func (d Descriptor) Orbits() bool {
	return d.ParentName != "" && d.OrbitPeriod > 0 && d.OrbitDistance >= 0
}

// EffectiveStyle resolves StyleDefault by kind: stars and large planets are
// gassy, everything else rocky.
func (d Descriptor) EffectiveStyle() MaterialStyle {
	if d.Style != StyleDefault {
		return d.Style
	}
	switch d.Kind {
	case KindStar:
		return StyleGassy
	case KindPlanet:
		if d.PhysicalRadius > 20000 {
			return StyleGassy
		}
		return StyleRocky
	default:
		return StyleRocky
	}
}

// Bool returns a pointer to v, for the optional view flags.
func Bool(v bool) *bool {
	return &v
}

// Vec returns a pointer to a vector, for the optional vector fields.
func Vec(x, y, z float64) *mgl64.Vec3 {
	return &mgl64.Vec3{x, y, z}
}
