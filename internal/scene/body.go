// Package scene owns the bodies built from a dataset: the arena registry,
// the factory that scales and links descriptors, and the orbit integrator.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/texture"
)

// Handle addresses a body in the registry arena.
type Handle int

// NoHandle marks a missing parent or an empty selection.
const NoHandle Handle = -1

// Valid reports whether h refers to a body slot.
func (h Handle) Valid() bool {
	return h >= 0
}

// RingState is the per-frame indicator ring overlay state, written by the
// ring resolver and read by picking and rendering.
type RingState struct {
	Visible      bool       // drawn this frame
	Hittable     bool       // usable as a pick target this frame
	Opacity      float64    // 0..1 after overlap fading
	WorldRadius  float64    // scene units
	ScreenRadius float64    // pixels
	ScreenCenter mgl64.Vec2 // pixels
}

// Reset clears the state at the start of a resolver pass.
func (r *RingState) Reset() {
	*r = RingState{}
}

// SystemRing is the promoted ring drawn around a parent whose children have
// collapsed to a point. It is created on first promotion and kept.
type SystemRing struct {
	Extent float64 // scene radius enclosing all descendant orbits
	Ring   RingState
}

// Light is emitted by stars.
type Light struct {
	Intensity float64
}

// OrbitPath is a closed polyline of offsets from the parent position.
type OrbitPath struct {
	Points []mgl64.Vec3
}

// Body is the runtime form of one descriptor.
type Body struct {
	Handle Handle
	Name   string
	Kind   catalog.Kind
	Style  catalog.MaterialStyle
	Color  colorful.Color

	// Real values kept for the info panel.
	PhysicalRadius float64
	OrbitDistance  float64
	OrbitPeriod    float64

	SceneRadius        float64
	SceneOrbitDistance float64
	Phase              float64 // starting orbit angle, radians

	Position   mgl64.Vec3
	Trajectory mgl64.Vec3
	Parent     Handle
	Children   []Handle
	Depth      int // 0 for roots

	OrbitNormal mgl64.Vec3
	OrbitBasis  mgl64.Quat

	ViewRing   bool
	Ring       RingState
	SystemRing *SystemRing
	Highlight  bool

	Texture *texture.Texture
	Light   *Light
	Path    *OrbitPath

	disposed bool
}

// HasParent reports whether the body orbits another body.
func (b *Body) HasParent() bool {
	return b.Parent.Valid()
}

// Orbiting reports whether the body moves along its orbit over time.
func (b *Body) Orbiting() bool {
	return b.HasParent() && b.OrbitPeriod > 0
}

// Angle returns the orbit angle at the given simulation time.
func (b *Body) Angle(simTime float64) float64 {
	if !b.Orbiting() {
		return b.Phase
	}
	return b.Phase + simTime/b.OrbitPeriod*2*math.Pi
}

// LocalOffset returns the offset from the parent at the given simulation
// time: (cos, sin, 0) scaled by the orbit distance, rotated into the orbit
// plane.
func (b *Body) LocalOffset(simTime float64) mgl64.Vec3 {
	a := b.Angle(simTime)
	local := mgl64.Vec3{math.Cos(a), math.Sin(a), 0}.Mul(b.SceneOrbitDistance)
	return b.OrbitBasis.Rotate(local)
}

// Disposed reports whether the body's resources have been released.
func (b *Body) Disposed() bool {
	return b.disposed
}

// dispose releases render resources and reports which were held.
func (b *Body) dispose() (tex, path, light bool) {
	tex, path, light = b.Texture != nil, b.Path != nil, b.Light != nil
	b.Texture = nil
	b.Path = nil
	b.Light = nil
	b.SystemRing = nil
	b.Children = nil
	b.disposed = true
	return tex, path, light
}
