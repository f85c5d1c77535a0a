// Package pick resolves a screen position into the body under it by
// casting a ray against body spheres and indicator ring discs.
package pick

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Target identifies what the ray hit.
type Target int

const (
	TargetBody Target = iota
	TargetRing
	TargetSystemRing
)

func (t Target) String() string {
	switch t {
	case TargetRing:
		return "ring"
	case TargetSystemRing:
		return "system-ring"
	default:
		return "body"
	}
}

// Hit is the nearest intersection.
type Hit struct {
	Handle scene.Handle
	Target Target
	T      float64 // distance along the ray
}

// Pick casts a ray through pixel (px, py) and returns the nearest hit
// within the camera's near and far planes.
func Pick(cam *camera.Camera, reg *scene.Registry, px, py float64) (Hit, bool) {
	if !cam.Ready() {
		return Hit{}, false
	}
	origin, dir := cam.Ray(px, py)
	return Cast(origin, dir, cam.Near, cam.Far, reg)
}

// Cast intersects a ray with every body sphere and every hittable ring disc.
// Discs face the ray origin.
func Cast(origin, dir mgl64.Vec3, near, far float64, reg *scene.Registry) (Hit, bool) {
	best := Hit{Handle: scene.NoHandle, T: math.Inf(1)}
	consider := func(h scene.Handle, target Target, t float64, ok bool) {
		if ok && t >= near && t <= far && t < best.T {
			best = Hit{Handle: h, Target: target, T: t}
		}
	}

	for _, b := range reg.Bodies() {
		t, ok := RaySphere(origin, dir, b.Position, b.SceneRadius)
		consider(b.Handle, TargetBody, t, ok)

		if b.Ring.Visible || b.Ring.Hittable {
			t, ok = RayFacingDisc(origin, dir, b.Position, b.Ring.WorldRadius)
			consider(b.Handle, TargetRing, t, ok)
		}
		if sr := b.SystemRing; sr != nil && (sr.Ring.Visible || sr.Ring.Hittable) {
			t, ok = RayFacingDisc(origin, dir, b.Position, sr.Ring.WorldRadius)
			consider(b.Handle, TargetSystemRing, t, ok)
		}
	}
	return best, best.Handle.Valid()
}

// RaySphere returns the nearest non-negative ray parameter where the ray
// meets the sphere. dir must be unit length. A ray starting inside the
// sphere hits its far side.
func RaySphere(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// RayFacingDisc intersects the ray with a disc centred at center whose
// normal points back at the ray origin.
func RayFacingDisc(origin, dir, center mgl64.Vec3, radius float64) (float64, bool) {
	if radius <= 0 {
		return 0, false
	}
	toCenter := center.Sub(origin)
	dist := toCenter.Len()
	if dist < 1e-12 {
		return 0, false
	}
	n := toCenter.Mul(-1 / dist)
	denom := dir.Dot(n)
	if denom > -1e-12 {
		return 0, false
	}
	t := center.Sub(origin).Dot(n) / denom
	if t < 0 {
		return 0, false
	}
	if origin.Add(dir.Mul(t)).Sub(center).Len() > radius {
		return 0, false
	}
	return t, true
}
