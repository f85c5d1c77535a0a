// Package rings decides, every frame, which indicator rings are drawn, how
// large they are on screen, and how much they fade where they overlap.
package rings

import (
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Config tunes the resolver.
type Config struct {
	MinPixels     float64       // projected body radius below which the ring is culled
	AngularSize   float64       // radians; indicator ring radius as seen from the camera
	SystemAngular float64       // radians; minimum system ring radius as seen from the camera
	RingScale     float64       // ring radius floor, in body radii
	LogScale      float64       // scene units per decade of physical radius for size-tracking rings
	Epsilon       float64       // opacity below which a ring is hidden
	FadeStrength  float64       // 1 = full overlap fades to zero
	CollapseAngle float64       // radians; child orbits smaller than this look like a point
	MinInterval   time.Duration // throttle between passes
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		MinPixels:     0.1,
		AngularSize:   0.03,
		SystemAngular: 0.06,
		RingScale:     1.25,
		LogScale:      0.35,
		Epsilon:       0.05,
		FadeStrength:  1,
		CollapseAngle: 0.02,
		MinInterval:   time.Second / 60,
	}
}

// Stats summarizes one pass.
type Stats struct {
	Considered int
	Visible    int
	Culled     int
	Faded      int
	Hidden     int // hidden by overlap
	Promoted   int // system rings shown
}

// Resolver updates RingState on every body.
type Resolver struct {
	cfg   Config
	last  time.Time
	stats Stats
}

// New creates a resolver.
func New(cfg Config) *Resolver {
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Resolver{cfg: cfg}
}

// Stats returns the most recent pass statistics.
func (r *Resolver) Stats() Stats {
	return r.stats
}

// Reset clears the throttle so the next Update runs a pass.
func (r *Resolver) Reset() {
	r.last = time.Time{}
}

// Update runs a pass unless the previous one ran less than MinInterval ago.
// It reports whether a pass ran.
func (r *Resolver) Update(now time.Time, cam *camera.Camera, reg *scene.Registry) bool {
	if !r.last.IsZero() && now.Sub(r.last) < r.cfg.MinInterval && !now.Before(r.last) {
		return false
	}
	r.last = now
	r.Force(cam, reg)
	return true
}

// Force runs a pass immediately.
func (r *Resolver) Force(cam *camera.Camera, reg *scene.Registry) Stats {
	r.stats = Stats{}
	if !cam.Ready() {
		return r.stats
	}
	vp := cam.ViewProjection()

	for _, b := range reg.Bodies() {
		r.size(b, cam, vp)
	}
	r.fade(reg)
	r.promote(cam, vp, reg)

	for _, b := range reg.Bodies() {
		if b.Ring.Visible {
			r.stats.Visible++
		}
	}
	return r.stats
}

// size culls and sizes one body's ring.
func (r *Resolver) size(b *scene.Body, cam *camera.Camera, vp mgl64.Mat4) {
	b.Ring.Reset()
	r.stats.Considered++

	if !cam.InFrustum(b.Position, b.SceneRadius) {
		r.stats.Culled++
		return
	}
	screen, _, ok := cam.ProjectWith(vp, b.Position)
	if !ok {
		r.stats.Culled++
		return
	}
	dist := b.Position.Sub(cam.Position).Len()
	ppu := cam.PixelsPerUnit(dist)
	if b.SceneRadius*ppu < r.cfg.MinPixels {
		r.stats.Culled++
		return
	}

	floor := b.SceneRadius * r.cfg.RingScale
	var world float64
	if b.ViewRing {
		world = math.Max(dist*math.Tan(r.cfg.AngularSize), floor)
	} else {
		world = math.Max(r.cfg.LogScale*math.Log10(1+math.Max(0, b.PhysicalRadius)), floor)
	}

	b.Ring = scene.RingState{
		Visible:      b.ViewRing,
		Hittable:     true,
		Opacity:      1,
		WorldRadius:  world,
		ScreenRadius: world * ppu,
		ScreenCenter: screen,
	}
}

// fade applies overlap fading between visible rings of bodies that have a
// parent. Rings are ordered ancestors first, then larger on screen, then by
// name; each ring is faded by every still-visible ring before it.
func (r *Resolver) fade(reg *scene.Registry) {
	var rings []*scene.Body
	for _, b := range reg.Bodies() {
		if b.HasParent() && b.Ring.Visible {
			rings = append(rings, b)
		}
	}
	ordered := priorityOrder(rings, reg)

	for j, bj := range ordered {
		faded := false
		for _, bi := range ordered[:j] {
			if !bi.Ring.Visible {
				continue
			}
			f := OverlapFraction(bi.Ring.ScreenCenter, bi.Ring.ScreenRadius, bj.Ring.ScreenCenter, bj.Ring.ScreenRadius)
			if f <= 0 {
				continue
			}
			bj.Ring.Opacity *= 1 - math.Min(1, f*r.cfg.FadeStrength)
			faded = true
		}
		if faded {
			r.stats.Faded++
		}
		if bj.Ring.Opacity < r.cfg.Epsilon {
			bj.Ring.Visible = false
			r.stats.Hidden++
		}
	}
}

// priorityOrder returns rings in a topological order over the ancestor
// relation, choosing the largest screen radius (then name) among the rings
// whose ancestors are already placed.
func priorityOrder(rings []*scene.Body, reg *scene.Registry) []*scene.Body {
	sort.SliceStable(rings, func(i, j int) bool {
		return higher(rings[i], rings[j])
	})

	placed := make(map[scene.Handle]bool, len(rings))
	out := make([]*scene.Body, 0, len(rings))
	for len(out) < len(rings) {
		progressed := false
		for _, b := range rings {
			if placed[b.Handle] || hasPendingAncestor(b, rings, placed, reg) {
				continue
			}
			placed[b.Handle] = true
			out = append(out, b)
			progressed = true
			break
		}
		if !progressed {
			// Unreachable for a forest; keep the remainder in priority order.
			for _, b := range rings {
				if !placed[b.Handle] {
					placed[b.Handle] = true
					out = append(out, b)
				}
			}
		}
	}
	return out
}

func higher(a, b *scene.Body) bool {
	if a.Ring.ScreenRadius != b.Ring.ScreenRadius {
		return a.Ring.ScreenRadius > b.Ring.ScreenRadius
	}
	return a.Name < b.Name
}

func hasPendingAncestor(b *scene.Body, rings []*scene.Body, placed map[scene.Handle]bool, reg *scene.Registry) bool {
	for _, o := range rings {
		if o != b && !placed[o.Handle] && reg.IsAncestor(o.Handle, b.Handle) {
			return true
		}
	}
	return false
}

// OverlapFraction returns how much two screen circles overlap, relative to
// the smaller radius: 0 when disjoint, 1 when the smaller is fully covered
// along the line between centres.
func OverlapFraction(ci mgl64.Vec2, ri float64, cj mgl64.Vec2, rj float64) float64 {
	small := math.Min(ri, rj)
	if small <= 0 {
		return 0
	}
	d := ci.Sub(cj).Len()
	overlap := ri + rj - d
	if overlap <= 0 {
		return 0
	}
	return math.Min(1, overlap/(2*small))
}

// promote replaces the rings of a collapsed sub-system with a single
// system ring around its parent. A parent whose own parent is collapsed is
// left to the higher system ring.
func (r *Resolver) promote(cam *camera.Camera, vp mgl64.Mat4, reg *scene.Registry) {
	collapsed := make(map[scene.Handle]bool)
	for _, b := range reg.Bodies() {
		if len(b.Children) > 0 && r.isCollapsed(b, cam, reg) {
			collapsed[b.Handle] = true
		}
	}

	for _, b := range reg.Bodies() {
		if b.SystemRing != nil {
			b.SystemRing.Ring.Reset()
		}
		if !collapsed[b.Handle] || collapsed[b.Parent] {
			continue
		}
		if !cam.InFrustum(b.Position, b.SceneRadius) {
			continue
		}
		screen, _, ok := cam.ProjectWith(vp, b.Position)
		if !ok {
			continue
		}

		for _, h := range reg.Descendants(b.Handle) {
			d := reg.Body(h)
			d.Ring.Visible = false
			d.Ring.Hittable = false
		}
		b.Ring.Visible = false

		if b.SystemRing == nil {
			b.SystemRing = &scene.SystemRing{Extent: reg.SystemExtent(b.Handle)}
		}
		dist := b.Position.Sub(cam.Position).Len()
		world := math.Max(b.SystemRing.Extent, dist*math.Tan(r.cfg.SystemAngular))
		b.SystemRing.Ring = scene.RingState{
			Visible:      true,
			Hittable:     true,
			Opacity:      1,
			WorldRadius:  world,
			ScreenRadius: world * cam.PixelsPerUnit(dist),
			ScreenCenter: screen,
		}
		r.stats.Promoted++
	}
}

// isCollapsed reports whether every child orbit of b subtends less than
// CollapseAngle from the camera.
func (r *Resolver) isCollapsed(b *scene.Body, cam *camera.Camera, reg *scene.Registry) bool {
	dist := b.Position.Sub(cam.Position).Len()
	if dist <= 1e-9 {
		return false
	}
	for _, h := range b.Children {
		c := reg.Body(h)
		if math.Atan((c.SceneOrbitDistance+c.SceneRadius)/dist) >= r.cfg.CollapseAngle {
			return false
		}
	}
	return true
}
