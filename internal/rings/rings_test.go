package rings

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/texture"
)

func build(t *testing.T, descs []catalog.Descriptor) *scene.Registry {
	t.Helper()
	reg := scene.NewRegistry(scene.NewFactory(texture.NewLoader(nil, texture.WithoutProcedural()), nil), nil)
	reg.Rebuild(descs, "")
	return reg
}

func system() []catalog.Descriptor {
	return []catalog.Descriptor{
		{Name: "Sun", Kind: catalog.KindStar, PhysicalRadius: 700000},
		{Name: "Planet", Kind: catalog.KindPlanet, PhysicalRadius: 6371, OrbitDistance: 149600000, OrbitPeriod: 365, ParentName: "Sun"},
		{Name: "Moon", Kind: catalog.KindMoon, PhysicalRadius: 1737, OrbitDistance: 384400, OrbitPeriod: 27, ParentName: "Planet"},
		{Name: "Other", Kind: catalog.KindPlanet, PhysicalRadius: 3000, OrbitDistance: 50000000, OrbitPeriod: 80, ParentName: "Sun"},
	}
}

func lookup(reg *scene.Registry, name string) *scene.Body {
	b, _ := reg.Lookup(name)
	return b
}

func setRing(b *scene.Body, x, y, r float64) {
	b.Ring = scene.RingState{
		Visible:      true,
		Hittable:     true,
		Opacity:      1,
		ScreenRadius: r,
		ScreenCenter: mgl64.Vec2{x, y},
	}
}

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		name string
		ci   mgl64.Vec2
		ri   float64
		cj   mgl64.Vec2
		rj   float64
		want float64
	}{
		{"disjoint", mgl64.Vec2{0, 0}, 5, mgl64.Vec2{20, 0}, 5, 0},
		{"touching", mgl64.Vec2{0, 0}, 5, mgl64.Vec2{10, 0}, 5, 0},
		{"identical", mgl64.Vec2{3, 3}, 4, mgl64.Vec2{3, 3}, 4, 1},
		{"half", mgl64.Vec2{0, 0}, 5, mgl64.Vec2{5, 0}, 5, 0.5},
		{"small inside big", mgl64.Vec2{0, 0}, 50, mgl64.Vec2{10, 0}, 2, 1},
		{"zero radius", mgl64.Vec2{0, 0}, 5, mgl64.Vec2{0, 0}, 0, 0},
	}
	for _, tt := range tests {
		if got := OverlapFraction(tt.ci, tt.ri, tt.cj, tt.rj); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: OverlapFraction = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFadeDisjointUnaffected(t *testing.T) {
	reg := build(t, system())
	r := New(DefaultConfig())
	planet, other := lookup(reg, "Planet"), lookup(reg, "Other")
	lookup(reg, "Sun").Ring = scene.RingState{}
	lookup(reg, "Moon").Ring = scene.RingState{}
	setRing(planet, 10, 10, 5)
	setRing(other, 40, 40, 5)

	r.fade(reg)
	if planet.Ring.Opacity != 1 || other.Ring.Opacity != 1 {
		t.Errorf("disjoint rings faded: %v, %v", planet.Ring.Opacity, other.Ring.Opacity)
	}
}

func TestFadeFullOverlapHidesLowerPriority(t *testing.T) {
	reg := build(t, system())
	r := New(DefaultConfig())
	planet, other := lookup(reg, "Planet"), lookup(reg, "Other")
	lookup(reg, "Sun").Ring = scene.RingState{}
	lookup(reg, "Moon").Ring = scene.RingState{}
	setRing(planet, 20, 20, 6)
	setRing(other, 20, 20, 6)

	r.fade(reg)
	// Equal radii: the tie breaks by name, so Other yields to Planet.
	if !planet.Ring.Visible || planet.Ring.Opacity != 1 {
		t.Errorf("Planet should keep full opacity, got %+v", planet.Ring)
	}
	if other.Ring.Visible || other.Ring.Opacity > DefaultConfig().Epsilon {
		t.Errorf("Other should be hidden, got %+v", other.Ring)
	}
}

func TestFadeAncestorFirst(t *testing.T) {
	reg := build(t, system())
	r := New(DefaultConfig())
	planet, moon := lookup(reg, "Planet"), lookup(reg, "Moon")
	lookup(reg, "Sun").Ring = scene.RingState{}
	lookup(reg, "Other").Ring = scene.RingState{}
	// The moon ring is larger on screen, but its parent still wins.
	setRing(planet, 20, 20, 4)
	setRing(moon, 30, 20, 8)

	r.fade(reg)
	if planet.Ring.Opacity != 1 {
		t.Errorf("ancestor ring faded to %v", planet.Ring.Opacity)
	}
	want := 1 - OverlapFraction(mgl64.Vec2{20, 20}, 4, mgl64.Vec2{30, 20}, 8)
	if math.Abs(moon.Ring.Opacity-want) > 1e-12 {
		t.Errorf("moon opacity = %v, want %v", moon.Ring.Opacity, want)
	}
}

func TestFadeAccumulatesAndSkipsHidden(t *testing.T) {
	reg := build(t, system())
	r := New(DefaultConfig())
	planet, other, moon := lookup(reg, "Planet"), lookup(reg, "Other"), lookup(reg, "Moon")
	lookup(reg, "Sun").Ring = scene.RingState{}
	setRing(planet, 0, 0, 10)
	setRing(other, 30, 0, 10)
	setRing(moon, 15, 0, 8)

	r.fade(reg)
	f1 := OverlapFraction(mgl64.Vec2{0, 0}, 10, mgl64.Vec2{15, 0}, 8)
	f2 := OverlapFraction(mgl64.Vec2{30, 0}, 10, mgl64.Vec2{15, 0}, 8)
	if want := (1 - f1) * (1 - f2); math.Abs(moon.Ring.Opacity-want) > 1e-12 {
		t.Errorf("moon opacity = %v, want %v", moon.Ring.Opacity, want)
	}

	// A ring hidden by a higher one no longer fades anything. The moon
	// touches only the hidden ring.
	setRing(planet, 0, 0, 10)
	setRing(other, 0.5, 0, 10)
	setRing(moon, 13.4, 0, 3)
	r.fade(reg)
	if other.Ring.Visible {
		t.Fatal("Other should be hidden behind Planet")
	}
	if moon.Ring.Opacity != 1 {
		t.Errorf("moon faded by a hidden ring: %v", moon.Ring.Opacity)
	}
}

func TestRootRingsDoNotCompete(t *testing.T) {
	reg := build(t, system())
	r := New(DefaultConfig())
	sun, planet := lookup(reg, "Sun"), lookup(reg, "Planet")
	lookup(reg, "Moon").Ring = scene.RingState{}
	lookup(reg, "Other").Ring = scene.RingState{}
	setRing(sun, 50, 50, 10)
	setRing(planet, 50, 50, 10)

	r.fade(reg)
	if sun.Ring.Opacity != 1 || planet.Ring.Opacity != 1 {
		t.Errorf("root ring should not fade or be faded: sun %v planet %v", sun.Ring.Opacity, planet.Ring.Opacity)
	}
}

func newCamera() *camera.Camera {
	return &camera.Camera{FOV: mgl64.DegToRad(60), Near: 0.01, Far: 1e6, Width: 100, Height: 100}
}

func TestForceSizesAndCulls(t *testing.T) {
	descs := system()
	descs[3].ViewRing = catalog.Bool(false)
	reg := build(t, descs)
	sun := lookup(reg, "Sun")
	cam := newCamera()
	cam.Position = sun.Position.Add(mgl64.Vec3{0, 60, 200})
	cam.LookAt(sun.Position)

	r := New(DefaultConfig())
	stats := r.Force(cam, reg)
	if stats.Considered != 4 {
		t.Errorf("considered = %d", stats.Considered)
	}

	if !sun.Ring.Visible || !sun.Ring.Hittable {
		t.Errorf("sun ring should be visible, got %+v", sun.Ring)
	}
	dist := sun.Position.Sub(cam.Position).Len()
	want := math.Max(dist*math.Tan(0.03), sun.SceneRadius*1.25)
	if math.Abs(sun.Ring.WorldRadius-want) > 1e-9 {
		t.Errorf("sun ring radius = %v, want %v", sun.Ring.WorldRadius, want)
	}
	if c := sun.Ring.ScreenCenter; math.Abs(c.X()-50) > 1e-6 || math.Abs(c.Y()-50) > 1e-6 {
		t.Errorf("sun should be centred, got %v", c)
	}

	other := lookup(reg, "Other")
	if other.Ring.Visible || !other.Ring.Hittable {
		t.Errorf("size-tracking ring should be a hidden hit target, got %+v", other.Ring)
	}
	if want := 0.35 * math.Log10(1+3000); math.Abs(other.Ring.WorldRadius-math.Max(want, other.SceneRadius*1.25)) > 1e-9 {
		t.Errorf("log ring radius = %v", other.Ring.WorldRadius)
	}

	// Turn around: everything is behind the camera.
	cam.Face(cam.Forward().Mul(-1))
	r.Force(cam, reg)
	for _, b := range reg.Bodies() {
		if b.Ring.Visible || b.Ring.Hittable {
			t.Errorf("%s ring should be culled behind the camera", b.Name)
		}
	}
}

func TestMinPixelCull(t *testing.T) {
	reg := build(t, system())
	cam := newCamera()
	sun := lookup(reg, "Sun")
	cam.Position = sun.Position.Add(mgl64.Vec3{0, 0, 2000})
	cam.LookAt(sun.Position)

	cfg := DefaultConfig()
	cfg.MinPixels = 5
	cfg.CollapseAngle = 0
	New(cfg).Force(cam, reg)
	if sun.Ring.Visible {
		t.Error("sun smaller than the pixel threshold should be culled")
	}
}

func TestSystemRingPromotion(t *testing.T) {
	reg := build(t, system())
	sun, planet, moon := lookup(reg, "Sun"), lookup(reg, "Planet"), lookup(reg, "Moon")
	cam := newCamera()
	r := New(DefaultConfig())

	// Far away: the whole system is a point. Only the sun gets a system
	// ring; the planet's is suppressed because its parent is collapsed.
	cam.Position = sun.Position.Add(mgl64.Vec3{0, 0, 5000})
	cam.LookAt(sun.Position)
	stats := r.Force(cam, reg)
	if stats.Promoted != 1 || sun.SystemRing == nil || !sun.SystemRing.Ring.Visible {
		t.Fatalf("sun system ring should be promoted, stats %+v", stats)
	}
	if planet.SystemRing != nil && planet.SystemRing.Ring.Visible {
		t.Error("planet system ring should be suppressed under a collapsed parent")
	}
	for _, b := range []*scene.Body{sun, planet, moon} {
		if b.Ring.Visible {
			t.Errorf("%s indicator ring should be hidden under the system ring", b.Name)
		}
	}
	if sun.SystemRing.Extent < planet.SceneOrbitDistance {
		t.Errorf("system ring extent %v should enclose the planet orbit", sun.SystemRing.Extent)
	}

	// Closer: the sun's planets spread out, the planet's moon is still a
	// point.
	cam.Position = planet.Position.Add(mgl64.Vec3{0, 0, 1000})
	cam.LookAt(planet.Position)
	stats = r.Force(cam, reg)
	if sun.SystemRing == nil || sun.SystemRing.Ring.Visible {
		t.Error("sun system ring should be kept but hidden")
	}
	if planet.SystemRing == nil || !planet.SystemRing.Ring.Visible {
		t.Fatalf("planet system ring should be promoted, stats %+v", stats)
	}
	if moon.Ring.Visible || moon.Ring.Hittable {
		t.Error("moon ring should give way to the planet system ring")
	}

	// Close in: nothing collapses.
	cam.Position = planet.Position.Add(mgl64.Vec3{0, 0, 40})
	cam.LookAt(planet.Position)
	stats = r.Force(cam, reg)
	if stats.Promoted != 0 || planet.SystemRing.Ring.Visible {
		t.Errorf("no system ring expected up close, stats %+v", stats)
	}
}

func TestUpdateThrottle(t *testing.T) {
	reg := build(t, system())
	cam := newCamera()
	cam.Position = mgl64.Vec3{0, 0, 300}
	r := New(DefaultConfig())

	now := time.Unix(0, 0)
	if !r.Update(now, cam, reg) {
		t.Error("first update should run")
	}
	if r.Update(now.Add(5*time.Millisecond), cam, reg) {
		t.Error("update within the interval should be throttled")
	}
	if !r.Update(now.Add(20*time.Millisecond), cam, reg) {
		t.Error("update after the interval should run")
	}

	unsized := newCamera()
	unsized.Width = 0
	if stats := r.Force(unsized, reg); stats.Considered != 0 {
		t.Error("unsized viewport should be a no-op")
	}
}
