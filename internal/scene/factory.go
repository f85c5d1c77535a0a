package scene

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/texture"
)

var (
	// canonicalNormal is the normal of the plane the local offset
	// (cos, sin, 0) lies in.
	canonicalNormal = mgl64.Vec3{0, 0, 1}
	// DefaultOrbitNormal is used when neither the body nor its parent names one.
	DefaultOrbitNormal = mgl64.Vec3{0, 1, 0}
)

const (
	pathSegments   = 96
	orbitClearance = 0.5  // scene units between parent and child surfaces
	ringScale      = 1.25 // initial indicator ring radius relative to the body
)

// Factory turns descriptors into bodies.
type Factory struct {
	log      *logging.Logger
	textures *texture.Loader
}

// NewFactory creates a factory resolving textures through loader.
func NewFactory(loader *texture.Loader, log *logging.Logger) *Factory {
	if log == nil {
		log = logging.Discard()
	}
	if loader == nil {
		loader = texture.NewLoader(log)
	}
	return &Factory{log: log, textures: loader}
}

// Build constructs the body for d, inserts it into reg and links it to its
// parent. Malformed input never fails: an unknown parent makes a root, a
// non-positive radius gets the minimum size, a missing period means no
// orbital motion.
func (f *Factory) Build(d catalog.Descriptor, reg *Registry) *Body {
	name := d.Name
	if name == "" {
		name = fmt.Sprintf("body-%d", reg.Len()+1)
		f.log.Warn("descriptor without name, using %q", name)
	}
	tuning := astro.TuningFor(d.Kind)

	if !(d.PhysicalRadius > 0) {
		f.log.Warn("%s: radius %v is not positive, using minimum size", name, d.PhysicalRadius)
	}

	b := &Body{
		Name:           name,
		Kind:           d.Kind,
		Style:          d.EffectiveStyle(),
		Color:          texture.ParseColor(d.Color),
		PhysicalRadius: d.PhysicalRadius,
		OrbitDistance:  d.OrbitDistance,
		OrbitPeriod:    d.OrbitPeriod,
		SceneRadius:    astro.ScaleRadius(d.PhysicalRadius, tuning.Radius),
		Parent:         NoHandle,
		ViewRing:       d.ShowsIndicatorRing(),
	}

	parent := f.resolveParent(d, name, reg)
	if parent != nil {
		b.Parent = parent.Handle
	}

	b.OrbitNormal = effectiveNormal(d.OrbitNormal, parent)
	b.OrbitBasis = mgl64.QuatBetweenVectors(canonicalNormal, b.OrbitNormal)

	if parent != nil {
		f.placeChild(b, d, parent, tuning)
	} else {
		f.placeRoot(b, d)
	}

	b.Texture = f.textures.Resolve(texture.Request{
		Refs:  d.TextureRef,
		Style: b.Style,
		Color: d.Color,
		Seed:  int64(nameHash(name)),
	})
	if d.LightEmission > 0 {
		b.Light = &Light{Intensity: d.LightEmission}
	}
	if b.Orbiting() && d.ShowsOrbitPath() {
		b.Path = orbitPath(b)
	}

	// The ring exists for every body; it is the hit target even when hidden.
	b.Ring = RingState{
		Visible:     b.ViewRing,
		Hittable:    true,
		Opacity:     1,
		WorldRadius: b.SceneRadius * ringScale,
	}

	reg.insert(b)
	f.log.Debug("built %s (%s) r=%.2f d=%.2f parent=%d", name, b.Kind, b.SceneRadius, b.SceneOrbitDistance, b.Parent)
	return b
}

func (f *Factory) resolveParent(d catalog.Descriptor, name string, reg *Registry) *Body {
	if d.ParentName == "" {
		return nil
	}
	if d.ParentName == name {
		f.log.Warn("%s: names itself as parent, treating as root", name)
		return nil
	}
	p, ok := reg.Lookup(d.ParentName)
	if !ok {
		f.log.Warn("%s: parent %q not built yet, treating as root", name, d.ParentName)
		return nil
	}
	return p
}

func (f *Factory) placeChild(b *Body, d catalog.Descriptor, parent *Body, tuning astro.Tuning) {
	if d.OrbitPeriod <= 0 {
		f.log.Debug("%s: period %v, no orbital motion", b.Name, d.OrbitPeriod)
	}
	dist := astro.ScaleDistance(d.OrbitDistance, tuning.Distance)
	b.SceneOrbitDistance = math.Max(dist, parent.SceneRadius+b.SceneRadius+orbitClearance)
	b.Phase = float64(nameHash(b.Name)%3600) / 3600 * 2 * math.Pi
	b.Position = parent.Position.Add(b.LocalOffset(0))
	if d.Trajectory != nil {
		f.log.Debug("%s: trajectory ignored on an orbiting body", b.Name)
	}
}

func (f *Factory) placeRoot(b *Body, d catalog.Descriptor) {
	if d.Position != nil {
		b.Position = *d.Position
	}
	if d.Trajectory != nil {
		b.Trajectory = *d.Trajectory
	}
	if d.OrbitDistance > 0 || d.OrbitPeriod > 0 {
		f.log.Debug("%s: orbital elements without a parent are ignored", b.Name)
	}
}

// effectiveNormal picks the descriptor's normal, else the parent's, else +Y.
func effectiveNormal(n *mgl64.Vec3, parent *Body) mgl64.Vec3 {
	if n != nil && n.Len() > 1e-9 {
		return n.Normalize()
	}
	if parent != nil {
		return parent.OrbitNormal
	}
	return DefaultOrbitNormal
}

func orbitPath(b *Body) *OrbitPath {
	pts := make([]mgl64.Vec3, pathSegments)
	for i := range pts {
		a := float64(i) / pathSegments * 2 * math.Pi
		local := mgl64.Vec3{math.Cos(a), math.Sin(a), 0}.Mul(b.SceneOrbitDistance)
		pts[i] = b.OrbitBasis.Rotate(local)
	}
	return &OrbitPath{Points: pts}
}

func nameHash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}
