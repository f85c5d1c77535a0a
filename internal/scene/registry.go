package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/logging"
)

// DisposeStats counts the resources released by Dispose.
type DisposeStats struct {
	Bodies   int
	Textures int
	Paths    int
	Lights   int
}

// BuildStats summarizes one Rebuild.
type BuildStats struct {
	Generation  uuid.UUID
	Bodies      int
	Roots       int
	RootFactor  float64 // root position normalization factor
	Disposed    DisposeStats
	Highlighted Handle
}

// Registry is the arena owning every body of the current dataset. Parent
// and child links are handles into the arena.
type Registry struct {
	log     *logging.Logger
	factory *Factory
	window  astro.RootWindow

	bodies     []*Body
	byName     map[string]Handle
	generation uuid.UUID
}

// NewRegistry creates an empty registry building bodies with f.
func NewRegistry(f *Factory, log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Discard()
	}
	return &Registry{
		log:     log,
		factory: f,
		window:  astro.DefaultRootWindow(),
		byName:  make(map[string]Handle),
	}
}

// SetRootWindow overrides the root normalization window.
func (r *Registry) SetRootWindow(w astro.RootWindow) {
	r.window = w
}

// Rebuild disposes every existing body, then builds descs in order. A
// parent must precede its children; anything else becomes a root.
func (r *Registry) Rebuild(descs []catalog.Descriptor, subject string) BuildStats {
	stats := BuildStats{Highlighted: NoHandle}
	stats.Disposed = r.Dispose()

	r.generation = uuid.New()
	stats.Generation = r.generation

	for _, d := range descs {
		r.factory.Build(d, r)
	}

	stats.RootFactor = r.normalizeRoots()
	for _, b := range r.bodies {
		if !b.HasParent() {
			stats.Roots++
		}
	}
	stats.Bodies = len(r.bodies)

	if b, ok := r.Lookup(subject); ok {
		b.Highlight = true
		stats.Highlighted = b.Handle
	} else if subject != "" {
		r.log.Debug("subject %q not in dataset", subject)
	}

	r.log.Info("rebuilt generation %s: %d bodies, %d roots", r.generation, stats.Bodies, stats.Roots)
	return stats
}

// normalizeRoots rescales root positions by one global factor when their
// span falls outside the window. Root drift is scaled by the same factor so
// it stays in the units of the positions.
func (r *Registry) normalizeRoots() float64 {
	var roots []*Body
	var positions []mgl64.Vec3
	for _, b := range r.bodies {
		if !b.HasParent() {
			roots = append(roots, b)
			positions = append(positions, b.Position)
		}
	}
	factor, scaled := astro.NormalizeRoots(positions, r.window)
	if factor == 1 {
		return 1
	}
	for i, b := range roots {
		b.Position = scaled[i]
		b.Trajectory = b.Trajectory.Mul(factor)
	}
	for _, b := range r.bodies {
		if p := r.Body(b.Parent); p != nil {
			b.Position = p.Position.Add(b.LocalOffset(0))
		}
	}
	r.log.Debug("root positions scaled by %.3g", factor)
	return factor
}

// insert appends b to the arena and links it to its parent.
func (r *Registry) insert(b *Body) Handle {
	h := Handle(len(r.bodies))
	b.Handle = h
	r.bodies = append(r.bodies, b)

	if _, dup := r.byName[b.Name]; dup {
		r.log.Warn("duplicate body name %q, lookups keep the first", b.Name)
	} else {
		r.byName[b.Name] = h
	}

	if p := r.Body(b.Parent); p != nil {
		p.Children = append(p.Children, h)
		b.Depth = p.Depth + 1
	}
	return h
}

// Dispose releases every body's render resources and empties the arena.
func (r *Registry) Dispose() DisposeStats {
	var s DisposeStats
	for _, b := range r.bodies {
		tex, path, light := b.dispose()
		s.Bodies++
		if tex {
			s.Textures++
		}
		if path {
			s.Paths++
		}
		if light {
			s.Lights++
		}
	}
	if s.Bodies > 0 {
		r.log.Debug("disposed %d bodies (%d textures, %d paths, %d lights)",
			s.Bodies, s.Textures, s.Paths, s.Lights)
	}
	r.bodies = nil
	r.byName = make(map[string]Handle)
	return s
}

// Body returns the body for h, or nil.
func (r *Registry) Body(h Handle) *Body {
	if h < 0 || int(h) >= len(r.bodies) {
		return nil
	}
	return r.bodies[h]
}

// Lookup finds a body by name.
func (r *Registry) Lookup(name string) (*Body, bool) {
	h, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.bodies[h], true
}

// Bodies returns the arena in construction order. Parents always precede
// their children.
func (r *Registry) Bodies() []*Body {
	return r.bodies
}

// Len returns the number of bodies.
func (r *Registry) Len() int {
	return len(r.bodies)
}

// Generation identifies the current build.
func (r *Registry) Generation() uuid.UUID {
	return r.generation
}

// IsAncestor reports whether a is a strict ancestor of b.
func (r *Registry) IsAncestor(a, b Handle) bool {
	body := r.Body(b)
	for body != nil && body.HasParent() {
		if body.Parent == a {
			return true
		}
		body = r.Body(body.Parent)
	}
	return false
}

// Descendants returns every handle below h, depth first.
func (r *Registry) Descendants(h Handle) []Handle {
	b := r.Body(h)
	if b == nil {
		return nil
	}
	var out []Handle
	for _, c := range b.Children {
		out = append(out, c)
		out = append(out, r.Descendants(c)...)
	}
	return out
}

// SystemExtent returns the scene radius around h that encloses every
// descendant orbit.
func (r *Registry) SystemExtent(h Handle) float64 {
	b := r.Body(h)
	if b == nil {
		return 0
	}
	extent := 0.0
	for _, ch := range b.Children {
		c := r.Body(ch)
		reach := c.SceneOrbitDistance + max(c.SceneRadius, r.SystemExtent(ch))
		if reach > extent {
			extent = reach
		}
	}
	return extent
}
