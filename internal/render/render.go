package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-orrery/internal/astro"
	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/pick"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/texture"
)

// LabelMode selects which bodies get a name label.
type LabelMode int

const (
	LabelRings   LabelMode = iota // bodies with a visible ring, plus the focus
	LabelFocused                  // only the focused body
	LabelNone
)

func (m LabelMode) String() string {
	switch m {
	case LabelFocused:
		return "focus"
	case LabelNone:
		return "off"
	default:
		return "rings"
	}
}

// Options selects optional layers.
type Options struct {
	Stars  bool
	Paths  bool
	Labels LabelMode
}

// DefaultOptions draws everything.
func DefaultOptions() Options {
	return Options{Stars: true, Paths: true, Labels: LabelRings}
}

const (
	ambient      = 0.08
	minRingAlpha = 0.15 // rings fainter than this are not worth a glyph
	pathAlpha    = 0.35
)

var (
	starColor  = colorful.Color{R: 0.35, G: 0.35, B: 0.4}
	labelColor = colorful.Color{R: 0.75, G: 0.75, B: 0.75}
	focusColor = colorful.Color{R: 1, G: 0.96, B: 0.6}
	black      = colorful.Color{}
)

// Renderer draws frames. It caches per-texture mean colours for one
// registry generation; a rebuild drops the cache with the old textures.
type Renderer struct {
	opts  Options
	stars []astro.Star
	gen   uuid.UUID
	means map[*texture.Texture]colorful.Color
}

// New creates a renderer.
func New(opts Options) *Renderer {
	return &Renderer{
		opts:  opts,
		stars: astro.Starfield(),
		means: make(map[*texture.Texture]colorful.Color),
	}
}

// Options returns the current options.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetOptions replaces the options.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// Draw renders the registry as seen by cam onto a cols x rows canvas.
// The camera must be sized to cols x rows*CellAspect pixels.
func (r *Renderer) Draw(cam *camera.Camera, reg *scene.Registry, focus scene.Handle, cols, rows int) *Canvas {
	c := NewCanvas(cols, rows)
	if g := reg.Generation(); g != r.gen {
		r.gen = g
		clear(r.means)
	}
	if !cam.Ready() || cols == 0 || rows == 0 {
		return c
	}
	vp := cam.ViewProjection()

	if r.opts.Stars {
		r.drawStars(c, cam, vp)
	}
	if r.opts.Paths {
		for _, b := range reg.Bodies() {
			r.drawPath(c, cam, vp, reg, b)
		}
	}
	for _, b := range reg.Bodies() {
		r.drawRing(c, b.Ring, b.Color, b.Handle == focus || b.Highlight, '·')
		if b.SystemRing != nil {
			r.drawRing(c, b.SystemRing.Ring, b.Color, false, '∘')
		}
	}

	lights := lightsOf(reg)
	for _, b := range reg.Bodies() {
		r.drawBody(c, cam, vp, b, lights)
	}
	if r.opts.Labels != LabelNone {
		for _, b := range reg.Bodies() {
			r.drawLabel(c, cam, vp, reg, b, focus)
		}
	}
	return c
}

func (r *Renderer) drawStars(c *Canvas, cam *camera.Camera, vp mgl64.Mat4) {
	far := cam.Far * 0.5
	for _, s := range r.stars {
		g := s.Glyph()
		if g == 0 {
			continue
		}
		p, _, ok := cam.ProjectWith(vp, cam.Position.Add(s.Direction().Mul(far)))
		if !ok {
			continue
		}
		x, y := cellOf(p)
		c.Set(x, y, Cell{Ch: g, Color: starColor, Layer: LayerStar})
	}
}

// drawPath draws an orbit only while the body's ring is visible or the body
// is highlighted: culled and faded rings take their paths with them.
func (r *Renderer) drawPath(c *Canvas, cam *camera.Camera, vp mgl64.Mat4, reg *scene.Registry, b *scene.Body) {
	parent := reg.Body(b.Parent)
	if b.Path == nil || parent == nil || (!b.Ring.Visible && !b.Highlight) {
		return
	}
	col := b.Color.BlendRgb(black, 1-pathAlpha)
	n := len(b.Path.Points)
	for i := 0; i < n; i++ {
		a := parent.Position.Add(b.Path.Points[i])
		z := parent.Position.Add(b.Path.Points[(i+1)%n])
		pa, _, oka := cam.ProjectWith(vp, a)
		pz, _, okz := cam.ProjectWith(vp, z)
		if !oka || !okz {
			continue
		}
		line(pa, pz, func(x, y int) {
			c.Set(x, y, Cell{Ch: '·', Color: col, Layer: LayerPath})
		})
	}
}

// line walks the cells between two pixel positions.
func line(a, z mgl64.Vec2, plot func(x, y int)) {
	ax, ay := cellOf(a)
	zx, zy := cellOf(z)
	steps := max(abs(zx-ax), abs(zy-ay))
	if steps > 4096 {
		return
	}
	if steps == 0 {
		plot(ax, ay)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		plot(int(math.Round(float64(ax)+t*float64(zx-ax))), int(math.Round(float64(ay)+t*float64(zy-ay))))
	}
}

func (r *Renderer) drawRing(c *Canvas, ring scene.RingState, base colorful.Color, bright bool, glyph rune) {
	if !ring.Visible || ring.Opacity < minRingAlpha || ring.ScreenRadius <= 0 {
		return
	}
	col := base.BlendRgb(black, 1-ring.Opacity)
	if bright {
		col = focusColor.BlendRgb(black, 1-ring.Opacity)
	}
	cell := Cell{Ch: glyph, Color: col, Bold: bright, Layer: LayerRing}

	rad := ring.ScreenRadius
	if rad < CellAspect {
		x, y := cellOf(ring.ScreenCenter)
		cell.Ch = '○'
		c.Set(x, y, cell)
		return
	}
	steps := int(math.Min(720, math.Max(16, 2*math.Pi*rad)))
	for i := 0; i < steps; i++ {
		th := 2 * math.Pi * float64(i) / float64(steps)
		p := ring.ScreenCenter.Add(mgl64.Vec2{rad * math.Cos(th), rad * math.Sin(th)})
		x, y := cellOf(p)
		c.Set(x, y, cell)
	}
}

type light struct {
	pos       mgl64.Vec3
	intensity float64
	handle    scene.Handle
}

func lightsOf(reg *scene.Registry) []light {
	var out []light
	for _, b := range reg.Bodies() {
		if b.Light != nil {
			out = append(out, light{pos: b.Position, intensity: b.Light.Intensity, handle: b.Handle})
		}
	}
	return out
}

// drawBody draws a shaded disc, or a single glyph when the body is smaller
// than a cell.
func (r *Renderer) drawBody(c *Canvas, cam *camera.Camera, vp mgl64.Mat4, b *scene.Body, lights []light) {
	center, _, ok := cam.ProjectWith(vp, b.Position)
	if !ok || !cam.InFrustum(b.Position, b.SceneRadius) {
		return
	}
	dist := b.Position.Sub(cam.Position).Len()
	rad := b.SceneRadius * cam.PixelsPerUnit(dist)

	if rad < 1 {
		x, y := cellOf(center)
		col := r.mean(b)
		if b.Light == nil {
			col = shade(col, b.Position, mgl64.Vec3{}, b.Handle, lights, false)
		}
		c.SetDepth(x, y, dist, Cell{Ch: pointGlyph(b.Kind), Color: col, Bold: b.Highlight, Layer: LayerBody})
		return
	}

	x0, y0 := cellOf(center.Sub(mgl64.Vec2{rad, rad}))
	x1, y1 := cellOf(center.Add(mgl64.Vec2{rad, rad}))
	for y := max(y0, 0); y <= min(y1, c.H-1); y++ {
		for x := max(x0, 0); x <= min(x1, c.W-1); x++ {
			origin, dir := cam.Ray(float64(x)+0.5, float64(y*CellAspect)+1)
			t, hit := pick.RaySphere(origin, dir, b.Position, b.SceneRadius)
			if !hit {
				continue
			}
			p := origin.Add(dir.Mul(t))
			n := p.Sub(b.Position).Normalize()
			local := b.OrbitBasis.Inverse().Rotate(n)
			u := math.Atan2(local.Z(), local.X())/(2*math.Pi) + 0.5
			v := math.Acos(math.Max(-1, math.Min(1, local.Y()))) / math.Pi
			col := b.Texture.At(u, v)
			if b.Light == nil {
				col = shade(col, p, n, b.Handle, lights, true)
			}
			c.SetDepth(x, y, t, Cell{Ch: '█', Color: col, Layer: LayerBody})
		}
	}
}

// shade applies Lambert lighting from the emitter that lights p best.
// Without a normal the emitter intensity alone is used. Scenes without any
// emitter are fully lit.
func shade(col colorful.Color, p, n mgl64.Vec3, self scene.Handle, lights []light, hasNormal bool) colorful.Color {
	if len(lights) == 0 {
		return col
	}
	best := 0.0
	for _, l := range lights {
		if l.handle == self {
			return col
		}
		k := math.Min(1, l.intensity)
		if hasNormal {
			dir := l.pos.Sub(p)
			if dir.Len() < 1e-12 {
				continue
			}
			k *= math.Max(0, n.Dot(dir.Normalize()))
		}
		best = math.Max(best, k)
	}
	f := ambient + (1-ambient)*best
	return colorful.Color{R: col.R * f, G: col.G * f, B: col.B * f}
}

func (r *Renderer) mean(b *scene.Body) colorful.Color {
	if b.Texture == nil {
		return b.Color
	}
	if m, ok := r.means[b.Texture]; ok {
		return m
	}
	m := b.Texture.Mean()
	r.means[b.Texture] = m
	return m
}

func pointGlyph(k catalog.Kind) rune {
	switch k {
	case catalog.KindStar:
		return '✶'
	case catalog.KindPlanet:
		return '●'
	case catalog.KindMoon:
		return '•'
	default:
		return '⋅'
	}
}

func (r *Renderer) drawLabel(c *Canvas, cam *camera.Camera, vp mgl64.Mat4, reg *scene.Registry, b *scene.Body, focus scene.Handle) {
	focused := b.Handle == focus
	show := focused
	if r.opts.Labels == LabelRings {
		show = show || (b.Ring.Visible && b.Ring.Opacity >= minRingAlpha) ||
			(b.SystemRing != nil && b.SystemRing.Ring.Visible)
	}
	if !show {
		return
	}
	p, _, ok := cam.ProjectWith(vp, b.Position)
	if !ok {
		return
	}
	rad := math.Max(b.Ring.ScreenRadius, b.SceneRadius*cam.PixelsPerUnit(b.Position.Sub(cam.Position).Len()))
	if b.SystemRing != nil && b.SystemRing.Ring.Visible {
		rad = math.Max(rad, b.SystemRing.Ring.ScreenRadius)
	}
	x, y := cellOf(p.Add(mgl64.Vec2{rad * 0.7071, -rad * 0.7071}))
	text := b.Name
	col := labelColor
	if focused {
		text = "◄ " + b.Name
		col = focusColor
	}
	c.Text(x+1, y, text, col, focused || b.Highlight)
}

// cellOf maps a camera pixel position to a canvas cell.
func cellOf(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p.X())), int(math.Floor(p.Y() / CellAspect))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
