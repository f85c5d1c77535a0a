// Package sim owns the simulation: the body registry, the orbit clock, the
// camera controller and the ring resolver. The frame loop is the only
// writer; other goroutines read the published state snapshot.
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/camera"
	"github.com/litescript/ls-orrery/internal/catalog"
	"github.com/litescript/ls-orrery/internal/keymap"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/pick"
	"github.com/litescript/ls-orrery/internal/rings"
	"github.com/litescript/ls-orrery/internal/scene"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/texture"
)

// Selection sources, used in logs and metrics.
const (
	SourcePick     = "pick"
	SourceSidebar  = "sidebar"
	SourceTeleport = "teleport"
	SourceSubject  = "subject"
	SourceCommand  = "command"
)

// SpeedStep is the factor applied by the faster and slower actions.
const SpeedStep = 2.0

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Camera               camera.Config
	Rings                rings.Config
	Speed                float64
	MinRevolutionSeconds float64 // selecting a faster orbit lowers the speed
	HoldWindow           time.Duration

	Loader  *texture.Loader
	Log     *logging.Logger
	Metrics *metrics.Recorder
	State   *state.Manager
}

// DefaultOptions returns the standard engine options.
func DefaultOptions() Options {
	return Options{
		Camera:               camera.DefaultConfig(),
		Rings:                rings.DefaultConfig(),
		Speed:                scene.DefaultSpeed,
		MinRevolutionSeconds: 8,
		HoldWindow:           camera.DefaultHoldWindow,
	}
}

// BodyInfo is the read-only view of a body for info panels.
type BodyInfo struct {
	Handle         scene.Handle
	Name           string
	Kind           catalog.Kind
	Parent         string
	Depth          int
	PhysicalRadius float64 // km
	OrbitDistance  float64 // km
	OrbitPeriod    float64
	Position       mgl64.Vec3
	Highlight      bool
}

// Engine is the authoritative simulation state.
type Engine struct {
	log     *logging.Logger
	metrics *metrics.Recorder
	state   *state.Manager

	reg      *scene.Registry
	integ    *scene.Integrator
	ctrl     *camera.Controller
	input    *camera.Input
	resolver *rings.Resolver

	minRev   float64
	subject  string
	frame    uint64
	onSelect []func(name string)
	closed   bool
}

// New creates an engine with an empty scene.
func New(opts Options) *Engine {
	def := DefaultOptions()
	if opts.Camera == (camera.Config{}) {
		opts.Camera = def.Camera
	}
	if opts.Rings == (rings.Config{}) {
		opts.Rings = def.Rings
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	if opts.State == nil {
		opts.State = state.NewManager(state.DefaultConfig())
	}
	if opts.MinRevolutionSeconds < 0 {
		opts.MinRevolutionSeconds = 0
	}

	factory := scene.NewFactory(opts.Loader, opts.Log.Named("factory"))
	reg := scene.NewRegistry(factory, opts.Log.Named("scene"))

	return &Engine{
		log:      opts.Log.Named("sim"),
		metrics:  opts.Metrics,
		state:    opts.State,
		reg:      reg,
		integ:    scene.NewIntegrator(reg, opts.Speed),
		ctrl:     camera.NewController(opts.Camera),
		input:    camera.NewInput(opts.HoldWindow),
		resolver: rings.New(opts.Rings),
		minRev:   opts.MinRevolutionSeconds,
	}
}

// Load replaces the whole scene. The previous bodies are disposed first.
// The camera frames the new scene and then focuses the subject, if any.
func (e *Engine) Load(descs []catalog.Descriptor, subject string) scene.BuildStats {
	stats := e.reg.Rebuild(descs, subject)
	e.integ.Reset()
	e.subject = subject
	e.metrics.Rebuild(stats.Bodies)

	center, radius := e.bounds()
	e.ctrl.Overview(center, radius)
	if stats.Highlighted.Valid() {
		e.SelectHandle(stats.Highlighted, SourceSubject)
	}
	e.publish(time.Now(), 0)
	return stats
}

// bounds returns a sphere enclosing every body and orbit.
func (e *Engine) bounds() (mgl64.Vec3, float64) {
	bodies := e.reg.Bodies()
	if len(bodies) == 0 {
		return mgl64.Vec3{}, 1
	}
	lo, hi := bodies[0].Position, bodies[0].Position
	for _, b := range bodies[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], b.Position[i])
			hi[i] = math.Max(hi[i], b.Position[i])
		}
	}
	center := lo.Add(hi).Mul(0.5)

	radius := 0.0
	for _, b := range bodies {
		r := b.Position.Sub(center).Len() + b.SceneRadius
		if p := e.reg.Body(b.Parent); p != nil && b.Orbiting() {
			r = math.Max(r, p.Position.Sub(center).Len()+b.SceneOrbitDistance+b.SceneRadius)
		}
		radius = math.Max(radius, r)
	}
	return center, radius
}

// Resize sets the viewport in pixels. A zero dimension leaves the engine
// idle until a valid size arrives.
func (e *Engine) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	e.ctrl.Resize(width, height)
	e.resolver.Reset()
}

// Ready reports whether the viewport is usable.
func (e *Engine) Ready() bool {
	return !e.closed && e.ctrl.Camera().Ready()
}

// Tick runs one frame at wall time now and reports whether it ran.
func (e *Engine) Tick(now time.Time) bool {
	if !e.Ready() {
		return false
	}
	start := time.Now()

	dt := e.integ.Advance(now)
	if b := e.reg.Body(e.ctrl.Focus()); b != nil {
		e.ctrl.Retarget(b.Position)
	}
	e.ctrl.Update(dt, e.input, now)
	e.resolver.Update(now, e.ctrl.Camera(), e.reg)

	e.frame++
	d := time.Since(start)
	e.publish(now, d)

	rs := e.resolver.Stats()
	e.metrics.Frame(d, rs.Visible, rs.Promoted, e.integ.Speed())
	return true
}

// Refresh re-runs ring resolution without advancing time, for headless
// frames.
func (e *Engine) Refresh() rings.Stats {
	if !e.Ready() {
		return rings.Stats{}
	}
	if b := e.reg.Body(e.ctrl.Focus()); b != nil {
		e.ctrl.Retarget(b.Position)
	}
	e.ctrl.Settle()
	e.ctrl.Update(0, e.input, time.Now())
	return e.resolver.Force(e.ctrl.Camera(), e.reg)
}

func (e *Engine) publish(now time.Time, d time.Duration) {
	rs := e.resolver.Stats()
	f := state.Frame{
		Number:        e.frame,
		Generation:    e.reg.Generation().String(),
		SimTime:       e.integ.SimTime(),
		Speed:         e.integ.Speed(),
		Running:       e.integ.Running(),
		Mode:          e.ctrl.Mode().String(),
		Subject:       e.subject,
		Bodies:        e.reg.Len(),
		VisibleRings:  rs.Visible,
		PromotedRings: rs.Promoted,
		TickDuration:  d,
	}
	if b := e.reg.Body(e.ctrl.Focus()); b != nil {
		f.Selected = b.Name
	}
	e.state.Update(f, now)
}

// Select focuses a body by name.
func (e *Engine) Select(name string, source string) bool {
	b, ok := e.reg.Lookup(name)
	if !ok {
		e.log.Debug("select %q: no such body", name)
		return false
	}
	return e.SelectHandle(b.Handle, source)
}

// SelectHandle focuses a body. Orbits that would revolve faster than the
// minimum revolution time lower the simulation speed.
func (e *Engine) SelectHandle(h scene.Handle, source string) bool {
	b := e.reg.Body(h)
	if b == nil {
		return false
	}
	e.input.Release()
	e.ctrl.FocusOn(h, b.Position, b.SceneRadius)

	clamped := false
	if b.Orbiting() {
		if v, lower := camera.ReducedSpeed(b.OrbitPeriod, e.integ.Speed(), e.minRev); lower {
			applied := e.integ.SetSpeed(v)
			clamped = true
			e.log.Info("speed lowered to %.3g for %s", applied, b.Name)
			e.state.AddEvent(state.Event{
				Type:   state.EventSpeedClamped,
				Body:   b.Name,
				Detail: fmt.Sprintf("%.3g", applied),
			})
		}
	}
	e.metrics.Select(source, clamped)
	e.log.Debug("selected %s via %s", b.Name, source)

	for _, fn := range e.onSelect {
		fn(b.Name)
	}
	return true
}

// OnSelect registers a callback invoked with the body name on every
// selection.
func (e *Engine) OnSelect(fn func(name string)) {
	if fn != nil {
		e.onSelect = append(e.onSelect, fn)
	}
}

// Unfocus returns to free-fly without moving the camera.
func (e *Engine) Unfocus() {
	e.input.Release()
	e.ctrl.Unfocus()
}

// TeleportNearest selects the body whose surface is closest to the camera,
// skipping the one already focused. With a single body, teleporting while
// focused on it does nothing and returns false.
func (e *Engine) TeleportNearest() bool {
	pos := e.ctrl.Camera().Position
	best, bestDist := scene.NoHandle, math.Inf(1)
	for _, b := range e.reg.Bodies() {
		if b.Handle == e.ctrl.Focus() {
			continue
		}
		d := b.Position.Sub(pos).Len() - b.SceneRadius
		if d < bestDist {
			best, bestDist = b.Handle, d
		}
	}
	if !best.Valid() {
		return false
	}
	return e.SelectHandle(best, SourceTeleport)
}

// Pick selects the body under pixel (px, py). A miss changes nothing.
func (e *Engine) Pick(px, py float64) (string, bool) {
	hit, ok := pick.Pick(e.ctrl.Camera(), e.reg, px, py)
	e.metrics.Pick(ok)
	if !ok {
		return "", false
	}
	b := e.reg.Body(hit.Handle)
	e.log.Debug("pick %s %s at %.3g", b.Name, hit.Target, hit.T)
	e.SelectHandle(hit.Handle, SourcePick)
	return b.Name, true
}

// Apply performs a navigation or clock action. Continuous actions are
// recorded as held keys and take effect over the following ticks; while
// focused they are dropped.
func (e *Engine) Apply(a keymap.Action, fast bool, now time.Time) {
	if a.Continuous() {
		if e.ctrl.Mode() != camera.Focused {
			e.input.Press(a, fast, now)
		}
		return
	}
	switch a {
	case keymap.ActionUnfocus:
		e.Unfocus()
	case keymap.ActionTeleportNearest:
		e.TeleportNearest()
	case keymap.ActionPause:
		e.TogglePause()
	case keymap.ActionFaster:
		e.SetSpeed(e.Speed() * SpeedStep)
	case keymap.ActionSlower:
		e.SetSpeed(e.Speed() / SpeedStep)
	}
}

// Speed returns the simulation speed.
func (e *Engine) Speed() float64 {
	return e.integ.Speed()
}

// SetSpeed sets the simulation speed and returns the clamped value applied.
func (e *Engine) SetSpeed(v float64) float64 {
	return e.integ.SetSpeed(v)
}

// Running reports whether the clock advances.
func (e *Engine) Running() bool {
	return e.integ.Running()
}

// TogglePause pauses or resumes the clock and returns the new state.
func (e *Engine) TogglePause() bool {
	return e.integ.Toggle()
}

// SimTime returns the simulated clock.
func (e *Engine) SimTime() float64 {
	return e.integ.SimTime()
}

// Bodies lists every body in arena order.
func (e *Engine) Bodies() []BodyInfo {
	out := make([]BodyInfo, 0, e.reg.Len())
	for _, b := range e.reg.Bodies() {
		out = append(out, e.info(b))
	}
	return out
}

// Focused returns the focused body.
func (e *Engine) Focused() (BodyInfo, bool) {
	b := e.reg.Body(e.ctrl.Focus())
	if b == nil {
		return BodyInfo{}, false
	}
	return e.info(b), true
}

func (e *Engine) info(b *scene.Body) BodyInfo {
	bi := BodyInfo{
		Handle:         b.Handle,
		Name:           b.Name,
		Kind:           b.Kind,
		Depth:          b.Depth,
		PhysicalRadius: b.PhysicalRadius,
		OrbitDistance:  b.OrbitDistance,
		OrbitPeriod:    b.OrbitPeriod,
		Position:       b.Position,
		Highlight:      b.Highlight,
	}
	if p := e.reg.Body(b.Parent); p != nil {
		bi.Parent = p.Name
	}
	return bi
}

// Camera returns the camera.
func (e *Engine) Camera() *camera.Camera {
	return e.ctrl.Camera()
}

// Controller returns the camera controller.
func (e *Engine) Controller() *camera.Controller {
	return e.ctrl
}

// Mode returns the navigation mode.
func (e *Engine) Mode() camera.Mode {
	return e.ctrl.Mode()
}

// Registry returns the body registry.
func (e *Engine) Registry() *scene.Registry {
	return e.reg
}

// Input returns the input collector written by event handlers.
func (e *Engine) Input() *camera.Input {
	return e.input
}

// RingStats returns the most recent resolver statistics.
func (e *Engine) RingStats() rings.Stats {
	return e.resolver.Stats()
}

// State returns the state manager the engine publishes to.
func (e *Engine) State() *state.Manager {
	return e.state
}

// Snapshot returns the last published state.
func (e *Engine) Snapshot() state.Snapshot {
	return e.state.Snapshot()
}

// Close disposes the scene. Ticks after Close do nothing.
func (e *Engine) Close() scene.DisposeStats {
	if e.closed {
		return scene.DisposeStats{}
	}
	e.closed = true
	stats := e.reg.Dispose()
	e.log.Info("closed: disposed %d bodies, %d textures", stats.Bodies, stats.Textures)
	return stats
}
