package camera

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/litescript/ls-orrery/internal/keymap"
	"github.com/litescript/ls-orrery/internal/scene"
)

// Mode is the navigation state.
type Mode int

const (
	FreeFly Mode = iota
	Focused
)

func (m Mode) String() string {
	if m == Focused {
		return "focused"
	}
	return "free-fly"
}

// Config tunes the controller.
type Config struct {
	FOV                float64 // vertical field of view, degrees
	Near               float64
	Far                float64
	MoveSpeed          float64 // scene units per second
	FastFactor         float64
	LookSensitivity    float64 // radians per dragged pixel
	TurnRate           float64 // radians per second for arrow keys
	Coverage           float64 // fraction of the viewport height a focused body fills
	TransitionSeconds  float64
	ZoomStep           float64 // distance factor per wheel step toward the target
	MinDistanceFactor  float64 // closest focused distance, in body radii
	FreeTargetDistance float64 // synthetic look-at distance in free-fly
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		FOV:                60,
		Near:               0.01,
		Far:                1e6,
		MoveSpeed:          40,
		FastFactor:         5,
		LookSensitivity:    0.01,
		TurnRate:           1.2,
		Coverage:           0.35,
		TransitionSeconds:  0.8,
		ZoomStep:           0.85,
		MinDistanceFactor:  1.5,
		FreeTargetDistance: 50,
	}
}

type transition struct {
	active   bool
	from, to float64
	elapsed  float64
}

// Controller drives the camera in free-fly or focused mode.
type Controller struct {
	cfg  Config
	cam  Camera
	mode Mode

	focus    scene.Handle
	target   mgl64.Vec3
	radius   float64
	distance float64
	anim     transition
}

// NewController creates a free-fly controller at the origin looking down -Z.
func NewController(cfg Config) *Controller {
	if cfg.FOV <= 0 || cfg.FOV >= 180 {
		cfg.FOV = DefaultConfig().FOV
	}
	if cfg.Coverage <= 0 || cfg.Coverage > 1 {
		cfg.Coverage = DefaultConfig().Coverage
	}
	if cfg.ZoomStep <= 0 || cfg.ZoomStep >= 1 {
		cfg.ZoomStep = DefaultConfig().ZoomStep
	}
	return &Controller{
		cfg: cfg,
		cam: Camera{
			FOV:  mgl64.DegToRad(cfg.FOV),
			Near: cfg.Near,
			Far:  cfg.Far,
		},
		focus: scene.NoHandle,
	}
}

// Camera returns the controlled camera.
func (c *Controller) Camera() *Camera {
	return &c.cam
}

// Mode returns the navigation mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Focus returns the focused body, or scene.NoHandle.
func (c *Controller) Focus() scene.Handle {
	return c.focus
}

// Target returns the orbit target. In free-fly it is synthetic: a point
// ahead of the camera, so switching modes starts from a consistent target.
func (c *Controller) Target() mgl64.Vec3 {
	if c.mode == Focused {
		return c.target
	}
	return c.cam.Position.Add(c.cam.Forward().Mul(c.cfg.FreeTargetDistance))
}

// Distance returns the focused camera-to-target distance.
func (c *Controller) Distance() float64 {
	return c.distance
}

// Transitioning reports whether a framing animation is running.
func (c *Controller) Transitioning() bool {
	return c.anim.active
}

// Resize sets the viewport in pixels.
func (c *Controller) Resize(width, height int) {
	c.cam.Width, c.cam.Height = width, height
}

// FramingDistance is the distance at which a sphere of radius fills the
// configured fraction of the viewport height.
func (c *Controller) FramingDistance(radius float64) float64 {
	return radius / (c.cfg.Coverage * math.Tan(c.cam.FOV/2))
}

// FocusOn locks onto a body. The target is the body position immediately;
// the camera then eases along the current line of sight to the framing
// distance, so the result does not depend on the body's scale.
func (c *Controller) FocusOn(h scene.Handle, pos mgl64.Vec3, radius float64) {
	dir := pos.Sub(c.cam.Position)
	from := dir.Len()
	if from < 1e-9 {
		dir = c.cam.Forward()
	}
	c.cam.Face(dir)

	c.mode = Focused
	c.focus = h
	c.target = pos
	c.radius = radius

	to := c.FramingDistance(radius)
	c.distance = from
	c.anim = transition{active: true, from: from, to: to}
	if c.cfg.TransitionSeconds <= 0 || from < 1e-9 {
		c.Settle()
	}
}

// Settle finishes any framing animation at once.
func (c *Controller) Settle() {
	if !c.anim.active {
		return
	}
	c.anim.active = false
	c.distance = c.anim.to
	c.place()
}

// Unfocus releases the lock. The camera keeps its position and orientation.
func (c *Controller) Unfocus() {
	c.mode = FreeFly
	c.focus = scene.NoHandle
	c.anim = transition{}
}

// Retarget moves the focused target, for bodies that move every frame.
func (c *Controller) Retarget(pos mgl64.Vec3) {
	if c.mode == Focused {
		c.target = pos
	}
}

// Overview places the camera in free-fly so that a sphere fits the view,
// looking down onto the default orbit plane.
func (c *Controller) Overview(center mgl64.Vec3, radius float64) {
	c.Unfocus()
	dir := mgl64.Vec3{0, -0.55, -1}.Normalize()
	half := c.cam.FOV / 2
	if c.cam.Ready() {
		half = math.Min(half, math.Atan(math.Tan(half)*c.cam.Aspect()))
	}
	if radius <= 0 {
		radius = 1
	}
	dist := radius / math.Sin(half) * 1.05
	c.cam.Position = center.Sub(dir.Mul(dist))
	c.cam.Face(dir)
}

// Update applies one frame of input. dt is the wall-clock frame time.
func (c *Controller) Update(dt float64, in *Input, now time.Time) {
	dx, dy, scroll := in.Drain()
	if c.mode == Focused {
		c.updateFocused(dt, dx, dy, scroll)
		return
	}
	c.updateFree(dt, in, now, dx, dy, scroll)
}

func (c *Controller) updateFocused(dt, dx, dy float64, scroll int) {
	if dx != 0 || dy != 0 {
		c.cam.Rotate(dx*c.cfg.LookSensitivity, -dy*c.cfg.LookSensitivity)
	}
	if scroll != 0 {
		if c.anim.active {
			c.anim.active = false
			c.distance = c.anim.to
		}
		c.distance *= math.Pow(c.cfg.ZoomStep, float64(scroll))
		minDist := c.radius * c.cfg.MinDistanceFactor
		c.distance = math.Max(minDist, math.Min(c.cam.Far/2, c.distance))
	}
	if c.anim.active {
		c.anim.elapsed += dt
		t := 1.0
		if c.cfg.TransitionSeconds > 0 {
			t = math.Min(1, c.anim.elapsed/c.cfg.TransitionSeconds)
		}
		s := t * t * (3 - 2*t)
		c.distance = c.anim.from + (c.anim.to-c.anim.from)*s
		if t >= 1 {
			c.anim.active = false
		}
	}
	c.place()
}

// place puts the camera on its orbit around the target.
func (c *Controller) place() {
	c.cam.Position = c.target.Sub(c.cam.Forward().Mul(c.distance))
}

func (c *Controller) updateFree(dt float64, in *Input, now time.Time, dx, dy float64, scroll int) {
	if dx != 0 || dy != 0 {
		c.cam.Rotate(dx*c.cfg.LookSensitivity, -dy*c.cfg.LookSensitivity)
	}

	turn := func(a keymap.Action) float64 {
		held, fast := in.Held(a, now)
		if !held {
			return 0
		}
		if fast {
			return c.cfg.TurnRate * dt * 2
		}
		return c.cfg.TurnRate * dt
	}
	c.cam.Rotate(turn(keymap.ActionYawRight)-turn(keymap.ActionYawLeft),
		turn(keymap.ActionPitchUp)-turn(keymap.ActionPitchDown))

	fwd, right, up := c.cam.Forward(), c.cam.Right(), c.cam.Up()
	axes := []struct {
		a   keymap.Action
		dir mgl64.Vec3
	}{
		{keymap.ActionForward, fwd},
		{keymap.ActionBack, fwd.Mul(-1)},
		{keymap.ActionRight, right},
		{keymap.ActionLeft, right.Mul(-1)},
		{keymap.ActionUp, up},
		{keymap.ActionDown, up.Mul(-1)},
	}
	var move mgl64.Vec3
	anyFast := false
	for _, ax := range axes {
		held, fast := in.Held(ax.a, now)
		if !held {
			continue
		}
		move = move.Add(ax.dir)
		anyFast = anyFast || fast
	}
	if move.Len() > 1e-9 {
		speed := c.cfg.MoveSpeed * dt
		if anyFast {
			speed *= c.cfg.FastFactor
		}
		c.cam.Position = c.cam.Position.Add(move.Normalize().Mul(speed))
	}
	if scroll != 0 {
		c.cam.Position = c.cam.Position.Add(fwd.Mul(float64(scroll) * c.cfg.MoveSpeed * 0.25))
	}
}

// ReducedSpeed returns the speed at which one revolution of period takes at
// least minSeconds of wall time, and whether it had to be lowered.
func ReducedSpeed(period, speed, minSeconds float64) (float64, bool) {
	if period <= 0 || speed <= 0 || minSeconds <= 0 {
		return speed, false
	}
	if period/speed >= minSeconds {
		return speed, false
	}
	return period / minSeconds, true
}
