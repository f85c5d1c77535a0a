package scene

import (
	"math"
	"time"
)

// Speed limits, in simulation time units (days) per wall second.
const (
	MinSpeed     = 0.001
	MaxSpeed     = 10000.0
	DefaultSpeed = 10.0
)

// DefaultMaxStep caps a single wall-clock step so a stalled terminal does
// not fling bodies around their orbits.
const DefaultMaxStep = 250 * time.Millisecond

// Integrator advances the simulated clock and positions every body
// analytically from its orbit angle. It is either running or paused.
type Integrator struct {
	reg     *Registry
	running bool
	simTime float64
	speed   float64
	last    time.Time
	maxStep time.Duration
}

// NewIntegrator creates a running integrator over reg.
func NewIntegrator(reg *Registry, speed float64) *Integrator {
	in := &Integrator{
		reg:     reg,
		running: true,
		maxStep: DefaultMaxStep,
	}
	in.SetSpeed(speed)
	return in
}

// Running reports whether the clock advances.
func (in *Integrator) Running() bool {
	return in.running
}

// SetRunning pauses or resumes. Resuming drains the wall-clock accumulator
// so the first step after a pause is zero.
func (in *Integrator) SetRunning(running bool) {
	if running && !in.running {
		in.last = time.Time{}
	}
	in.running = running
}

// Toggle flips between running and paused and returns the new state.
func (in *Integrator) Toggle() bool {
	in.SetRunning(!in.running)
	return in.running
}

// SimTime returns the simulated clock.
func (in *Integrator) SimTime() float64 {
	return in.simTime
}

// Speed returns the simulation speed multiplier.
func (in *Integrator) Speed() float64 {
	return in.speed
}

// SetSpeed sets the multiplier, clamped to [MinSpeed, MaxSpeed], and
// returns the value applied.
func (in *Integrator) SetSpeed(v float64) float64 {
	if math.IsNaN(v) || v <= 0 {
		v = DefaultSpeed
	}
	in.speed = math.Min(MaxSpeed, math.Max(MinSpeed, v))
	return in.speed
}

// Reset zeroes the clock after a rebuild and places every body at t=0.
func (in *Integrator) Reset() {
	in.simTime = 0
	in.last = time.Time{}
	in.Place()
}

// Advance converts the wall-clock time since the previous call into a step.
// It returns the wall delta in seconds, which the camera uses even while
// paused.
func (in *Integrator) Advance(now time.Time) float64 {
	if in.last.IsZero() || now.Before(in.last) {
		in.last = now
		return 0
	}
	d := now.Sub(in.last)
	in.last = now
	if d > in.maxStep {
		d = in.maxStep
	}
	dt := d.Seconds()
	in.Step(dt)
	return dt
}

// Step advances by dt wall seconds. Paused integrators do nothing.
func (in *Integrator) Step(dt float64) {
	if !in.running || dt <= 0 {
		return
	}
	in.simTime += dt * in.speed
	for _, b := range in.reg.Bodies() {
		if !b.HasParent() {
			b.Position = b.Position.Add(b.Trajectory.Mul(dt))
		}
	}
	in.Place()
}

// Place recomputes orbiting positions for the current clock. Bodies are
// visited in arena order so parents are placed before their children.
func (in *Integrator) Place() {
	for _, b := range in.reg.Bodies() {
		p := in.reg.Body(b.Parent)
		if p == nil {
			continue
		}
		b.Position = p.Position.Add(b.LocalOffset(in.simTime))
	}
}

// RevolutionSeconds returns the wall seconds one revolution of b takes at
// the current speed, or +Inf for bodies that do not orbit.
func (in *Integrator) RevolutionSeconds(b *Body) float64 {
	if b == nil || !b.Orbiting() {
		return math.Inf(1)
	}
	return b.OrbitPeriod / in.speed
}
