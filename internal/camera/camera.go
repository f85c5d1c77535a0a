// Package camera implements the perspective camera and the free-fly /
// focused navigation controller.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldUp is the fixed up direction for yaw and pitch.
var WorldUp = mgl64.Vec3{0, 1, 0}

// maxPitch keeps the view from flipping over the poles.
const maxPitch = math.Pi/2 - 1e-3

// Camera is a perspective camera oriented by yaw and pitch. Yaw 0 looks
// down -Z; positive pitch looks up. Viewport sizes are in pixels.
type Camera struct {
	Position mgl64.Vec3
	Yaw      float64
	Pitch    float64
	FOV      float64 // vertical, radians
	Near     float64
	Far      float64
	Width    int
	Height   int
}

// Forward returns the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	return mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), -cp * math.Cos(c.Yaw)}
}

// Right returns the unit right vector.
func (c *Camera) Right() mgl64.Vec3 {
	return c.Forward().Cross(WorldUp).Normalize()
}

// Up returns the unit camera up vector.
func (c *Camera) Up() mgl64.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Rotate turns the camera, clamping pitch.
func (c *Camera) Rotate(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = clampPitch(c.Pitch + dPitch)
}

// Face orients the camera along dir without moving it.
func (c *Camera) Face(dir mgl64.Vec3) {
	if dir.Len() < 1e-12 {
		return
	}
	dir = dir.Normalize()
	c.Pitch = clampPitch(math.Asin(math.Max(-1, math.Min(1, dir.Y()))))
	c.Yaw = math.Atan2(dir.X(), -dir.Z())
}

// LookAt orients the camera toward target.
func (c *Camera) LookAt(target mgl64.Vec3) {
	c.Face(target.Sub(c.Position))
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// Ready reports whether the viewport has a usable size.
func (c *Camera) Ready() bool {
	return c.Width > 0 && c.Height > 0
}

// Aspect returns width over height.
func (c *Camera) Aspect() float64 {
	if !c.Ready() {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// View returns the view matrix.
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Position.Add(c.Forward()), WorldUp)
}

// Projection returns the perspective projection matrix.
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(c.FOV, c.Aspect(), c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Project maps a world point to screen pixels (origin top-left). ok is
// false for points behind the camera.
func (c *Camera) Project(p mgl64.Vec3) (screen mgl64.Vec2, depth float64, ok bool) {
	return c.ProjectWith(c.ViewProjection(), p)
}

// ProjectWith is Project with a precomputed view-projection matrix.
func (c *Camera) ProjectWith(vp mgl64.Mat4, p mgl64.Vec3) (screen mgl64.Vec2, depth float64, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-12 {
		return mgl64.Vec2{}, 0, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	sx := (nx + 1) / 2 * float64(c.Width)
	sy := (1 - ny) / 2 * float64(c.Height)
	return mgl64.Vec2{sx, sy}, w, true
}

// tanHalf returns tan(fov/2).
func (c *Camera) tanHalf() float64 {
	return math.Tan(c.FOV / 2)
}

// PixelsPerUnit returns how many pixels one scene unit spans at distance d.
func (c *Camera) PixelsPerUnit(d float64) float64 {
	if d <= 1e-12 || !c.Ready() {
		return math.Inf(1)
	}
	return float64(c.Height) / (2 * d * c.tanHalf())
}

// InFrustum reports whether a sphere intersects the view frustum.
func (c *Camera) InFrustum(center mgl64.Vec3, radius float64) bool {
	rel := center.Sub(c.Position)
	z := rel.Dot(c.Forward())
	if z+radius < c.Near || z-radius > c.Far {
		return false
	}
	ty := c.tanHalf()
	tx := ty * c.Aspect()
	x := rel.Dot(c.Right())
	y := rel.Dot(c.Up())
	if math.Abs(x)-radius*math.Sqrt(1+tx*tx) > z*tx {
		return false
	}
	if math.Abs(y)-radius*math.Sqrt(1+ty*ty) > z*ty {
		return false
	}
	return true
}

// Ray returns the world ray through pixel (px, py).
func (c *Camera) Ray(px, py float64) (origin, dir mgl64.Vec3) {
	ndcX := px/float64(c.Width)*2 - 1
	ndcY := 1 - py/float64(c.Height)*2
	ty := c.tanHalf()
	tx := ty * c.Aspect()
	dir = c.Forward().
		Add(c.Right().Mul(ndcX * tx)).
		Add(c.Up().Mul(ndcY * ty)).
		Normalize()
	return c.Position, dir
}
