// Package camera provides the orbit camera rig for the mascot view.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// State is the orbit position around Target. Polar is measured from +Y,
// Azimuth around +Y starting at +Z; both in radians.
type State struct {
	Polar   float32
	Azimuth float32
	Radius  float32
	Target  mgl32.Vec3
}

// Limits is the window the angles are confined to.
type Limits struct {
	MinPolar   float32
	MaxPolar   float32
	MinAzimuth float32
	MaxAzimuth float32
}

// Clamp returns s with both angles inside the window.
func (l Limits) Clamp(s State) State {
	s.Polar = clamp(s.Polar, l.MinPolar, l.MaxPolar)
	s.Azimuth = clamp(s.Azimuth, l.MinAzimuth, l.MaxAzimuth)
	return s
}

// Config holds rig construction parameters.
type Config struct {
	FOV             float32 // Vertical, degrees
	Near            float32
	Far             float32
	Distance        float32
	Damping         float32
	RotateSpeed     float32
	AutoRotateSpeed float32
	Limits          Limits
}

// Rig is a perspective camera orbiting a fixed target. It has no pan or zoom
// inputs: Radius and Target never change after construction.
type Rig struct {
	state  State
	limits Limits

	// Rotation still to be applied, drained by Tick.
	pendingPolar   float32
	pendingAzimuth float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewportHeight float32

	damping         float32
	rotateSpeed     float32
	autoRotate      bool
	autoRotateSpeed float32
}

// NewRig creates a rig at Distance on +Z looking at the origin.
func NewRig(cfg Config) *Rig {
	r := &Rig{
		state: State{
			Polar:   math.Pi / 2,
			Azimuth: 0,
			Radius:  cfg.Distance,
		},
		limits:          cfg.Limits,
		fov:             cfg.FOV,
		aspect:          1,
		near:            cfg.Near,
		far:             cfg.Far,
		viewportHeight:  1,
		damping:         cfg.Damping,
		rotateSpeed:     cfg.RotateSpeed,
		autoRotateSpeed: cfg.AutoRotateSpeed,
	}
	r.state = r.limits.Clamp(r.state)
	return r
}

// State returns the current orbit state.
func (r *Rig) State() State {
	return r.state
}

// ApplyInteractionDelta queues a drag of dx, dy pixels. Dragging the full
// viewport height turns the view by 2π times the rotate speed. The queued
// rotation is trimmed so it can never carry the state past the window.
func (r *Rig) ApplyInteractionDelta(dx, dy float32) {
	k := 2 * math.Pi / r.viewportHeight * r.rotateSpeed
	r.pendingAzimuth -= dx * k
	r.pendingPolar -= dy * k
	r.trimPending()
}

// SetAutoRotate toggles idle rotation.
func (r *Rig) SetAutoRotate(on bool) {
	r.autoRotate = on
}

// AutoRotate reports whether idle rotation is on.
func (r *Rig) AutoRotate() bool {
	return r.autoRotate
}

// Tick applies one damped step of the queued rotation, plus auto-rotation
// for dt seconds when enabled.
func (r *Rig) Tick(dt float32) {
	if r.autoRotate {
		// One full turn per 60s at speed 1.
		r.pendingAzimuth -= 2 * math.Pi / 60 * r.autoRotateSpeed * dt
		r.trimPending()
	}

	r.state.Azimuth += r.pendingAzimuth * r.damping
	r.state.Polar += r.pendingPolar * r.damping
	r.state = r.limits.Clamp(r.state)

	r.pendingAzimuth *= 1 - r.damping
	r.pendingPolar *= 1 - r.damping
}

// trimPending keeps state+pending inside the window.
func (r *Rig) trimPending() {
	r.pendingAzimuth = clamp(r.pendingAzimuth, r.limits.MinAzimuth-r.state.Azimuth, r.limits.MaxAzimuth-r.state.Azimuth)
	r.pendingPolar = clamp(r.pendingPolar, r.limits.MinPolar-r.state.Polar, r.limits.MaxPolar-r.state.Polar)
}

// SetViewport updates the aspect ratio and the drag scale from the output size.
func (r *Rig) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.aspect = float32(width) / float32(height)
	r.viewportHeight = float32(height)
}

// Aspect returns the projection aspect ratio.
func (r *Rig) Aspect() float32 {
	return r.aspect
}

// Position returns the camera position in world space.
func (r *Rig) Position() mgl32.Vec3 {
	s := r.state
	sinP := float32(math.Sin(float64(s.Polar)))
	return s.Target.Add(mgl32.Vec3{
		s.Radius * sinP * float32(math.Sin(float64(s.Azimuth))),
		s.Radius * float32(math.Cos(float64(s.Polar))),
		s.Radius * sinP * float32(math.Cos(float64(s.Azimuth))),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (r *Rig) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(r.Position(), r.state.Target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the current aspect.
func (r *Rig) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(r.fov), r.aspect, r.near, r.far)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
