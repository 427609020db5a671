package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DragState is the pointer state of the orbit controller.
type DragState int

const (
	Idle DragState = iota
	Dragging
)

func (s DragState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// maxElevation keeps the camera off the poles where the up vector degenerates.
const maxElevation = math.Pi/2 - 0.01

// OrbitConfig holds orbit tuning.
type OrbitConfig struct {
	MinDistance   float32
	MaxDistance   float32
	Damping       float32 // fraction of the remaining distance covered per tick, (0, 1]
	RotateSpeed   float32 // radians per pixel of drag
	ZoomSpeed     float32 // relative distance change per scroll unit
	SettleEpsilon float32
}

// DefaultOrbitConfig mirrors the feel of browser orbit controls with damping.
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		MinDistance:   4,
		MaxDistance:   30,
		Damping:       0.05,
		RotateSpeed:   0.005,
		ZoomSpeed:     0.1,
		SettleEpsilon: 1e-5,
	}
}

// Orbit moves a Camera on a sphere around its target. Pointer input moves the
// target angles; Update eases the actual angles toward them every tick.
type Orbit struct {
	cam *Camera
	cfg OrbitConfig

	state        DragState
	lastX, lastY float32

	azimuth, elevation, distance float32
	goalAzimuth, goalElevation   float32
	goalDistance                 float32
}

// NewOrbit starts orbiting from the camera's current position.
func NewOrbit(cam *Camera, cfg OrbitConfig) *Orbit {
	o := &Orbit{cam: cam, cfg: cfg}
	az, el, dist := sphericalFrom(cam.Position.Sub(cam.Target))
	o.azimuth, o.elevation, o.distance = az, clampElevation(el), o.clampDistance(dist)
	o.goalAzimuth, o.goalElevation, o.goalDistance = o.azimuth, o.elevation, o.distance
	o.apply()
	return o
}

// Camera returns the controlled camera.
func (o *Orbit) Camera() *Camera { return o.cam }

// State returns the current drag state.
func (o *Orbit) State() DragState { return o.state }

// Angles returns the current azimuth, elevation (radians) and distance.
func (o *Orbit) Angles() (azimuth, elevation, distance float32) {
	return o.azimuth, o.elevation, o.distance
}

// Goal returns the target azimuth, elevation and distance.
func (o *Orbit) Goal() (azimuth, elevation, distance float32) {
	return o.goalAzimuth, o.goalElevation, o.goalDistance
}

// PointerDown starts a drag at (x, y).
func (o *Orbit) PointerDown(x, y float32) {
	o.state = Dragging
	o.lastX, o.lastY = x, y
}

// PointerMove rotates the goal while dragging and is ignored otherwise.
func (o *Orbit) PointerMove(x, y float32) {
	if o.state != Dragging {
		return
	}
	dx, dy := x-o.lastX, y-o.lastY
	o.lastX, o.lastY = x, y

	o.goalAzimuth -= dx * o.cfg.RotateSpeed
	o.goalElevation = clampElevation(o.goalElevation + dy*o.cfg.RotateSpeed)
}

// PointerUp ends a drag.
func (o *Orbit) PointerUp() { o.state = Idle }

// PointerLeave ends a drag when the pointer leaves the viewport.
func (o *Orbit) PointerLeave() { o.state = Idle }

// Scroll zooms in for positive delta and out for negative delta.
func (o *Orbit) Scroll(delta float32) {
	o.goalDistance = o.clampDistance(o.goalDistance * (1 - delta*o.cfg.ZoomSpeed))
}

// Update eases the camera toward the goal and repositions it. Called once per
// tick regardless of the drag state, which gives the release its momentum.
func (o *Orbit) Update() {
	o.azimuth = o.ease(o.azimuth, o.goalAzimuth)
	o.elevation = o.ease(o.elevation, o.goalElevation)
	o.distance = o.ease(o.distance, o.goalDistance)
	o.wrapAzimuth()
	o.apply()
}

// Settled reports whether the camera has reached its goal.
func (o *Orbit) Settled() bool {
	return o.azimuth == o.goalAzimuth && o.elevation == o.goalElevation && o.distance == o.goalDistance
}

func (o *Orbit) ease(current, goal float32) float32 {
	diff := goal - current
	if float32(math.Abs(float64(diff))) < o.cfg.SettleEpsilon {
		return goal
	}
	next := current + diff*o.cfg.Damping
	// The step fell below float32 resolution at this magnitude.
	if next == current {
		return goal
	}
	return next
}

// wrapAzimuth keeps the azimuth in [-π, π], shifting the goal by the same
// number of turns so the remaining gap is unchanged.
func (o *Orbit) wrapAzimuth() {
	if o.azimuth >= -math.Pi && o.azimuth <= math.Pi {
		return
	}
	turns := math.Round(float64(o.azimuth) / (2 * math.Pi))
	shift := turns * 2 * math.Pi
	o.azimuth = float32(float64(o.azimuth) - shift)
	o.goalAzimuth = float32(float64(o.goalAzimuth) - shift)
}

func (o *Orbit) apply() {
	o.cam.Position = o.cam.Target.Add(cartesian(o.azimuth, o.elevation, o.distance))
}

func (o *Orbit) clampDistance(d float32) float32 {
	return mgl32.Clamp(d, o.cfg.MinDistance, o.cfg.MaxDistance)
}

func clampElevation(e float32) float32 {
	return mgl32.Clamp(e, -maxElevation, maxElevation)
}

// cartesian converts orbit angles to an offset from the target. Azimuth 0
// looks down -Z from +Z; elevation is measured from the XZ plane.
func cartesian(azimuth, elevation, distance float32) mgl32.Vec3 {
	az, el := float64(azimuth), float64(elevation)
	return mgl32.Vec3{
		distance * float32(math.Cos(el)*math.Sin(az)),
		distance * float32(math.Sin(el)),
		distance * float32(math.Cos(el)*math.Cos(az)),
	}
}

func sphericalFrom(offset mgl32.Vec3) (azimuth, elevation, distance float32) {
	distance = offset.Len()
	if distance == 0 {
		return 0, 0, 0
	}
	azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	elevation = float32(math.Asin(float64(mgl32.Clamp(offset[1]/distance, -1, 1))))
	return azimuth, elevation, distance
}
