package camrig

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	deg2Rad = math32.Pi / 180
	rad2Deg = 180 / math32.Pi

	// polarLimit keeps the camera away from the poles so the orbit basis never
	// degenerates (gimbal flip at ±90°).
	polarLimit = 85 * deg2Rad

	// targetEpsilon: SetLookTarget/SetPolarAngle calls landing within this of the
	// current state complete synchronously with zero visible motion.
	targetEpsilon = 0.001

	minZoom = 0.5
	maxZoom = 2.5

	// panSpeed scales screen-pixel pan deltas into world units at distance 1.
	panSpeed = 0.0015
)

// rotationState is a snapshot of the orbit framing: angles plus look-at target.
type rotationState struct {
	azimuth float32
	polar   float32
	target  rl.Vector3
}

// Rig owns the camera pose. Orbit angles and the look-at target are the source
// of truth; Camera.Position is derived from them every UpdateAnimation call.
// Everything else reads the pose, only the rig mutates it.
type Rig struct {
	Camera rl.Camera3D

	azimuth float32 // radians, around world Y
	polar   float32 // radians, clamped to ±polarLimit
	zoom    float32
	fitDist float32

	tw         tween
	onComplete []func()

	saved    rotationState
	hasSaved bool
}

// New returns a rig with a perspective camera at the default orbit
// (azimuth 0, slight downward polar) looking at the origin.
func New(fovy float32) *Rig {
	r := &Rig{
		azimuth: 0,
		polar:   20 * deg2Rad,
		zoom:    1,
		fitDist: 10,
	}
	r.Camera.Target = rl.NewVector3(0, 0, 0)
	r.Camera.Up = rl.NewVector3(0, 1, 0)
	r.Camera.Fovy = fovy
	r.Camera.Projection = rl.CameraPerspective
	r.applyPose()
	return r
}

// FrameBox recomputes the fit distance so an object with the given bounding box
// fills the viewport at the given offset factor (1 = exact fit, >1 = padding).
// Does not animate; the new distance takes effect on the next applyPose.
func (r *Rig) FrameBox(box rl.BoundingBox, offset float32) {
	size := box.Max.X - box.Min.X
	if s := box.Max.Y - box.Min.Y; s > size {
		size = s
	}
	if s := box.Max.Z - box.Min.Z; s > size {
		size = s
	}
	if size <= 0 {
		return
	}
	if offset <= 0 {
		offset = 1
	}
	halfFov := r.Camera.Fovy * 0.5 * deg2Rad
	r.fitDist = size * 0.5 / math32.Tan(halfFov) * offset
	r.applyPose()
}

// FitDistance returns the current framing distance (before zoom).
func (r *Rig) FitDistance() float32 { return r.fitDist }

// Azimuth returns the current azimuth angle in radians.
func (r *Rig) Azimuth() float32 { return r.azimuth }

// PolarAngle returns the current polar angle in radians.
func (r *Rig) PolarAngle() float32 { return r.polar }

// SetViewDirection points the orbit along dir, the direction from the look-at
// target toward the camera. Zero-length directions keep the current angles.
// With animate=false the angles snap immediately; with animate=true an orbit
// tween is armed (the look-at target is unaffected either way).
func (r *Rig) SetViewDirection(dir rl.Vector3, animate bool) {
	if rl.Vector3Length(dir) < 1e-6 {
		return
	}
	dir = rl.Vector3Normalize(dir)
	pol := clampPolar(math32.Asin(dir.Y))
	az := math32.Atan2(dir.X, dir.Z)
	if !animate {
		r.cancelTween()
		r.azimuth, r.polar = az, pol
		r.applyPose()
		return
	}
	r.armAngles(az, pol)
}

// SetLookTarget moves the look-at target, snapping or tweening. Calls landing
// within targetEpsilon of the current target are idempotent: no tween is armed
// and completion callbacks fire synchronously.
func (r *Rig) SetLookTarget(target rl.Vector3, animate bool) {
	if rl.Vector3Distance(target, r.Camera.Target) < targetEpsilon {
		r.fireCompletion()
		return
	}
	if !animate {
		r.cancelTween()
		r.Camera.Target = target
		r.applyPose()
		return
	}
	r.tw = tween{
		active:      true,
		animTarget:  true,
		duration:    defaultTweenDuration,
		startTarget: r.Camera.Target,
		endTarget:   target,
	}
}

// SetPolarAngle tweens (or snaps) the polar angle to the given value in
// degrees, holding azimuth fixed. Same epsilon short-circuit as SetLookTarget.
func (r *Rig) SetPolarAngle(degrees float32, animate bool) {
	pol := clampPolar(degrees * deg2Rad)
	if math32.Abs(pol-r.polar) < targetEpsilon {
		r.fireCompletion()
		return
	}
	if !animate {
		r.cancelTween()
		r.polar = pol
		r.applyPose()
		return
	}
	r.armAngles(r.azimuth, pol)
}

// Orbit applies an immediate, unanimated orbit delta (pointer drag). Any
// in-flight tween is dropped so manual control and animation never fight.
func (r *Rig) Orbit(deltaAzimuth, deltaPolar float32) {
	r.cancelTween()
	r.azimuth += deltaAzimuth
	r.polar = clampPolar(r.polar + deltaPolar)
	r.applyPose()
}

// Pan moves the look-at target in the camera's right/up plane by the given
// screen-pixel deltas, scaled by the current distance.
func (r *Rig) Pan(dx, dy float32) {
	r.cancelTween()
	right, up, _ := r.Basis()
	scale := r.distance() * panSpeed
	r.Camera.Target = rl.Vector3Add(r.Camera.Target, rl.Vector3Scale(right, -dx*scale))
	r.Camera.Target = rl.Vector3Add(r.Camera.Target, rl.Vector3Scale(up, dy*scale))
	r.applyPose()
}

// SetZoom sets the zoom factor, clamped to [minZoom, maxZoom].
func (r *Rig) SetZoom(zoom float32) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	r.zoom = zoom
	r.applyPose()
}

// ZoomBy multiplies the current zoom by factor (clamped).
func (r *Rig) ZoomBy(factor float32) { r.SetZoom(r.zoom * factor) }

// Zoom returns the current zoom factor.
func (r *Rig) Zoom() float32 { return r.zoom }

// SaveRotationState captures azimuth, polar, and the look-at target so the
// exact framing can be restored after the user free-looks.
func (r *Rig) SaveRotationState() {
	r.saved = rotationState{azimuth: r.azimuth, polar: r.polar, target: r.Camera.Target}
	r.hasSaved = true
}

// RestoreRotationState animates back to the last saved framing. No-op when
// nothing has been saved. Restoring always animates.
func (r *Rig) RestoreRotationState() {
	if !r.hasSaved {
		return
	}
	r.tw = tween{
		active:      true,
		animAngles:  true,
		animTarget:  true,
		duration:    defaultTweenDuration,
		startAz:     r.azimuth,
		endAz:       r.saved.azimuth,
		startPol:    r.polar,
		endPol:      r.saved.polar,
		startTarget: r.Camera.Target,
		endTarget:   r.saved.target,
	}
}

// OnAnimationComplete registers a one-shot callback fired when the current
// tween completes (or synchronously by an epsilon short-circuit). The queue is
// cleared before firing, so a callback that arms a new animation and registers
// again will not re-trigger itself.
func (r *Rig) OnAnimationComplete(cb func()) {
	if cb == nil {
		return
	}
	r.onComplete = append(r.onComplete, cb)
}

// Animating reports whether a camera tween is in flight.
func (r *Rig) Animating() bool { return r.tw.active }

// UpdateAnimation advances the in-flight tween by dt seconds and re-derives
// Camera.Position. Call once per frame before the pose is consumed for
// rendering or ray-casting.
func (r *Rig) UpdateAnimation(dt float32) {
	eased, done := r.tw.tick(dt)
	if r.tw.active || done {
		if done {
			eased = 1
		}
		if r.tw.animAngles {
			r.azimuth = lerp(r.tw.startAz, r.tw.endAz, eased)
			r.polar = clampPolar(lerp(r.tw.startPol, r.tw.endPol, eased))
		}
		if r.tw.animTarget {
			r.Camera.Target = rl.Vector3Lerp(r.tw.startTarget, r.tw.endTarget, eased)
		}
	}
	r.applyPose()
	if done {
		r.fireCompletion()
	}
}

// Basis returns the camera's orthonormal right/up/forward vectors. Forward
// points from the camera toward the look-at target.
func (r *Rig) Basis() (right, up, forward rl.Vector3) {
	forward = rl.Vector3Subtract(r.Camera.Target, r.Camera.Position)
	if rl.Vector3Length(forward) < 1e-6 {
		forward = rl.NewVector3(0, 0, -1)
	}
	forward = rl.Vector3Normalize(forward)
	right = rl.Vector3CrossProduct(forward, r.Camera.Up)
	if rl.Vector3Length(right) < 1e-6 {
		right = rl.NewVector3(1, 0, 0)
	}
	right = rl.Vector3Normalize(right)
	up = rl.Vector3CrossProduct(right, forward)
	return right, up, forward
}

// distance is the orbit radius: fit distance divided by zoom.
func (r *Rig) distance() float32 {
	if r.zoom <= 0 {
		return r.fitDist
	}
	return r.fitDist / r.zoom
}

// applyPose recomputes Camera.Position from the orbit angles, distance, and
// look-at target.
func (r *Rig) applyPose() {
	d := r.distance()
	cosPol := math32.Cos(r.polar)
	offset := rl.NewVector3(
		d*cosPol*math32.Sin(r.azimuth),
		d*math32.Sin(r.polar),
		d*cosPol*math32.Cos(r.azimuth),
	)
	r.Camera.Position = rl.Vector3Add(r.Camera.Target, offset)
}

// armAngles arms an orbit tween over azimuth and polar only.
func (r *Rig) armAngles(az, pol float32) {
	r.tw = tween{
		active:     true,
		animAngles: true,
		duration:   defaultTweenDuration,
		startAz:    r.azimuth,
		endAz:      az,
		startPol:   r.polar,
		endPol:     clampPolar(pol),
	}
}

// cancelTween drops the in-flight tween without firing its callbacks.
func (r *Rig) cancelTween() { r.tw.active = false }

// fireCompletion drains the one-shot callback queue. The list is cleared
// before invocation so re-registration during firing is safe.
func (r *Rig) fireCompletion() {
	if len(r.onComplete) == 0 {
		return
	}
	cbs := r.onComplete
	r.onComplete = nil
	for _, cb := range cbs {
		cb()
	}
}

func clampPolar(p float32) float32 {
	if p > polarLimit {
		return polarLimit
	}
	if p < -polarLimit {
		return -polarLimit
	}
	return p
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
