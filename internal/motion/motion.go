// Package motion advances a single draggable record's physics-like state once
// per frame: drag-follow with an elastic hang offset, two-phase elastic return
// to the anchor, damped swing tilt, and camera-relative position locking.
package motion

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Hand-tuned motion constants. Damping bases are per-frame factors at 60 FPS;
// Damp converts them to time-delta-correct factors.
const (
	// MaxDragRadius clamps planar (x/y) displacement from the anchor while dragging.
	MaxDragRadius = 3.0

	// hangOffsetY is the rest offset of the record below the grab point, like a
	// pendant hanging from the pointer.
	hangOffsetY = -0.6

	hangRelaxBase  = 0.12
	dragFollowBase = 0.4

	// dragFloorOffset keeps the record from dipping into the platter while dragged.
	dragFloorOffset = 0.1

	// ActivationHeight: height above the anchor past which camera tracking may
	// capture the camera-relative offset.
	ActivationHeight = 0.75

	// ReturnClearance is the lift height above the anchor used to clear the
	// spindle nub before dropping.
	ReturnClearance = 1.2

	returnLateralBase = 0.14
	returnDropBase    = 0.2
	// ReturnEpsilon: distances below this count as arrived.
	ReturnEpsilon = 0.01

	swingResponse  = 0.18
	swingDampBase  = 0.16
	swingRelaxBase = 0.1
	maxTilt        = 0.5

	wobbleAmp  = 0.015
	wobbleFreq = 1.7

	// returnTwistFinal is the twist angle baked in at the start of a return,
	// eased out once the record lands.
	returnTwistFinal = 0.35
	twistEaseBase    = 0.12
)

// Swing is the damped tilt state: targets follow the instantaneous velocity,
// currents follow the targets.
type Swing struct {
	TargetX, TargetZ   float32
	CurrentX, CurrentZ float32
}

// State is the per-object motion state. One State exists per logical owner of
// the shared record; ownership hand-offs call Reset with the new anchor.
type State struct {
	Anchor     rl.Vector3 // home position when idle
	Target     rl.Vector3 // where the record is steering toward
	LastTarget rl.Vector3 // previous Target, for velocity estimates

	Swing Swing

	// CamOffset is the record's position in the camera basis (right/up/forward
	// components). Valid only while tracking; invalidated when tracking stops or
	// a return starts, recaptured lazily once conditions are met again.
	CamOffset      rl.Vector3
	CamOffsetValid bool

	Returning  bool
	ClearedNub bool

	ReturnTwist       float32
	ReturnTwistTarget float32

	Spin        float32 // accumulated platter rotation, radians
	OnTurntable bool

	hangOffset  rl.Vector3
	wasDragging bool
	wobblePhase float32
}

// NewState returns a motion state at rest on the given anchor.
func NewState(anchor rl.Vector3) *State {
	s := &State{}
	s.Reset(anchor)
	return s
}

// Reset snaps the state onto a new anchor and clears all transient motion.
// Called on every ownership hand-off.
func (s *State) Reset(anchor rl.Vector3) {
	s.Anchor = anchor
	s.Target = anchor
	s.LastTarget = anchor
	s.Swing = Swing{}
	s.CamOffset = rl.Vector3{}
	s.CamOffsetValid = false
	s.Returning = false
	s.ClearedNub = false
	s.ReturnTwist = 0
	s.ReturnTwistTarget = 0
	s.hangOffset = rl.Vector3{}
	s.wasDragging = false
}

// Frame carries the per-frame inputs for Step: pointer state, the camera basis
// from the rig, and flags owned by the scene.
type Frame struct {
	Dt       float32
	Dragging bool
	Pointer  rl.Vector3 // pointer's projected world position at the drag plane

	// TrackCamera enables the camera-relative position lock.
	TrackCamera bool
	// FollowCamera holds the lock even below the activation height (focus card).
	FollowCamera bool

	CameraPos          rl.Vector3
	Right, Up, Forward rl.Vector3

	// SpinRate is the platter angular velocity in radians per second; applied
	// only while the record is on the turntable.
	SpinRate float32
}

// Result reports events produced by a Step.
type Result struct {
	// ReturnedToPlatter fires exactly once, on the tick a return completes.
	ReturnedToPlatter bool
}

// StartReturn begins the two-phase return to the anchor: lift to clearance
// height while closing horizontal distance, then drop. The camera-relative
// offset is invalidated and the return twist target armed.
func (s *State) StartReturn() {
	s.Returning = true
	s.ClearedNub = false
	s.CamOffsetValid = false
	s.ReturnTwistTarget = returnTwistFinal
}

// MoveAnchor relocates the anchor to follow its moving screen source (card
// drift on resize, compact-layout flips). Unless the record is being dragged
// or returning, the target carries the same delta and the camera lock is
// dropped so the next step recaptures it at the card's new position.
func (s *State) MoveAnchor(anchor rl.Vector3, dragging bool) {
	delta := rl.Vector3Subtract(anchor, s.Anchor)
	s.Anchor = anchor
	if dragging || s.Returning {
		return
	}
	if rl.Vector3Length(delta) < ReturnEpsilon {
		return
	}
	s.Target = rl.Vector3Add(s.Target, delta)
	s.CamOffsetValid = false
}

// Damp converts a per-frame damping base (tuned at 60 FPS) into a
// time-delta-correct interpolation factor: 1-(1-base)^(dt*60).
func Damp(base, dt float32) float32 {
	return 1 - math32.Pow(1-base, dt*60)
}

// Step advances the state by one frame and returns any events. The camera pose
// in f must already be current for this frame.
func Step(s *State, f Frame) Result {
	var res Result
	if f.Dt <= 0 {
		return res
	}
	prevTarget := s.Target

	switch {
	case f.Dragging:
		s.stepDrag(f)
	case s.Returning:
		res.ReturnedToPlatter = s.stepReturn(f)
	default:
		s.stepIdle(f)
	}
	s.wasDragging = f.Dragging

	s.stepSwing(prevTarget, f)
	s.stepTwist(f)

	if s.OnTurntable {
		s.Spin += f.SpinRate * f.Dt
		s.wobblePhase += f.Dt * wobbleFreq * 2 * math32.Pi
	}

	s.LastTarget = prevTarget
	return res
}

// stepDrag follows the pointer with an elastic hang offset, clamps planar
// displacement, pins depth to the anchor, and keeps the record above the
// platter. Captures the camera-relative offset when tracking above the
// activation height.
func (s *State) stepDrag(f Frame) {
	if !s.wasDragging {
		// Pick-up: seed the hang offset so the record doesn't jump to the pointer.
		s.hangOffset = rl.Vector3Subtract(s.Target, f.Pointer)
		s.Returning = false
		s.ClearedNub = false
	}

	// The hang offset relaxes toward the fixed rest offset below the grab point.
	rest := rl.NewVector3(0, hangOffsetY, 0)
	k := Damp(hangRelaxBase, f.Dt)
	s.hangOffset = rl.Vector3Lerp(s.hangOffset, rest, k)

	want := rl.Vector3Add(f.Pointer, s.hangOffset)
	follow := Damp(dragFollowBase, f.Dt)
	s.Target = rl.Vector3Lerp(s.Target, want, follow)

	// Depth pinned to the anchor; planar displacement clamped to the drag radius.
	s.Target.Z = s.Anchor.Z
	dx := s.Target.X - s.Anchor.X
	dy := s.Target.Y - s.Anchor.Y
	if dist := math32.Hypot(dx, dy); dist > MaxDragRadius {
		scale := MaxDragRadius / dist
		s.Target.X = s.Anchor.X + dx*scale
		s.Target.Y = s.Anchor.Y + dy*scale
	}

	// Floor: never dip into the platter surface.
	if floor := s.Anchor.Y + dragFloorOffset; s.Target.Y < floor {
		s.Target.Y = floor
	}

	if f.TrackCamera && s.aboveActivation() {
		s.captureCamOffset(f)
	} else if !f.TrackCamera {
		s.CamOffsetValid = false
	}
}

// stepReturn runs the two-phase return. Phase one holds the lift height and
// closes horizontal distance; phase two drops onto the anchor. Reports true on
// the tick the return completes.
func (s *State) stepReturn(f Frame) bool {
	lift := s.Anchor.Y + ReturnClearance

	if !s.ClearedNub {
		// Phase one: rise to (or hold) the clearance height, decay x/z to the anchor.
		k := Damp(returnLateralBase, f.Dt)
		s.Target.X += (s.Anchor.X - s.Target.X) * k
		s.Target.Z += (s.Anchor.Z - s.Target.Z) * k
		s.Target.Y += (lift - s.Target.Y) * Damp(returnDropBase, f.Dt)
		if math32.Abs(lift-s.Target.Y) < ReturnEpsilon {
			s.Target.Y = lift
		}
		if s.horizontalDistance() < ReturnEpsilon {
			s.Target.X = s.Anchor.X
			s.Target.Z = s.Anchor.Z
			s.ClearedNub = true
		}
		return false
	}

	// Phase two: vertical drop onto the anchor.
	k := Damp(returnDropBase, f.Dt)
	s.Target.Y += (s.Anchor.Y - s.Target.Y) * k
	if math32.Abs(s.Target.Y-s.Anchor.Y) < ReturnEpsilon && s.horizontalDistance() < ReturnEpsilon {
		s.Target = s.Anchor
		s.Returning = false
		s.ClearedNub = false
		s.ReturnTwistTarget = 0
		return true
	}
	return false
}

// stepIdle holds position unless the camera-relative lock applies; the lock is
// recaptured lazily when tracking is enabled above the activation height.
func (s *State) stepIdle(f Frame) {
	if !f.TrackCamera {
		s.CamOffsetValid = false
		return
	}
	if !s.CamOffsetValid && (f.FollowCamera || s.aboveActivation()) {
		s.captureCamOffset(f)
	}
	if s.CamOffsetValid {
		// Re-express the held offset in this frame's camera basis: the record
		// stays screen-locked as the camera moves.
		p := f.CameraPos
		p = rl.Vector3Add(p, rl.Vector3Scale(f.Right, s.CamOffset.X))
		p = rl.Vector3Add(p, rl.Vector3Scale(f.Up, s.CamOffset.Y))
		p = rl.Vector3Add(p, rl.Vector3Scale(f.Forward, s.CamOffset.Z))
		s.Target = p
	}
}

// stepSwing updates the damped tilt from the frame's velocity. Targets relax
// to zero when not dragging.
func (s *State) stepSwing(prevTarget rl.Vector3, f Frame) {
	if f.Dragging {
		vx := (s.Target.X - prevTarget.X) / f.Dt
		vy := (s.Target.Y - prevTarget.Y) / f.Dt
		s.Swing.TargetX = clampTilt(vy * swingResponse)
		s.Swing.TargetZ = clampTilt(-vx * swingResponse)
	} else {
		relax := Damp(swingRelaxBase, f.Dt)
		s.Swing.TargetX += (0 - s.Swing.TargetX) * relax
		s.Swing.TargetZ += (0 - s.Swing.TargetZ) * relax
	}
	k := Damp(swingDampBase, f.Dt)
	s.Swing.CurrentX = clampTilt(s.Swing.CurrentX + (s.Swing.TargetX-s.Swing.CurrentX)*k)
	s.Swing.CurrentZ = clampTilt(s.Swing.CurrentZ + (s.Swing.TargetZ-s.Swing.CurrentZ)*k)
}

// stepTwist eases the return twist toward its target (the fixed return angle
// while returning, zero after landing).
func (s *State) stepTwist(f Frame) {
	k := Damp(twistEaseBase, f.Dt)
	s.ReturnTwist += (s.ReturnTwistTarget - s.ReturnTwist) * k
	if math32.Abs(s.ReturnTwist-s.ReturnTwistTarget) < 1e-4 {
		s.ReturnTwist = s.ReturnTwistTarget
	}
}

// captureCamOffset records the target's position in the camera basis.
func (s *State) captureCamOffset(f Frame) {
	rel := rl.Vector3Subtract(s.Target, f.CameraPos)
	s.CamOffset = rl.NewVector3(
		rl.Vector3DotProduct(rel, f.Right),
		rl.Vector3DotProduct(rel, f.Up),
		rl.Vector3DotProduct(rel, f.Forward),
	)
	s.CamOffsetValid = true
}

// horizontalDistance is the x/z distance from target to anchor.
func (s *State) horizontalDistance() float32 {
	return math32.Hypot(s.Target.X-s.Anchor.X, s.Target.Z-s.Anchor.Z)
}

func (s *State) aboveActivation() bool {
	return s.Target.Y-s.Anchor.Y > ActivationHeight
}

func clampTilt(v float32) float32 {
	if v > maxTilt {
		return maxTilt
	}
	if v < -maxTilt {
		return -maxTilt
	}
	return v
}
