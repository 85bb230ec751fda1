package camrig

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// defaultTweenDuration is the duration of an animated camera transition, in seconds.
const defaultTweenDuration = 0.6

// tween is a single in-flight camera animation. At most one tween is active at a
// time: arming a new one overwrites the previous without firing its callbacks.
// A tween may animate orbit angles, the look-at target, or both (pose restore).
type tween struct {
	active     bool
	animAngles bool
	animTarget bool
	progress   float32
	duration   float32

	startAz, endAz   float32
	startPol, endPol float32
	startTarget      rl.Vector3
	endTarget        rl.Vector3
}

// easeOutCubic maps linear progress t in [0,1] to 1-(1-t)^3: fast start, slow finish.
func easeOutCubic(t float32) float32 {
	inv := 1 - t
	return 1 - inv*inv*inv
}

// tick advances the tween by dt seconds and returns eased progress and whether
// the tween completed on this tick. Progress is monotone; a finished tween is
// inert until re-armed.
func (t *tween) tick(dt float32) (eased float32, done bool) {
	if !t.active {
		return 0, false
	}
	if t.duration <= 0 {
		t.progress = 1
	} else {
		t.progress += dt / t.duration
	}
	if t.progress >= 1 {
		t.progress = 1
		t.active = false
		return 1, true
	}
	return easeOutCubic(t.progress), false
}
