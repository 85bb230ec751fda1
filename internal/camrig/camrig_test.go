package camrig

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func closeTo(a, b, tol float32) bool { return math32.Abs(a-b) <= tol }

func TestFrameBoxFitDistance(t *testing.T) {
	r := New(45)
	box := rl.NewBoundingBox(rl.NewVector3(-1, -1, -1), rl.NewVector3(1, 1, 1))
	r.FrameBox(box, 1)
	want := 1 / math32.Tan(22.5*deg2Rad) // ≈ 2.414
	if !closeTo(r.FitDistance(), want, 1e-4) {
		t.Fatalf("fit distance = %v, want %v", r.FitDistance(), want)
	}
}

func TestFrameBoxIgnoresDegenerateBox(t *testing.T) {
	r := New(45)
	before := r.FitDistance()
	r.FrameBox(rl.NewBoundingBox(rl.NewVector3(0, 0, 0), rl.NewVector3(0, 0, 0)), 1)
	if r.FitDistance() != before {
		t.Fatalf("zero-size box changed fit distance")
	}
}

func TestPolarClampUnderRandomAnimation(t *testing.T) {
	r := New(45)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			r.SetPolarAngle(rng.Float32()*360-180, rng.Intn(2) == 0)
		case 1:
			dir := rl.NewVector3(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
			r.SetViewDirection(dir, rng.Intn(2) == 0)
		case 2:
			r.Orbit(rng.Float32()-0.5, (rng.Float32()-0.5)*4)
		}
		r.UpdateAnimation(rng.Float32() * 0.05)
		if math32.Abs(r.PolarAngle()) > polarLimit+1e-5 {
			t.Fatalf("step %d: polar %v outside ±%v", i, r.PolarAngle(), polarLimit)
		}
	}
}

func TestSetLookTargetEpsilonShortCircuit(t *testing.T) {
	r := New(45)
	r.SetLookTarget(rl.NewVector3(1, 2, 3), false)

	fired := false
	r.OnAnimationComplete(func() { fired = true })
	r.SetLookTarget(rl.NewVector3(1, 2, 3.0004), true)
	if !fired {
		t.Fatalf("callback did not fire synchronously for within-epsilon target")
	}
	if r.Animating() {
		t.Fatalf("tween armed for within-epsilon target")
	}
	if !closeTo(r.Camera.Target.Z, 3, 1e-3) {
		t.Fatalf("target moved on short-circuit: %v", r.Camera.Target)
	}
}

func TestSetPolarAngleEpsilonShortCircuit(t *testing.T) {
	r := New(45)
	r.SetPolarAngle(30, false)
	fired := false
	r.OnAnimationComplete(func() { fired = true })
	r.SetPolarAngle(30, true)
	if !fired {
		t.Fatalf("callback did not fire synchronously")
	}
}

func TestTweenCompletionFiresOnce(t *testing.T) {
	r := New(45)
	count := 0
	r.OnAnimationComplete(func() { count++ })
	r.SetLookTarget(rl.NewVector3(5, 0, 0), true)
	for i := 0; i < 120; i++ {
		r.UpdateAnimation(1.0 / 60)
	}
	if count != 1 {
		t.Fatalf("completion fired %d times, want 1", count)
	}
	if !closeTo(r.Camera.Target.X, 5, 1e-4) {
		t.Fatalf("target did not reach end value: %v", r.Camera.Target)
	}
}

func TestCallbackQueueClearedBeforeFiring(t *testing.T) {
	r := New(45)
	count := 0
	var rearm func()
	rearm = func() {
		count++
		if count > 5 {
			t.Fatalf("callback re-triggered itself")
		}
		// Re-registering during firing must not run again for this completion.
		r.OnAnimationComplete(rearm)
	}
	r.OnAnimationComplete(rearm)
	r.SetLookTarget(rl.NewVector3(2, 0, 0), true)
	for i := 0; i < 120; i++ {
		r.UpdateAnimation(1.0 / 60)
	}
	if count != 1 {
		t.Fatalf("callback fired %d times for one completion, want 1", count)
	}
}

func TestNewAnimateCallOverwritesTween(t *testing.T) {
	r := New(45)
	r.SetLookTarget(rl.NewVector3(10, 0, 0), true)
	r.UpdateAnimation(0.1)
	r.SetLookTarget(rl.NewVector3(0, 0, 10), true)
	for i := 0; i < 120; i++ {
		r.UpdateAnimation(1.0 / 60)
	}
	if !closeTo(r.Camera.Target.Z, 10, 1e-3) || !closeTo(r.Camera.Target.X, 0, 0.2) {
		t.Fatalf("second tween did not win: %v", r.Camera.Target)
	}
}

func TestSaveRestoreRotationState(t *testing.T) {
	r := New(45)
	r.SetPolarAngle(40, false)
	r.SetViewDirection(rl.NewVector3(1, 0.5, 0.2), false)
	r.SetLookTarget(rl.NewVector3(1, 1, 1), false)
	az, pol, target := r.Azimuth(), r.PolarAngle(), r.Camera.Target
	r.SaveRotationState()

	// Free-look away from the saved framing.
	r.Orbit(1.2, 0.4)
	r.Pan(80, -40)

	r.RestoreRotationState()
	if !r.Animating() {
		t.Fatalf("restore must animate")
	}
	for i := 0; i < 120; i++ {
		r.UpdateAnimation(1.0 / 60)
	}
	if !closeTo(r.Azimuth(), az, 1e-3) || !closeTo(r.PolarAngle(), pol, 1e-3) {
		t.Fatalf("angles not restored: got (%v,%v) want (%v,%v)", r.Azimuth(), r.PolarAngle(), az, pol)
	}
	if rl.Vector3Distance(r.Camera.Target, target) > 1e-3 {
		t.Fatalf("target not restored: %v want %v", r.Camera.Target, target)
	}
}

func TestZeroLengthViewDirectionIgnored(t *testing.T) {
	r := New(45)
	az, pol := r.Azimuth(), r.PolarAngle()
	r.SetViewDirection(rl.NewVector3(0, 0, 0), false)
	if r.Azimuth() != az || r.PolarAngle() != pol {
		t.Fatalf("zero-length direction changed angles")
	}
}

func TestEaseOutCubicMonotone(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 100; i++ {
		v := easeOutCubic(float32(i) / 100)
		if v < prev {
			t.Fatalf("ease not monotone at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if !closeTo(easeOutCubic(0), 0, 1e-6) || !closeTo(easeOutCubic(1), 1, 1e-6) {
		t.Fatalf("ease endpoints wrong")
	}
}

func TestBasisOrthonormal(t *testing.T) {
	r := New(45)
	r.Orbit(0.7, 0.3)
	right, up, forward := r.Basis()
	if !closeTo(rl.Vector3DotProduct(right, forward), 0, 1e-4) ||
		!closeTo(rl.Vector3DotProduct(up, forward), 0, 1e-4) ||
		!closeTo(rl.Vector3DotProduct(right, up), 0, 1e-4) {
		t.Fatalf("basis not orthogonal")
	}
	for _, v := range []rl.Vector3{right, up, forward} {
		if !closeTo(rl.Vector3Length(v), 1, 1e-4) {
			t.Fatalf("basis vector not unit length: %v", v)
		}
	}
}
