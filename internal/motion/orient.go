package motion

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Orientation returns the record's rotation for this frame. While the record
// is camera-locked (tracking, following or above the activation height, and
// not returning) it is billboarded to face the camera, overriding swing tilt.
// Otherwise the rotation is swing tilt plus accumulated spin plus the return
// twist, with the platter wobble superimposed while on the turntable.
func Orientation(s *State, f Frame) rl.Matrix {
	if f.TrackCamera && (f.FollowCamera || s.aboveActivation()) && !s.Returning {
		return billboard(s.Target, f.CameraPos)
	}

	tiltX := s.Swing.CurrentX
	tiltZ := s.Swing.CurrentZ
	if s.OnTurntable {
		tiltX += wobbleAmp * math32.Sin(s.wobblePhase)
		tiltZ += wobbleAmp * math32.Cos(s.wobblePhase*0.9)
	}
	spin := rl.MatrixRotateY(s.Spin + s.ReturnTwist)
	tilt := rl.MatrixMultiply(rl.MatrixRotateX(tiltX), rl.MatrixRotateZ(tiltZ))
	return rl.MatrixMultiply(spin, tilt)
}

// billboard orients the disc so its face normal (local +Y) points at the
// camera: right = world-up × to-camera, then the basis is re-orthonormalized.
// Degenerate to-camera directions fall back to identity.
func billboard(pos, cameraPos rl.Vector3) rl.Matrix {
	toCam := rl.Vector3Subtract(cameraPos, pos)
	if rl.Vector3Length(toCam) < 1e-6 {
		return rl.MatrixIdentity()
	}
	toCam = rl.Vector3Normalize(toCam)
	right := rl.Vector3CrossProduct(rl.NewVector3(0, 1, 0), toCam)
	if rl.Vector3Length(right) < 1e-6 {
		// Looking straight down the world up axis: the disc already faces the camera.
		return rl.MatrixIdentity()
	}
	right = rl.Vector3Normalize(right)
	back := rl.Vector3CrossProduct(right, toCam)
	return matrixFromBasis(right, toCam, back)
}

// matrixFromBasis builds a rotation matrix with the given column axes
// (local X, Y, Z in world space).
func matrixFromBasis(x, y, z rl.Vector3) rl.Matrix {
	var m rl.Matrix
	m.M0, m.M1, m.M2 = x.X, x.Y, x.Z
	m.M4, m.M5, m.M6 = y.X, y.Y, y.Z
	m.M8, m.M9, m.M10 = z.X, z.Y, z.Z
	m.M15 = 1
	return m
}
