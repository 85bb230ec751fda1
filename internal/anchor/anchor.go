// Package anchor converts 2D overlay coordinates into 3D world points by
// casting through the camera at a fixed virtual depth. It keeps a 3D object
// glued to a 2D card that moves independently in the page layout.
package anchor

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const deg2Rad = math32.Pi / 180

// FocusDepth is the assumed distance along the camera ray at which overlay
// anchors live.
const FocusDepth = 8.0

// Vertical screen offsets (pixels) applied below a card's center, depending on
// the overlay layout mode.
const (
	anchorOffsetY        = 40
	anchorOffsetYCompact = 16
)

// Rect is a screen-space rectangle, as reported by the overlay for a card.
type Rect struct {
	X, Y, Width, Height float32
}

// Live reports whether the rect is usable as an anchor source. A card mid
// fade-transition reports a zero-size rect and is not live.
func (r Rect) Live() bool { return r.Width > 0 && r.Height > 0 }

// Center returns the rect's center point in screen pixels.
func (r Rect) Center() rl.Vector2 {
	return rl.NewVector2(r.X+r.Width/2, r.Y+r.Height/2)
}

// Unproject maps a screen point through the camera to the world point at the
// given distance along the view ray. Pure math over the camera pose, so it
// works headless. Degenerate viewports return the camera position.
func Unproject(cam rl.Camera3D, screen rl.Vector2, screenW, screenH, depth float32) rl.Vector3 {
	if screenW <= 0 || screenH <= 0 {
		return cam.Position
	}
	forward := rl.Vector3Subtract(cam.Target, cam.Position)
	if rl.Vector3Length(forward) < 1e-6 {
		forward = rl.NewVector3(0, 0, -1)
	}
	forward = rl.Vector3Normalize(forward)
	right := rl.Vector3CrossProduct(forward, cam.Up)
	if rl.Vector3Length(right) < 1e-6 {
		right = rl.NewVector3(1, 0, 0)
	}
	right = rl.Vector3Normalize(right)
	up := rl.Vector3CrossProduct(right, forward)

	ndcX := 2*screen.X/screenW - 1
	ndcY := 1 - 2*screen.Y/screenH
	tanF := math32.Tan(cam.Fovy * 0.5 * deg2Rad)
	aspect := screenW / screenH

	dir := forward
	dir = rl.Vector3Add(dir, rl.Vector3Scale(right, ndcX*tanF*aspect))
	dir = rl.Vector3Add(dir, rl.Vector3Scale(up, ndcY*tanF))
	dir = rl.Vector3Normalize(dir)
	return rl.Vector3Add(cam.Position, rl.Vector3Scale(dir, depth))
}

// Project maps a world point to screen pixels, the inverse of Unproject.
// Returns false for points behind the camera or degenerate viewports.
func Project(cam rl.Camera3D, world rl.Vector3, screenW, screenH float32) (rl.Vector2, bool) {
	if screenW <= 0 || screenH <= 0 {
		return rl.Vector2{}, false
	}
	forward := rl.Vector3Subtract(cam.Target, cam.Position)
	if rl.Vector3Length(forward) < 1e-6 {
		forward = rl.NewVector3(0, 0, -1)
	}
	forward = rl.Vector3Normalize(forward)
	right := rl.Vector3CrossProduct(forward, cam.Up)
	if rl.Vector3Length(right) < 1e-6 {
		right = rl.NewVector3(1, 0, 0)
	}
	right = rl.Vector3Normalize(right)
	up := rl.Vector3CrossProduct(right, forward)

	rel := rl.Vector3Subtract(world, cam.Position)
	depth := rl.Vector3DotProduct(rel, forward)
	if depth < 1e-6 {
		return rl.Vector2{}, false
	}
	tanF := math32.Tan(cam.Fovy * 0.5 * deg2Rad)
	aspect := screenW / screenH
	ndcX := rl.Vector3DotProduct(rel, right) / (depth * tanF * aspect)
	ndcY := rl.Vector3DotProduct(rel, up) / (depth * tanF)
	return rl.NewVector2((ndcX+1)/2*screenW, (1-ndcY)/2*screenH), true
}

// FocusAnchor derives a 3D anchor from an overlay card's rect every frame the
// card is live, and falls back to the last known screen hint while the card is
// momentarily absent instead of snapping to an arbitrary default.
type FocusAnchor struct {
	// Compact selects the tighter vertical offset used by the compact overlay
	// layout. Toggled externally on layout changes.
	Compact bool

	lastHint rl.Vector2
	hasHint  bool
}

// Update recomputes the anchor from the card rect. Returns the world anchor
// and false when no rect has ever been live (no hint to fall back to).
func (a *FocusAnchor) Update(cam rl.Camera3D, rect Rect, screenW, screenH float32) (rl.Vector3, bool) {
	if rect.Live() {
		a.lastHint = rect.Center()
		a.hasHint = true
	}
	if !a.hasHint {
		return rl.Vector3{}, false
	}
	hint := a.lastHint
	if a.Compact {
		hint.Y += anchorOffsetYCompact
	} else {
		hint.Y += anchorOffsetY
	}
	return Unproject(cam, hint, screenW, screenH, FocusDepth), true
}

// Reset drops the stored screen hint (e.g. when the focused card changes).
func (a *FocusAnchor) Reset() {
	a.hasHint = false
	a.lastHint = rl.Vector2{}
}
