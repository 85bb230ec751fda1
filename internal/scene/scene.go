// Package scene wires the interaction core together: camera rig, record
// motion, ownership, anchor projection, selection pipeline, and the card
// overlay. The scene context is constructed once at startup; there are no
// package-level singletons.
package scene

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/anchor"
	"vinyl-scene/internal/camrig"
	"vinyl-scene/internal/covers"
	"vinyl-scene/internal/logger"
	"vinyl-scene/internal/motion"
	"vinyl-scene/internal/ownership"
	"vinyl-scene/internal/records"
	"vinyl-scene/internal/selection"
	"vinyl-scene/internal/ui"
)

const (
	cameraFovy = 45

	platterY      = 1.0
	recordRadius  = 1.8
	restingHeight = 0.05 // record sits this far above the platter surface

	// platterSnapRadius: releasing the record with its center horizontally
	// within this distance of the spindle docks it.
	platterSnapRadius = 1.2

	// spinRate is 33⅓ rpm in radians per second.
	spinRate = 33.3333 * 2 * math32.Pi / 60

	tonearmPlayAngle = 0.42
	tonearmEaseBase  = 0.08

	dockedPolarDeg = 55
)

// platterAnchor is where a docked record rests.
var platterAnchor = rl.NewVector3(0, platterY+restingHeight, 0)

// platterCenter is the camera's default look-at target.
var platterCenter = rl.NewVector3(0, platterY, 0)

// Scene owns all interaction state for one session.
type Scene struct {
	rig      *camrig.Rig
	overlay  *ui.Overlay
	owner    *ownership.Controller
	pipeline *selection.Pipeline
	fetcher  *covers.Fetcher
	catalog  *records.Catalog
	log      *logger.Logger

	focusAnchor anchor.FocusAnchor
	deck        deck

	dragging  bool
	freeLook  bool
	lastFrame motion.Frame

	// coverPaths maps record id → local cover path, fed by the pipeline.
	coverPaths map[string]string
	accent     rl.Color

	GridVisible bool
}

// New builds the scene context for the given catalog and starts a background
// cover prefetch. The camera frames the platter from the default direction.
func New(catalog *records.Catalog, log *logger.Logger) *Scene {
	fetcher := covers.NewFetcher(log)
	s := &Scene{
		rig:         camrig.New(cameraFovy),
		overlay:     ui.NewOverlay(catalog.Records),
		owner:       ownership.NewController(log),
		fetcher:     fetcher,
		pipeline:    selection.New(fetcher, log),
		catalog:     catalog,
		log:         log,
		coverPaths:  make(map[string]string),
		accent:      covers.NeutralColor,
		GridVisible: true,
	}

	// Frame the platter region and settle on the default view.
	bounds := rl.NewBoundingBox(
		rl.NewVector3(-platterRadius*2, 0, -platterRadius*2),
		rl.NewVector3(platterRadius*2, platterY+3, platterRadius*2),
	)
	s.rig.FrameBox(bounds, 1.4)
	s.rig.SetLookTarget(platterCenter, false)
	s.rig.SetViewDirection(rl.NewVector3(0.3, 0.55, 1), false)

	go fetcher.Prefetch(context.Background(), catalog.Records)
	return s
}

// Rig exposes the camera rig (render loop and tests).
func (s *Scene) Rig() *camrig.Rig { return s.rig }

// SetFont forwards the UI font to the overlay.
func (s *Scene) SetFont(font rl.Font) { s.overlay.SetFont(font) }

// SelectedID returns the id of the record currently focused or docked, or ""
// when no record is owned.
func (s *Scene) SelectedID() string {
	if slot := s.owner.FocusSlot(); slot != nil {
		return slot.Record.ID
	}
	if slot := s.owner.TurntableSlot(); slot != nil {
		return slot.Record.ID
	}
	return ""
}

// Update advances the scene by dt seconds: input, ownership and anchor
// updates, camera animation, then the motion step — in that order, so the
// motion state always reads a current camera pose.
func (s *Scene) Update(dt float32) {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if ev := s.overlay.SetViewport(w, h); ev != nil {
		s.handleEvent(ev)
	}

	mouse := rl.GetMousePosition()
	clicked := rl.IsMouseButtonPressed(rl.MouseButtonLeft)
	s.updateCameraInput(mouse)

	slot := s.owner.ActiveSlot()

	// The record wins pointer contention over the overlay.
	recordHit := slot != nil && !s.dragging && s.pointerOnRecord(mouse, slot, w, h)
	if clicked && recordHit {
		s.dragging = true
	} else if !s.dragging && !s.freeLook {
		for _, ev := range s.overlay.Update(mouse, clicked) {
			s.handleEvent(ev)
		}
		slot = s.owner.ActiveSlot()
	}
	if s.dragging && rl.IsMouseButtonReleased(rl.MouseButtonLeft) {
		s.endDrag(slot)
	}

	// Keep the focus slot glued to its card while the card owns the record.
	// MoveAnchor carries the target along and drops the camera lock, so a card
	// that shifts in the layout pulls the record with it.
	if s.owner.Active() == ownership.Focus && slot != nil && !s.owner.PromotionPending() {
		if p, ok := s.focusAnchor.Update(s.rig.Camera, s.overlay.FocusedRect(), w, h); ok {
			slot.Motion.MoveAnchor(p, s.dragging)
		}
	}

	s.pipeline.Apply(s.applyVisual)

	s.rig.UpdateAnimation(dt)

	if slot != nil {
		f := s.motionFrame(dt, mouse, slot, w, h)
		s.lastFrame = f
		if res := motion.Step(slot.Motion, f); res.ReturnedToPlatter {
			s.onLanded()
		}
	}

	if tt := s.owner.TurntableSlot(); tt != nil && tt.Playing {
		tt.TonearmAngle += (tonearmPlayAngle - tt.TonearmAngle) * motion.Damp(tonearmEaseBase, dt)
	}
}

// updateCameraInput handles free-look: V toggles it (saving and restoring the
// rotation state), drag orbits, middle-drag pans, wheel zooms.
func (s *Scene) updateCameraInput(mouse rl.Vector2) {
	if rl.IsKeyPressed(rl.KeyV) {
		if s.freeLook {
			s.freeLook = false
			s.rig.RestoreRotationState()
		} else {
			s.freeLook = true
			s.rig.SaveRotationState()
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.rig.ZoomBy(1 + wheel*0.05)
	}
	if !s.freeLook {
		return
	}
	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		s.rig.Orbit(-delta.X*0.005, delta.Y*0.005)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		s.rig.Pan(delta.X, delta.Y)
	}
}

// handleEvent dispatches a typed overlay event.
func (s *Scene) handleEvent(ev ui.Event) {
	switch e := ev.(type) {
	case ui.CardClicked:
		s.selectCard(e.Index)
	case ui.HoverChanged:
		// Hover highlight is drawn by the overlay itself.
	case ui.LayoutChanged:
		s.focusAnchor.Compact = e.Compact
	}
}

// selectCard starts a new selection: an in-flight return is handed to the
// neutral dropping owner, a docked record is released, and a fresh focus slot
// is installed under the clicked card. Visual work runs async behind the
// update token.
func (s *Scene) selectCard(index int) {
	if index < 0 || index >= len(s.catalog.Records) {
		return
	}
	rec := s.catalog.Records[index]

	if slot := s.owner.ActiveSlot(); slot != nil && slot.Motion.Returning && s.owner.Active() != ownership.Dropping {
		s.owner.DropInFlight()
	} else if s.owner.Active() == ownership.Turntable {
		s.owner.ReleaseTurntable()
	}

	s.focusAnchor.Reset()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	point, ok := s.focusAnchor.Update(s.rig.Camera, s.overlay.FocusedRect(), w, h)
	if !ok {
		point = platterAnchor
	}
	s.owner.SetFocus(rec, point)
	s.pipeline.Select(context.Background(), rec)
	s.rig.SetLookTarget(platterCenter, true)
	s.logf("scene: selected %q", rec.Title)
}

// endDrag releases the record: over the platter a promotion is queued and the
// record returns onto the spindle; anywhere else it returns to its anchor.
func (s *Scene) endDrag(slot *ownership.Slot) {
	s.dragging = false
	if slot == nil {
		return
	}
	st := slot.Motion
	overPlatter := math32.Hypot(st.Target.X-platterAnchor.X, st.Target.Z-platterAnchor.Z) < platterSnapRadius
	if overPlatter && s.owner.Active() == ownership.Focus {
		s.owner.RequestPromotion()
		st.Anchor = platterAnchor
	}
	st.StartReturn()
}

// onLanded handles a completed return: a queued promotion executes now, a
// neutral drop is disposed, and a record landing on the platter starts
// playing.
func (s *Scene) onLanded() {
	switch s.owner.Active() {
	case ownership.Dropping:
		s.owner.FinishDrop()
	case ownership.Focus:
		if !s.owner.PromotionPending() {
			return
		}
		if !s.owner.PromoteFocus(platterAnchor) {
			return
		}
		tt := s.owner.TurntableSlot()
		tt.Playing = true
		s.deck.labelDirty = true
		// Settle the framing on the docked record, then tilt down over it.
		s.rig.OnAnimationComplete(func() {
			s.rig.SetPolarAngle(dockedPolarDeg, true)
		})
		s.rig.SetLookTarget(platterCenter, true)
		s.logf("scene: %q docked", tt.Record.Title)
	case ownership.Turntable:
		if tt := s.owner.TurntableSlot(); tt != nil {
			tt.Playing = true
		}
	}
}

// motionFrame assembles the per-frame inputs for the motion step from the
// rig's current pose and the pointer.
func (s *Scene) motionFrame(dt float32, mouse rl.Vector2, slot *ownership.Slot, w, h float32) motion.Frame {
	right, up, forward := s.rig.Basis()
	f := motion.Frame{
		Dt:        dt,
		Dragging:  s.dragging,
		CameraPos: s.rig.Camera.Position,
		Right:     right,
		Up:        up,
		Forward:   forward,
	}
	if s.owner.Active() == ownership.Focus {
		f.TrackCamera = true
		f.FollowCamera = !s.dragging
	}
	if s.dragging {
		f.Pointer = s.pointerWorld(mouse, slot.Motion.Anchor.Z, w, h)
	}
	if tt := s.owner.TurntableSlot(); tt != nil && tt.Playing {
		f.SpinRate = spinRate
	}
	return f
}

// pointerWorld intersects the pointer ray with the vertical drag plane at
// depth z. Rays nearly parallel to the plane fall back to the focus depth.
func (s *Scene) pointerWorld(mouse rl.Vector2, z, w, h float32) rl.Vector3 {
	cam := s.rig.Camera
	near := anchor.Unproject(cam, mouse, w, h, 1)
	dir := rl.Vector3Subtract(near, cam.Position)
	if math32.Abs(dir.Z) < 1e-4 {
		return anchor.Unproject(cam, mouse, w, h, anchor.FocusDepth)
	}
	t := (z - cam.Position.Z) / dir.Z
	if t <= 0 {
		return anchor.Unproject(cam, mouse, w, h, anchor.FocusDepth)
	}
	return rl.Vector3Add(cam.Position, rl.Vector3Scale(dir, t))
}

// pointerOnRecord tests the pointer against the record's disc in the drag
// plane.
func (s *Scene) pointerOnRecord(mouse rl.Vector2, slot *ownership.Slot, w, h float32) bool {
	p := s.pointerWorld(mouse, slot.Motion.Anchor.Z, w, h)
	d := math32.Hypot(p.X-slot.Motion.Target.X, p.Y-slot.Motion.Target.Y)
	return d <= recordRadius*1.1
}

// applyVisual installs a finished selection result: cover path and accent are
// recorded, and whichever slot still holds that record picks up the visuals.
// Stale results never reach here (token check in the pipeline).
func (s *Scene) applyVisual(v selection.Visual) {
	if v.CoverPath != "" {
		s.coverPaths[v.Record.ID] = v.CoverPath
	}
	s.accent = v.Accent
	for _, slot := range []*ownership.Slot{s.owner.FocusSlot(), s.owner.TurntableSlot(), s.owner.DroppingSlot()} {
		if slot != nil && slot.Record.ID == v.Record.ID {
			slot.Visual.CoverPath = v.CoverPath
			slot.Visual.AccentColor = v.Accent
		}
	}
	s.deck.labelDirty = true
}

func (s *Scene) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.Log(fmt.Sprintf(format, args...))
}
