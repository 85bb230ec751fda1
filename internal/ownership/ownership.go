// Package ownership decides which logical owner (turntable, focus card, or an
// in-flight drop) drives the shared record's motion state. All transitions are
// dispose-old/construct-new pairs that run synchronously inside one event
// handler, so no frame ever observes a torn (double-owned or ownerless but
// visible) record.
package ownership

import (
	"fmt"

	"github.com/jinzhu/copier"
	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/logger"
	"vinyl-scene/internal/motion"
	"vinyl-scene/internal/records"
)

// Source identifies the owner currently authorized to drive the record.
type Source int

const (
	None Source = iota
	Turntable
	Focus
	Dropping
)

// String returns the source name for log lines.
func (s Source) String() string {
	switch s {
	case Turntable:
		return "turntable"
	case Focus:
		return "focus"
	case Dropping:
		return "dropping"
	}
	return "none"
}

// VisualOptions is the per-record visual state carried across hand-offs: the
// label text and the accent color extracted from the cover.
type VisualOptions struct {
	LabelText   string
	CoverPath   string
	AccentColor rl.Color
}

// Slot binds a record, its motion state, and its visuals under one owner.
type Slot struct {
	Record records.Record
	Motion *motion.State
	Visual VisualOptions

	// Turntable-only playback state.
	Playing      bool
	TonearmAngle float32
}

// Controller is the ownership state machine. Exactly one source is
// authoritative per tick; the dropping slot, when present, takes that role so
// an interrupted return keeps its in-progress motion.
type Controller struct {
	active    Source
	turntable *Slot
	focus     *Slot
	dropping  *Slot

	// pendingPromotion records an intended focus→turntable hand-off that has
	// been requested but not yet executed (e.g. waiting for the record to land).
	pendingPromotion bool

	log *logger.Logger
}

// NewController returns a controller with no owner.
func NewController(log *logger.Logger) *Controller {
	return &Controller{active: None, log: log}
}

// Active returns the currently authoritative source.
func (c *Controller) Active() Source { return c.active }

// ActiveSlot returns the slot driving the record this tick, or nil.
func (c *Controller) ActiveSlot() *Slot {
	switch c.active {
	case Turntable:
		return c.turntable
	case Focus:
		return c.focus
	case Dropping:
		return c.dropping
	}
	return nil
}

// FocusSlot returns the focus slot (may exist without being active).
func (c *Controller) FocusSlot() *Slot { return c.focus }

// TurntableSlot returns the turntable slot, or nil.
func (c *Controller) TurntableSlot() *Slot { return c.turntable }

// DroppingSlot returns the in-flight drop slot, or nil.
func (c *Controller) DroppingSlot() *Slot { return c.dropping }

// PromotionPending reports whether a focus→turntable hand-off is queued.
func (c *Controller) PromotionPending() bool { return c.pendingPromotion }

// RequestPromotion queues a focus→turntable hand-off. Logged no-op when there
// is no focus slot to promote.
func (c *Controller) RequestPromotion() {
	if c.focus == nil {
		c.logf("ownership: promotion requested with no focus slot")
		return
	}
	c.pendingPromotion = true
}

// SetFocus installs a new focus slot for the given record, anchored at the
// given world point. An existing focus slot is disposed first. The focus
// becomes active unless the turntable or an in-flight drop already drives.
func (c *Controller) SetFocus(rec records.Record, anchor rl.Vector3) *Slot {
	c.focus = &Slot{
		Record: rec,
		Motion: motion.NewState(anchor),
		Visual: VisualOptions{LabelText: rec.Title},
	}
	c.pendingPromotion = false
	if c.active == None || c.active == Focus {
		c.active = Focus
	}
	return c.focus
}

// ClearFocus disposes the focus slot. If the focus was active, the record has
// no owner afterwards.
func (c *Controller) ClearFocus() {
	c.focus = nil
	c.pendingPromotion = false
	if c.active == Focus {
		c.active = None
	}
}

// PromoteFocus executes the focus→turntable hand-off: the visual options are
// snapshotted, a turntable slot referencing the same motion state is
// constructed, the focus slot is nulled, and the active source flips — all
// before the caller toggles any visibility, so the record is never tagged as
// two owners at once. The motion state snaps onto the platter anchor.
// Returns false (logged) when there is no focus slot.
func (c *Controller) PromoteFocus(platterAnchor rl.Vector3) bool {
	if c.focus == nil {
		c.logf("ownership: promote with nil focus slot")
		c.pendingPromotion = false
		return false
	}
	var snap VisualOptions
	if err := copier.Copy(&snap, &c.focus.Visual); err != nil {
		c.logf("ownership: visual snapshot failed: %v", err)
		snap = c.focus.Visual
	}
	st := c.focus.Motion
	st.Reset(platterAnchor)
	st.OnTurntable = true
	c.turntable = &Slot{
		Record: c.focus.Record,
		Motion: st,
		Visual: snap,
	}
	c.focus = nil
	c.pendingPromotion = false
	c.active = Turntable
	return true
}

// DropInFlight transfers the active slot to the neutral dropping owner so an
// in-progress return keeps its motion state while a new selection takes over
// the old owner's role. The old owner is cleared atomically. Returns false
// (logged) when nothing is active or a drop is already in flight.
func (c *Controller) DropInFlight() bool {
	if c.dropping != nil {
		c.logf("ownership: drop requested while a drop is in flight")
		return false
	}
	switch c.active {
	case Turntable:
		c.dropping = c.turntable
		c.turntable = nil
	case Focus:
		c.dropping = c.focus
		c.focus = nil
		c.pendingPromotion = false
	default:
		c.logf("ownership: drop requested with no active owner")
		return false
	}
	c.dropping.Playing = false
	c.dropping.Motion.OnTurntable = false
	c.active = Dropping
	return true
}

// FinishDrop disposes the dropping slot once its return has completed and
// falls back to whichever owner still exists (turntable, then focus, else
// none). Logged no-op when nothing is dropping.
func (c *Controller) FinishDrop() {
	if c.dropping == nil {
		c.logf("ownership: finish drop with nothing in flight")
		return
	}
	c.dropping = nil
	switch {
	case c.turntable != nil:
		c.active = Turntable
	case c.focus != nil:
		c.active = Focus
	default:
		c.active = None
	}
}

// ReleaseTurntable reverses a promotion: playback stops, the tonearm resets,
// the turntable slot is nulled, and the active source falls back to the focus
// slot when one exists. Returns false (logged) when nothing is docked.
func (c *Controller) ReleaseTurntable() bool {
	if c.turntable == nil {
		c.logf("ownership: release with nothing on the turntable")
		return false
	}
	c.turntable.Playing = false
	c.turntable.TonearmAngle = 0
	c.turntable.Motion.OnTurntable = false
	c.turntable = nil
	if c.active == Turntable {
		if c.focus != nil {
			c.active = Focus
		} else {
			c.active = None
		}
	}
	return true
}

// CheckInvariant verifies the single-driver rule: the active source names an
// existing slot (or None with nothing to drive as dropping). Used by tests.
func (c *Controller) CheckInvariant() error {
	if c.dropping != nil && c.active != Dropping {
		return fmt.Errorf("drop in flight but active source is %v", c.active)
	}
	if c.ActiveSlot() == nil && c.active != None {
		return fmt.Errorf("active source %v has no slot", c.active)
	}
	if c.active == None && c.dropping != nil {
		return fmt.Errorf("ownerless record still in flight")
	}
	return nil
}

func (c *Controller) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.Log(fmt.Sprintf(format, args...))
}
