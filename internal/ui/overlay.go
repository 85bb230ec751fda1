// Package ui draws the 2D album-card overlay and reports card rectangles and
// typed events to the scene. The core only consumes screen rects and event
// values; no 3D state lives here.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/anchor"
	"vinyl-scene/internal/records"
)

const (
	cardWidth         = 132
	cardHeight        = 132
	cardGap           = 18
	cardMarginBottom  = 36
	cardWidthCompact  = 88
	cardHeightCompact = 88
	cardGapCompact    = 10

	// compactThreshold: viewports narrower than this switch to the compact layout.
	compactThreshold = 1100

	titleFontSize = 16
)

// Event is a typed overlay event. The scene switches on the concrete type;
// there are no stringly-typed event names.
type Event interface{ overlayEvent() }

// CardClicked fires when a card is activated with the pointer.
type CardClicked struct {
	Index int
	ID    string
}

// HoverChanged fires when the hovered card changes. Index is -1 when the
// pointer leaves all cards.
type HoverChanged struct {
	Index int
}

// LayoutChanged fires when the overlay flips between regular and compact
// layout (viewport resize).
type LayoutChanged struct {
	Compact bool
}

func (CardClicked) overlayEvent()   {}
func (HoverChanged) overlayEvent()  {}
func (LayoutChanged) overlayEvent() {}

// Overlay lays the catalog out as a card strip along the bottom of the
// viewport. Rects are cached and recomputed only when the viewport or the
// catalog changes, to avoid per-frame allocation.
type Overlay struct {
	records []records.Record

	screenW, screenH float32
	compact          bool

	rects      []anchor.Rect
	rectsValid bool

	hovered int
	focused int

	font     rl.Font
	textures coverTextures
}

// NewOverlay returns an overlay over the given records with nothing hovered
// or focused.
func NewOverlay(recs []records.Record) *Overlay {
	return &Overlay{records: recs, hovered: -1, focused: -1}
}

// SetViewport updates the layout for a new viewport size. Returns a
// LayoutChanged event when the compact flag flips, nil otherwise.
func (o *Overlay) SetViewport(w, h float32) Event {
	if w == o.screenW && h == o.screenH {
		return nil
	}
	o.screenW, o.screenH = w, h
	o.rectsValid = false
	compact := w < compactThreshold
	if compact != o.compact {
		o.compact = compact
		return LayoutChanged{Compact: compact}
	}
	return nil
}

// Compact reports whether the compact layout is active.
func (o *Overlay) Compact() bool { return o.compact }

// Focused returns the focused card index, or -1.
func (o *Overlay) Focused() int { return o.focused }

// SetFocused sets the focused card index (-1 clears).
func (o *Overlay) SetFocused(i int) {
	if i < -1 || i >= len(o.records) {
		i = -1
	}
	o.focused = i
}

// CardRect returns the screen rect for card i. Out-of-range indices return a
// zero (not live) rect, which the anchor projection treats as absent.
func (o *Overlay) CardRect(i int) anchor.Rect {
	o.ensureRects()
	if i < 0 || i >= len(o.rects) {
		return anchor.Rect{}
	}
	return o.rects[i]
}

// FocusedRect returns the focused card's rect, or a zero rect when nothing is
// focused.
func (o *Overlay) FocusedRect() anchor.Rect {
	return o.CardRect(o.focused)
}

// Update runs hit-testing for this frame's pointer state and returns the
// events it produced, oldest first.
func (o *Overlay) Update(pointer rl.Vector2, clicked bool) []Event {
	o.ensureRects()
	var events []Event

	hit := -1
	for i, r := range o.rects {
		if pointer.X >= r.X && pointer.X < r.X+r.Width &&
			pointer.Y >= r.Y && pointer.Y < r.Y+r.Height {
			hit = i
			break
		}
	}
	if hit != o.hovered {
		o.hovered = hit
		events = append(events, HoverChanged{Index: hit})
	}
	if clicked && hit >= 0 {
		o.focused = hit
		events = append(events, CardClicked{Index: hit, ID: o.records[hit].ID})
	}
	return events
}

// ensureRects lays cards out in a centered strip along the bottom edge,
// wrapping to additional rows above when the strip would overflow.
func (o *Overlay) ensureRects() {
	if o.rectsValid {
		return
	}
	w, h, gap := o.cardMetrics()
	n := len(o.records)
	if cap(o.rects) < n {
		o.rects = make([]anchor.Rect, n)
	}
	o.rects = o.rects[:n]
	if n == 0 || o.screenW <= 0 {
		o.rectsValid = true
		return
	}

	perRow := int((o.screenW - gap) / (w + gap))
	if perRow < 1 {
		perRow = 1
	}
	rows := (n + perRow - 1) / perRow
	for i := 0; i < n; i++ {
		row := i / perRow
		col := i % perRow
		inRow := perRow
		if row == rows-1 {
			inRow = n - row*perRow
		}
		rowWidth := float32(inRow)*w + float32(inRow-1)*gap
		x := (o.screenW-rowWidth)/2 + float32(col)*(w+gap)
		y := o.screenH - cardMarginBottom - h - float32(rows-1-row)*(h+gap)
		o.rects[i] = anchor.Rect{X: x, Y: y, Width: w, Height: h}
	}
	o.rectsValid = true
}

func (o *Overlay) cardMetrics() (w, h, gap float32) {
	if o.compact {
		return cardWidthCompact, cardHeightCompact, cardGapCompact
	}
	return cardWidth, cardHeight, cardGap
}
