package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/records"
)

func testRecords(n int) []records.Record {
	recs := make([]records.Record, n)
	for i := range recs {
		recs[i] = records.Record{ID: string(rune('a' + i)), Title: "rec"}
	}
	return recs
}

func TestLayoutChangedOnCompactFlip(t *testing.T) {
	o := NewOverlay(testRecords(4))
	if ev := o.SetViewport(1600, 900); ev != nil {
		t.Fatalf("initial wide viewport flipped layout: %v", ev)
	}
	ev := o.SetViewport(900, 700)
	lc, ok := ev.(LayoutChanged)
	if !ok || !lc.Compact {
		t.Fatalf("narrow viewport did not emit compact LayoutChanged: %v", ev)
	}
	if ev := o.SetViewport(899, 700); ev != nil {
		t.Fatalf("resize without flip emitted: %v", ev)
	}
}

func TestClickFocusesCard(t *testing.T) {
	o := NewOverlay(testRecords(3))
	o.SetViewport(1600, 900)
	r := o.CardRect(1)
	if !r.Live() {
		t.Fatalf("card rect not live after viewport set")
	}
	center := r.Center()

	events := o.Update(rl.NewVector2(center.X, center.Y), true)
	var clicked *CardClicked
	for _, ev := range events {
		if c, ok := ev.(CardClicked); ok {
			clicked = &c
		}
	}
	if clicked == nil || clicked.Index != 1 {
		t.Fatalf("click did not hit card 1: %v", events)
	}
	if o.Focused() != 1 {
		t.Fatalf("focused = %d, want 1", o.Focused())
	}
	if o.FocusedRect() != r {
		t.Fatalf("FocusedRect mismatch")
	}
}

func TestHoverChangeEvents(t *testing.T) {
	o := NewOverlay(testRecords(2))
	o.SetViewport(1600, 900)
	c0 := o.CardRect(0).Center()

	events := o.Update(rl.NewVector2(c0.X, c0.Y), false)
	if len(events) != 1 {
		t.Fatalf("expected one hover event, got %v", events)
	}
	if hc, ok := events[0].(HoverChanged); !ok || hc.Index != 0 {
		t.Fatalf("wrong hover event: %v", events[0])
	}

	// Same position: no duplicate event.
	if events := o.Update(rl.NewVector2(c0.X, c0.Y), false); len(events) != 0 {
		t.Fatalf("duplicate hover event: %v", events)
	}

	// Off all cards: hover clears with index -1.
	events = o.Update(rl.NewVector2(1, 1), false)
	if hc, ok := events[0].(HoverChanged); !ok || hc.Index != -1 {
		t.Fatalf("hover not cleared: %v", events)
	}
}

func TestOutOfRangeRectNotLive(t *testing.T) {
	o := NewOverlay(testRecords(2))
	o.SetViewport(1600, 900)
	if o.CardRect(5).Live() || o.CardRect(-1).Live() {
		t.Fatalf("out-of-range rect reported live")
	}
	if o.FocusedRect().Live() {
		t.Fatalf("unfocused overlay reported a live focused rect")
	}
}

func TestCoverTextureEmptyPath(t *testing.T) {
	o := NewOverlay(testRecords(1))
	if tex := o.textures.texture(""); tex.ID != 0 {
		t.Fatalf("empty cover path produced texture id %d", tex.ID)
	}
	if o.textures.cache != nil {
		t.Fatalf("empty cover path allocated the cache")
	}
}

func TestRowsDoNotOverlap(t *testing.T) {
	o := NewOverlay(testRecords(20))
	o.SetViewport(800, 600)
	for i := 0; i < 20; i++ {
		ri := o.CardRect(i)
		if !ri.Live() {
			t.Fatalf("card %d rect not live", i)
		}
		if ri.X < 0 || ri.X+ri.Width > 800 {
			t.Fatalf("card %d overflows viewport: %+v", i, ri)
		}
		for j := i + 1; j < 20; j++ {
			rj := o.CardRect(j)
			if ri.X < rj.X+rj.Width && rj.X < ri.X+ri.Width &&
				ri.Y < rj.Y+rj.Height && rj.Y < ri.Y+ri.Height {
				t.Fatalf("cards %d and %d overlap: %+v vs %+v", i, j, ri, rj)
			}
		}
	}
}
