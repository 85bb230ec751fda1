package selection

import (
	"context"
	"sync"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/records"
)

// gatedFetcher blocks each Fetch until its gate is released, so tests control
// async completion order.
type gatedFetcher struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan struct{})}
}

func (g *gatedFetcher) gate(cover string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[cover]
	if !ok {
		ch = make(chan struct{})
		g.gates[cover] = ch
	}
	return ch
}

func (g *gatedFetcher) Fetch(_ context.Context, cover string) (string, error) {
	<-g.gate(cover)
	return "/cached/" + cover, nil
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition never held")
}

func TestStaleTokenDiscarded(t *testing.T) {
	fetcher := newGatedFetcher()
	p := New(fetcher, nil)
	p.extract = func(string) (rl.Color, error) { return rl.NewColor(1, 2, 3, 255), nil }

	recA := records.Record{Title: "a", Cover: "a.jpg"}
	recB := records.Record{Title: "b", Cover: "b.jpg"}

	var mu sync.Mutex
	var applied []string
	apply := func(v Visual) {
		mu.Lock()
		applied = append(applied, v.Record.Title)
		mu.Unlock()
	}

	p.Select(context.Background(), recA) // token 1, stays blocked
	p.Select(context.Background(), recB) // token 2

	close(fetcher.gate("b.jpg"))
	waitFor(t, func() bool {
		p.Apply(apply)
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1 && applied[0] == "b"
	})

	// The slow, stale fetch for a completes after b was applied: it must not
	// mutate visible state.
	close(fetcher.gate("a.jpg"))
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 100; i++ {
		p.Apply(apply)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 {
		t.Fatalf("stale result was applied: %v", applied)
	}
}

func TestAccentOverrideSkipsExtraction(t *testing.T) {
	fetcher := newGatedFetcher()
	close(fetcher.gate("c.jpg"))
	p := New(fetcher, nil)
	p.extract = func(string) (rl.Color, error) {
		t.Errorf("extract called despite accent override")
		return rl.Color{}, nil
	}

	rec := records.Record{Title: "c", Cover: "c.jpg", Accent: "#c03a2b"}
	var got *Visual
	p.Select(context.Background(), rec)
	waitFor(t, func() bool {
		p.Apply(func(v Visual) { got = &v })
		return got != nil
	})
	if got.Accent.R != 0xc0 || got.Accent.G != 0x3a || got.Accent.B != 0x2b {
		t.Fatalf("accent override not used: %v", got.Accent)
	}
	if got.CoverPath != "/cached/c.jpg" {
		t.Fatalf("cover path not resolved: %q", got.CoverPath)
	}
}

func TestFetchFailureFallsBackToNeutral(t *testing.T) {
	p := New(failFetcher{}, nil)
	rec := records.Record{Title: "d", Cover: "d.jpg"}
	var got *Visual
	p.Select(context.Background(), rec)
	waitFor(t, func() bool {
		p.Apply(func(v Visual) { got = &v })
		return got != nil
	})
	if got.CoverPath != "" {
		t.Fatalf("failed fetch produced a cover path")
	}
	// Neutral fallback, selection still applied (never crashes the scene).
	if got.Record.Title != "d" {
		t.Fatalf("wrong record applied: %+v", got.Record)
	}
}

type failFetcher struct{}

func (failFetcher) Fetch(context.Context, string) (string, error) {
	return "", context.DeadlineExceeded
}

func TestTokenMonotonic(t *testing.T) {
	fetcher := newGatedFetcher()
	p := New(fetcher, nil)
	last := p.Token()
	for i := 0; i < 10; i++ {
		p.Select(context.Background(), records.Record{Title: "x"})
		if tok := p.Token(); tok <= last {
			t.Fatalf("token not monotone: %d after %d", tok, last)
		} else {
			last = tok
		}
	}
}
