// Package selection runs the async visual refresh triggered by picking a new
// record: cover fetch and accent-color extraction happen off the render loop,
// and a monotonic update token makes late results lose to newer selections
// (last-write-wins) instead of overwriting them.
package selection

import (
	"context"
	"fmt"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"vinyl-scene/internal/covers"
	"vinyl-scene/internal/logger"
	"vinyl-scene/internal/records"
)

// Visual is the resolved presentation for a selected record.
type Visual struct {
	Record    records.Record
	CoverPath string
	Accent    rl.Color
}

// Fetcher resolves a cover source to a local file path.
type Fetcher interface {
	Fetch(ctx context.Context, cover string) (string, error)
}

type result struct {
	token  uint64
	visual Visual
}

// Pipeline coordinates selections with the render loop. Select may be called
// from the loop at any rate; Apply drains finished work each frame and applies
// only results whose token is still current.
type Pipeline struct {
	token   atomic.Uint64
	results chan result

	fetch Fetcher
	// extract derives the accent color from a cover file. Defaults to
	// covers.DominantColor; injectable for tests.
	extract func(path string) (rl.Color, error)

	log *logger.Logger
}

// New returns a pipeline using the given fetcher.
func New(fetch Fetcher, log *logger.Logger) *Pipeline {
	return &Pipeline{
		results: make(chan result, 8),
		fetch:   fetch,
		extract: covers.DominantColor,
		log:     log,
	}
}

// Select issues a new update token and starts the async visual work for rec.
// Any in-flight work for earlier selections keeps running but its result will
// be discarded at apply time.
func (p *Pipeline) Select(ctx context.Context, rec records.Record) {
	tok := p.token.Add(1)
	go func() {
		p.post(result{token: tok, visual: p.resolve(ctx, rec)})
	}()
}

// resolve produces the visual for a record: accent override when present,
// otherwise fetch the cover and extract its dominant color. Failures fall back
// to the neutral color and are logged, never surfaced.
func (p *Pipeline) resolve(ctx context.Context, rec records.Record) Visual {
	v := Visual{Record: rec, Accent: covers.NeutralColor}
	if c, ok := covers.ParseHex(rec.Accent); ok {
		v.Accent = c
	}
	if rec.Cover == "" {
		return v
	}
	path, err := p.fetch.Fetch(ctx, rec.Cover)
	if err != nil {
		p.logf("selection: cover for %q: %v", rec.Title, err)
		return v
	}
	v.CoverPath = path
	if rec.Accent != "" {
		return v
	}
	c, err := p.extract(path)
	if err != nil {
		p.logf("selection: color for %q: %v", rec.Title, err)
		return v
	}
	v.Accent = c
	return v
}

// post delivers a result without ever blocking the worker: when the buffer is
// full the oldest entry is discarded, since anything older is stale anyway.
func (p *Pipeline) post(r result) {
	for {
		select {
		case p.results <- r:
			return
		default:
			select {
			case <-p.results:
			default:
			}
		}
	}
}

// Apply drains finished results on the render loop, invoking apply for each
// one whose token still matches the latest issued token. Stale results are
// silently dropped. Never blocks.
func (p *Pipeline) Apply(apply func(Visual)) {
	for {
		select {
		case r := <-p.results:
			if r.token == p.token.Load() {
				apply(r.visual)
			}
		default:
			return
		}
	}
}

// Token returns the latest issued update token.
func (p *Pipeline) Token() uint64 { return p.token.Load() }

func (p *Pipeline) logf(format string, args ...any) {
	if p.log == nil {
		return
	}
	p.log.Log(fmt.Sprintf(format, args...))
}
