package covers

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	rl "github.com/gen2brain/raylib-go/raylib"
	_ "golang.org/x/image/webp"
)

// sampleSize is the side length covers are downscaled to before bucketing.
const sampleSize = 16

// NeutralColor is the fallback accent when extraction fails.
var NeutralColor = rl.NewColor(96, 96, 96, 255)

// DominantColor extracts the dominant color of the image at path: the cover is
// downscaled, pixels are grouped into coarse RGB buckets, and the average of
// the fullest bucket wins. Callers should fall back to NeutralColor on error.
func DominantColor(path string) (rl.Color, error) {
	f, err := os.Open(path)
	if err != nil {
		return NeutralColor, fmt.Errorf("covers: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return NeutralColor, fmt.Errorf("covers: %w", err)
	}
	return dominantOf(img), nil
}

// dominantOf buckets the downscaled image by the top 3 bits of each channel
// and averages the most common bucket.
func dominantOf(img image.Image) rl.Color {
	small := transform.Resize(img, sampleSize, sampleSize, transform.Linear)

	type bucket struct {
		count   int
		r, g, b uint32
	}
	buckets := make(map[uint32]*bucket)
	var best *bucket
	for y := 0; y < sampleSize; y++ {
		for x := 0; x < sampleSize; x++ {
			r, g, b, a := small.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			r >>= 8
			g >>= 8
			b >>= 8
			key := (r>>5)<<6 | (g>>5)<<3 | (b >> 5)
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += r
			bk.g += g
			bk.b += b
			if best == nil || bk.count > best.count {
				best = bk
			}
		}
	}
	if best == nil || best.count == 0 {
		return NeutralColor
	}
	n := uint32(best.count)
	return rl.NewColor(uint8(best.r/n), uint8(best.g/n), uint8(best.b/n), 255)
}

// ParseHex parses "#rrggbb" (or "rrggbb") into a color. Returns false for
// anything malformed.
func ParseHex(s string) (rl.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rl.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rl.Color{}, false
	}
	return rl.NewColor(uint8(v>>16), uint8(v>>8), uint8(v), 255), true
}
