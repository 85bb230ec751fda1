package covers

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

func writeSolidPNG(t *testing.T, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "solid.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestDominantColorSolidImage(t *testing.T) {
	path := writeSolidPNG(t, color.RGBA{R: 180, G: 40, B: 60, A: 255})
	got, err := DominantColor(path)
	if err != nil {
		t.Fatalf("DominantColor: %v", err)
	}
	// Resampling may shift channels slightly; stay within a small tolerance.
	if absDiff(got.R, 180) > 4 || absDiff(got.G, 40) > 4 || absDiff(got.B, 60) > 4 {
		t.Fatalf("dominant color %v too far from (180,40,60)", got)
	}
}

func TestDominantColorMissingFile(t *testing.T) {
	got, err := DominantColor(filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatalf("missing file did not error")
	}
	if got != NeutralColor {
		t.Fatalf("error path did not return the neutral fallback")
	}
}

func TestParseHex(t *testing.T) {
	c, ok := ParseHex("#c03a2b")
	if !ok || c.R != 0xc0 || c.G != 0x3a || c.B != 0x2b || c.A != 255 {
		t.Fatalf("ParseHex = %v ok=%v", c, ok)
	}
	if _, ok := ParseHex("c03a2b"); !ok {
		t.Fatalf("bare hex rejected")
	}
	for _, bad := range []string{"", "#fff", "#zzzzzz", "#c03a2b00"} {
		if _, ok := ParseHex(bad); ok {
			t.Fatalf("ParseHex accepted %q", bad)
		}
	}
}

func TestFilenameHelpers(t *testing.T) {
	if got := filenameFromURL("https://cdn.example.com/art/blue-lines.jpg?sz=600"); got != "blue-lines" {
		t.Fatalf("filenameFromURL = %q", got)
	}
	if got := extensionFromURL("https://cdn.example.com/art/blue-lines.webp?x=1"); got != ".webp" {
		t.Fatalf("extensionFromURL = %q", got)
	}
	if got := extensionFromContentType("image/jpeg; charset=binary"); got != ".jpg" {
		t.Fatalf("extensionFromContentType = %q", got)
	}
	if got := sanitizeFilename("a b/c:d"); got != "a_b_c_d" {
		t.Fatalf("sanitizeFilename = %q", got)
	}
}
