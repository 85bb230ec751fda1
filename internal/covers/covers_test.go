package covers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchLocalPathPassthrough(t *testing.T) {
	f := NewFetcher(nil)
	local := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(local, []byte("png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := f.Fetch(context.Background(), local)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != local {
		t.Fatalf("local path not returned as-is: %q", got)
	}
}

func TestFetchCacheHitWithoutURLExtension(t *testing.T) {
	f := NewFetcher(nil)
	f.destDir = t.TempDir()

	// Saved earlier under the Content-Type extension; the URL itself carries
	// none. The cache must still hit, without touching the network.
	cached := filepath.Join(f.destDir, "blue-lines.png")
	if err := os.WriteFile(cached, []byte("png"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := f.Fetch(context.Background(), "https://cdn.example.com/art/blue-lines?sz=600")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != cached {
		t.Fatalf("cache missed: %q", got)
	}
}

func TestFetchEmptySource(t *testing.T) {
	f := NewFetcher(nil)
	if _, err := f.Fetch(context.Background(), ""); err == nil {
		t.Fatalf("empty cover source did not error")
	}
}
