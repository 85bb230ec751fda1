package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSetsVariables(t *testing.T) {
	t.Setenv("COVER_BASE_URL", "")
	t.Setenv("ENV_TEST_QUOTED", "")

	path := filepath.Join(t.TempDir(), ".env")
	content := "# cover CDN\n" +
		"COVER_BASE_URL=https://cdn.example.com/covers\n" +
		"ENV_TEST_QUOTED=\"x y\"\n" +
		"not a pair\n" +
		"=missing\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("COVER_BASE_URL"); got != "https://cdn.example.com/covers" {
		t.Fatalf("COVER_BASE_URL = %q", got)
	}
	if got := os.Getenv("ENV_TEST_QUOTED"); got != "x y" {
		t.Fatalf("quoted value = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing file errored: %v", err)
	}
}
