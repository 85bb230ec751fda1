package records

import "testing"

const sampleYAML = `
records:
  - id: "e7a1f1f0-0000-4000-8000-000000000001"
    title: "Blue Lines"
    artist: "Massive Attack"
    year: 1991
    cover: "assets/covers/blue-lines.jpg"
    accent: "#1c4f8a"
  - title: "Untitled"
    artist: "Someone"
  - artist: "No Title Here"
`

func TestParseCatalog(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(c.Records) != 2 {
		t.Fatalf("got %d records, want 2 (titleless entry skipped)", len(c.Records))
	}
	if c.Records[0].Year != 1991 || c.Records[0].Accent != "#1c4f8a" {
		t.Fatalf("first record fields wrong: %+v", c.Records[0])
	}
	if c.Records[1].ID == "" {
		t.Fatalf("missing id was not generated")
	}
}

func TestByID(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r, ok := c.ByID("e7a1f1f0-0000-4000-8000-000000000001")
	if !ok || r.Title != "Blue Lines" {
		t.Fatalf("ByID lookup failed: %+v ok=%v", r, ok)
	}
	if _, ok := c.ByID("nope"); ok {
		t.Fatalf("ByID matched a missing id")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("records: [")); err == nil {
		t.Fatalf("invalid YAML did not error")
	}
}
