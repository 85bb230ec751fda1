// Package records loads the album catalog that populates the overlay grid and
// the turntable labels.
package records

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// CatalogPath is the default catalog location, relative to the working
// directory (project root when run via go run ./cmd/portfolio).
const CatalogPath = "assets/records.yaml"

// Record is one album in the catalog. Cover may be a local path or an HTTP
// URL; Accent optionally overrides the color extracted from the cover.
type Record struct {
	ID     string `yaml:"id,omitempty"`
	Title  string `yaml:"title"`
	Artist string `yaml:"artist"`
	Year   int    `yaml:"year,omitempty"`
	Cover  string `yaml:"cover,omitempty"`
	Accent string `yaml:"accent,omitempty"` // hex, e.g. "#c03a2b"
}

// Catalog is the parsed record list.
type Catalog struct {
	Records []Record `yaml:"records"`
}

// Load reads and parses the catalog at path. Entries without a title are
// skipped; entries without an id get a generated UUID so selections can be
// referenced stably across the session.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	return Parse(data)
}

// Parse parses catalog YAML. See Load for the skip/id rules.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	kept := c.Records[:0]
	for _, r := range c.Records {
		if r.Title == "" {
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		kept = append(kept, r)
	}
	c.Records = kept
	return &c, nil
}

// ByID returns the record with the given id, or false.
func (c *Catalog) ByID(id string) (Record, bool) {
	for _, r := range c.Records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
