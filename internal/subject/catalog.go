package subject

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the YAML form of a set of custom subjects, used to carry custom
// subjects across sessions.
type Catalog struct {
	Subjects []CatalogEntry `yaml:"subjects"`
}

type CatalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Context     string `yaml:"context,omitempty"`
	Icon        string `yaml:"icon,omitempty"`
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode subject catalog failed: %w", err)
	}
	return &c, nil
}

// LoadCatalog reads a catalog file. A missing file yields an empty catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read subject catalog failed: %w", err)
	}
	return ParseCatalog(data)
}

func SaveCatalog(path string, c *Catalog) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode subject catalog failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write subject catalog failed: %w", err)
	}
	return nil
}

// Import registers every catalog entry it can. Entries that collide with an
// existing name or have no name are reported as skipped.
func (r *Registry) Import(c *Catalog) (added, skipped []string) {
	if c == nil {
		return nil, nil
	}
	for _, e := range c.Subjects {
		if _, err := r.Register(e.Name, e.Description, e.Context, e.Icon); err != nil {
			skipped = append(skipped, e.Name)
			continue
		}
		added = append(added, e.Name)
	}
	return added, skipped
}

// ExportCustom returns the session's custom subjects as a catalog.
func (r *Registry) ExportCustom() *Catalog {
	c := &Catalog{Subjects: make([]CatalogEntry, 0, len(r.custom))}
	for _, s := range r.custom {
		c.Subjects = append(c.Subjects, CatalogEntry{
			Name:        s.Name,
			Description: s.Description,
			Context:     s.Context,
			Icon:        s.Icon,
		})
	}
	return c
}
