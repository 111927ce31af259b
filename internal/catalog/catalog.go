// Package catalog holds the reference item table: canonical names, OCR
// aliases, and precomputed embedding variants for visual matching.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
)

// Entry is one catalog item. Each entry carries one or more unit-normalized
// embedding vectors; multiple variants cover nuisance variation the live
// screenshots have but a single clean render does not (rarity background
// tints, overlaid quantity glyphs).
type Entry struct {
	Name    string      `json:"name"`
	Aliases []string    `json:"aliases,omitempty"`
	Vectors [][]float64 `json:"vectors"`
}

// Catalog is the immutable reference table, loaded once per session.
type Catalog struct {
	entries []*Entry
	byName  map[string]*Entry
	dim     int
}

// New builds a catalog from entries. Every vector is re-normalized to unit
// length; the vector dimension must be consistent across all entries.
// Entries with zero vectors are kept (text matching still finds them) but
// contribute nothing to visual matching.
func New(entries []*Entry) (*Catalog, error) {
	c := &Catalog{
		entries: entries,
		byName:  make(map[string]*Entry, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry with empty name")
		}
		if _, exists := c.byName[e.Name]; exists {
			return nil, fmt.Errorf("duplicate catalog entry %q", e.Name)
		}
		c.byName[e.Name] = e

		for i, v := range e.Vectors {
			if c.dim == 0 {
				c.dim = len(v)
			}
			if len(v) != c.dim {
				return nil, fmt.Errorf("entry %q vector %d: dimension %d, want %d",
					e.Name, i, len(v), c.dim)
			}
			norm := floats.Norm(v, 2)
			if norm == 0 {
				return nil, fmt.Errorf("entry %q vector %d: zero vector", e.Name, i)
			}
			floats.Scale(1/norm, v)
		}
	}

	return c, nil
}

// Load reads a catalog artifact from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file struct {
		Entries []*Entry `json:"entries"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Entries) == 0 {
		return nil, fmt.Errorf("catalog %s has no entries", path)
	}

	return New(file.Entries)
}

// Save writes the catalog to a JSON file.
func (c *Catalog) Save(path string) error {
	file := struct {
		Entries []*Entry `json:"entries"`
	}{Entries: c.entries}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Dim returns the embedding dimension, or 0 when no entry has vectors.
func (c *Catalog) Dim() int {
	return c.dim
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names returns all canonical item names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Get returns an entry by canonical name, or nil if not present.
func (c *Catalog) Get(name string) *Entry {
	return c.byName[name]
}

// Entries returns the underlying entries. Callers must not mutate them.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Similarity returns the maximum cosine similarity between the query
// vector and the entry's variant vectors. Both sides are unit vectors, so
// cosine reduces to a dot product. Entries without vectors score -1 and
// ok=false (skipped by the matcher, not fatal).
func (e *Entry) Similarity(query []float64) (float64, bool) {
	if len(e.Vectors) == 0 {
		return -1, false
	}
	best := -1.0
	for _, v := range e.Vectors {
		if len(v) != len(query) {
			continue
		}
		if s := floats.Dot(query, v); s > best {
			best = s
		}
	}
	return best, best > -1
}
