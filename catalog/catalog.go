package catalog

import (
	"errors"
	"fmt"
)

// Errors returned while building a catalog.
var (
	ErrDuplicateOperation = errors.New("duplicate operation")
	ErrEmptyName          = errors.New("operation name is required")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

// Catalog is an ordered, immutable mapping from operation name to descriptor.
//
// Contract:
// - Concurrency: safe for concurrent use; no method mutates the catalog.
// - Ownership: returned descriptors are shared and must not be modified.
// - Ordering: Names and Match follow source-document order.
type Catalog struct {
	entries []Entry
	byName  map[string]int
	byKey   map[string][]int
}

// New builds a catalog from entries in the given order.
// Exact duplicate names are rejected; normalized collisions are allowed.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byKey:   make(map[string][]int, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, ErrEmptyName
		}
		if _, exists := c.byName[e.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateOperation, e.Name)
		}
		if e.Descriptor == nil {
			e.Descriptor = &Descriptor{}
		}
		pos := len(c.entries)
		c.entries = append(c.entries, e)
		c.byName[e.Name] = pos
		key := Normalize(e.Name)
		c.byKey[key] = append(c.byKey[key], pos)
	}
	return c, nil
}

// Len returns the number of operations.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names returns every operation name in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Resolve finds the first operation whose normalized name matches the
// normalized form of name.
func (c *Catalog) Resolve(name string) (Entry, bool) {
	positions := c.byKey[Normalize(name)]
	if len(positions) == 0 {
		return Entry{}, false
	}
	return c.entries[positions[0]], true
}

// Match returns every operation whose normalized name matches name.
// Catalogs without collisions return at most one entry.
func (c *Catalog) Match(name string) []Entry {
	positions := c.byKey[Normalize(name)]
	out := make([]Entry, 0, len(positions))
	for _, pos := range positions {
		out = append(out, c.entries[pos])
	}
	return out
}

// Collisions lists normalized keys shared by more than one operation.
// Resolution of such keys is ambiguous and picks the first entry.
func (c *Catalog) Collisions() map[string][]string {
	out := make(map[string][]string)
	for key, positions := range c.byKey {
		if len(positions) < 2 {
			continue
		}
		names := make([]string, len(positions))
		for i, pos := range positions {
			names[i] = c.entries[pos].Name
		}
		out[key] = names
	}
	return out
}
