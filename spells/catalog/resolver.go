// Package catalog loads and resolves designer-authored projectile kind
// definitions. Definitions live in JSON files validated against the schema
// generated by cmd/schema; the resolver normalizes tunables so the combat
// pipeline never sees zero or negative physics values.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Default tunables applied when a document omits a field or carries a
// non-positive value.
const (
	DefaultElement         = "flame"
	DefaultSpeed           = 3000
	DefaultDamage          = 15
	DefaultLifetimeSeconds = 5
	DefaultCollisionRadius = 15
)

// Kind is the resolved, normalized projectile kind handed to the fire
// controller at dispatch time.
type Kind struct {
	ID              string
	Element         string
	Speed           float64
	Damage          float64
	LifetimeSeconds float64
	CollisionRadius float64
	TrailEffect     string
	ImpactEffect    string
}

// Catalog holds resolved kinds keyed by ID. A catalog is immutable once
// loaded; Resolve returns copies.
type Catalog struct {
	kinds map[string]Kind
	order []string
}

// Parse decodes one definitions document (a JSON array of kind documents)
// and normalizes every entry. Duplicate or empty IDs are errors.
func Parse(data []byte) (*Catalog, error) {
	var docs FileDefinitions
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("catalog: decode definitions: %w", err)
	}

	c := &Catalog{kinds: make(map[string]Kind, len(docs))}
	for i, doc := range docs {
		kind, err := normalize(doc)
		if err != nil {
			return nil, fmt.Errorf("catalog: entry %d: %w", i, err)
		}
		if _, exists := c.kinds[kind.ID]; exists {
			return nil, fmt.Errorf("catalog: duplicate kind id %q", kind.ID)
		}
		c.kinds[kind.ID] = kind
		c.order = append(c.order, kind.ID)
	}
	return c, nil
}

// LoadDir reads every .json file in the directory (sorted by name) and
// merges them into one catalog. Files must not redefine an ID. Generated
// .schema.json files may live alongside the definitions; they are not
// definition documents and are skipped.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".schema.json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	merged := &Catalog{kinds: make(map[string]Kind)}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", name, err)
		}
		parsed, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", name, err)
		}
		for _, id := range parsed.order {
			if _, exists := merged.kinds[id]; exists {
				return nil, fmt.Errorf("catalog: %s redefines kind id %q", name, id)
			}
			merged.kinds[id] = parsed.kinds[id]
			merged.order = append(merged.order, id)
		}
	}
	return merged, nil
}

// Resolve looks up a kind by ID.
func (c *Catalog) Resolve(id string) (Kind, bool) {
	if c == nil || id == "" {
		return Kind{}, false
	}
	kind, ok := c.kinds[id]
	return kind, ok
}

// IDs returns the kind identifiers in definition order.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Len reports the number of loaded kinds.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.kinds)
}

func normalize(doc KindDocument) (Kind, error) {
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		return Kind{}, errors.New("missing kind id")
	}

	kind := Kind{
		ID:              id,
		Element:         strings.TrimSpace(doc.Element),
		Speed:           doc.Speed,
		Damage:          doc.Damage,
		LifetimeSeconds: doc.LifetimeSeconds,
		CollisionRadius: doc.CollisionRadius,
		TrailEffect:     strings.TrimSpace(doc.TrailEffect),
		ImpactEffect:    strings.TrimSpace(doc.ImpactEffect),
	}
	if kind.Element == "" {
		kind.Element = DefaultElement
	}
	if kind.Speed <= 0 {
		kind.Speed = DefaultSpeed
	}
	if kind.Damage <= 0 {
		kind.Damage = DefaultDamage
	}
	if kind.LifetimeSeconds <= 0 {
		kind.LifetimeSeconds = DefaultLifetimeSeconds
	}
	if kind.CollisionRadius <= 0 {
		kind.CollisionRadius = DefaultCollisionRadius
	}
	return kind, nil
}
