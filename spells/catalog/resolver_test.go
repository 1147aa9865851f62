package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseNormalizesDefaults(t *testing.T) {
	data := []byte(`[{"id":"spark"}]`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	kind, ok := c.Resolve("spark")
	if !ok {
		t.Fatalf("expected spark to resolve")
	}
	if kind.Speed != DefaultSpeed {
		t.Fatalf("expected default speed %v, got %v", float64(DefaultSpeed), kind.Speed)
	}
	if kind.Damage != DefaultDamage {
		t.Fatalf("expected default damage %v, got %v", float64(DefaultDamage), kind.Damage)
	}
	if kind.LifetimeSeconds != DefaultLifetimeSeconds {
		t.Fatalf("expected default lifetime %v, got %v", float64(DefaultLifetimeSeconds), kind.LifetimeSeconds)
	}
	if kind.CollisionRadius != DefaultCollisionRadius {
		t.Fatalf("expected default radius %v, got %v", float64(DefaultCollisionRadius), kind.CollisionRadius)
	}
	if kind.Element != DefaultElement {
		t.Fatalf("expected default element %q, got %q", DefaultElement, kind.Element)
	}
}

func TestParseClampsNonPositiveValues(t *testing.T) {
	data := []byte(`[{"id":"dud","speed":-100,"damage":0,"lifetimeSeconds":-1,"collisionRadius":0}]`)
	c, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	kind, _ := c.Resolve("dud")
	if kind.Speed <= 0 || kind.Damage <= 0 || kind.LifetimeSeconds <= 0 || kind.CollisionRadius <= 0 {
		t.Fatalf("expected all tunables normalized positive, got %+v", kind)
	}
}

func TestParseRejectsDuplicateAndEmptyIDs(t *testing.T) {
	if _, err := Parse([]byte(`[{"id":"bolt"},{"id":"bolt"}]`)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := Parse([]byte(`[{"id":"  "}]`)); err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestLoadDirMergesFilesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_frost.json", `[{"id":"frostbolt","element":"frost","speed":2000}]`)
	writeFile(t, dir, "a_flame.json", `[{"id":"flamebolt","element":"flame"}]`)
	writeFile(t, dir, "notes.txt", `ignored`)
	writeFile(t, dir, "definitions.schema.json", `{"type":"array"}`)

	c, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 kinds, got %d", c.Len())
	}
	ids := c.IDs()
	if ids[0] != "flamebolt" || ids[1] != "frostbolt" {
		t.Fatalf("expected name-ordered ids [flamebolt frostbolt], got %v", ids)
	}
	frost, _ := c.Resolve("frostbolt")
	if frost.Speed != 2000 {
		t.Fatalf("expected authored speed preserved, got %v", frost.Speed)
	}
}

func TestLoadDirRejectsCrossFileDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `[{"id":"bolt"}]`)
	writeFile(t, dir, "two.json", `[{"id":"bolt"}]`)

	if _, err := LoadDir(dir); err == nil {
		t.Fatalf("expected cross-file duplicate error")
	}
}

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
