package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// Layering rules: the world registry sits below the aim/fire/projectile
// core, and the logging packages stay free of simulation imports.
var forbidden = []struct {
	fromPrefix   string
	importPrefix string
}{
	{"spellbolt/server/internal/world", "spellbolt/server/internal/aim"},
	{"spellbolt/server/internal/world", "spellbolt/server/internal/combat"},
	{"spellbolt/server/internal/world", "spellbolt/server/internal/projectile"},
	{"spellbolt/server/internal/world", "spellbolt/server/internal/arena"},
	{"spellbolt/server/logging", "spellbolt/server/internal"},
}

func main() {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	decoder := json.NewDecoder(bytes.NewReader(output))

	var violations []string
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
			os.Exit(1)
		}

		for _, rule := range forbidden {
			if !strings.HasPrefix(pkg.ImportPath, rule.fromPrefix) {
				continue
			}
			for _, imp := range pkg.Imports {
				if strings.HasPrefix(imp, rule.importPrefix) {
					violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
				}
			}
		}
	}

	if len(violations) > 0 {
		sort.Strings(violations)
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}
