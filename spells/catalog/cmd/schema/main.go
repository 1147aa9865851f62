// Command schema regenerates the JSON schema validating spell kind
// definition files. Run it after changing catalog.KindDocument:
//
//	go run ./spells/catalog/cmd/schema -out config/spells/definitions.schema.json
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"spellbolt/server/spells/catalog"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "output path for the JSON schema")
	flag.Parse()

	if outPath == "" {
		log.Fatal("schema: missing -out path")
	}

	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	entrySchema := reflector.ReflectFromType(reflect.TypeOf(catalog.KindDocument{}))
	if entrySchema == nil {
		log.Fatal("schema: failed to reflect kind document")
	}
	entrySchema.Version = ""
	entrySchema.Title = "Spell Kind"
	entrySchema.Description = "Designer-authored projectile kind resolved by the fire controller."

	fileSchema := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Spell Kind Definitions",
		Description: "Array of spell kinds loaded by the catalog.",
		Type:        "array",
		Items:       entrySchema,
	}

	data, err := json.MarshalIndent(fileSchema, "", "  ")
	if err != nil {
		log.Fatalf("schema: marshal: %v", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatalf("schema: create output dir: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("schema: write: %v", err)
	}
}
