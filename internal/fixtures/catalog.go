// Package fixtures provides the mock data the console renders. The static
// catalogue is embedded YAML checked against a JSON schema; generated
// histories come from a seeded Builder so runs are reproducible.
package fixtures

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/utrainer/utrainer/internal/platform"
)

//go:embed fixtures.yaml
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema []byte

const schemaName = "catalog.json"

// Catalog is the static part of the mock platform.
type Catalog struct {
	BaseModels  []string                    `yaml:"base_models"`
	Datasets    []platform.Dataset          `yaml:"datasets"`
	Deployments []platform.Deployment       `yaml:"deployments"`
	Leaderboard []platform.LeaderboardEntry `yaml:"leaderboard"`
	Operators   []string                    `yaml:"operators"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaName, bytes.NewReader(catalogSchema)); err != nil {
			schemaErr = fmt.Errorf("fixtures: load schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaName)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("fixtures: compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Default returns the embedded catalogue.
func Default() (Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalogue from path, or the embedded one when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("fixtures: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates and decodes a YAML catalogue.
func Parse(data []byte) (Catalog, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("fixtures: decode yaml: %w", err)
	}
	if err := validate(doc); err != nil {
		return Catalog{}, err
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("fixtures: decode catalogue: %w", err)
	}
	return c, nil
}

func validate(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	// normalise yaml scalars to the json model the validator expects
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("fixtures: normalise catalogue: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("fixtures: normalise catalogue: %w", err)
	}
	if err := s.Validate(payload); err != nil {
		return fmt.Errorf("fixtures: catalogue failed validation: %w", err)
	}
	return nil
}

// DatasetNames lists dataset names in catalogue order.
func (c Catalog) DatasetNames() []string {
	out := make([]string, 0, len(c.Datasets))
	for _, d := range c.Datasets {
		out = append(out, d.Name)
	}
	return out
}
