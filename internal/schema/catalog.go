package schema

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Column describes one physical column.
type Column struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// Table describes one physical table.
type Table struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Columns     []Column `yaml:"columns" json:"columns"`
}

// Catalog lists the tables of every variant.
type Catalog map[Variant][]Table

// LoadCatalog parses the embedded table catalog.
func LoadCatalog() (Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a YAML catalog keyed by variant name.
func ParseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse schema catalog: %w", err)
	}
	for v := range cat {
		if !v.IsValid() {
			return nil, fmt.Errorf("parse schema catalog: unknown variant %q", v)
		}
	}
	return cat, nil
}

// Tables returns the tables of a variant.
func (c Catalog) Tables(v Variant) []Table {
	return c[v]
}

// AllowedTables returns the lower-cased table names of a variant.
func (c Catalog) AllowedTables(v Variant) map[string]bool {
	allowed := make(map[string]bool, len(c[v]))
	for _, t := range c[v] {
		allowed[strings.ToLower(t.Name)] = true
	}
	return allowed
}

// Describe renders the variant's tables as the schema text handed to the
// SQL generator.
func (c Catalog) Describe(v Variant) (string, error) {
	out, err := yaml.Marshal(c[v])
	if err != nil {
		return "", fmt.Errorf("describe schema %s: %w", v, err)
	}
	return string(out), nil
}
