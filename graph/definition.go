package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the serializable form of a chatflow: the raw node and
// edge records a user authors in YAML or JSON before they are compiled
// into a Graph.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Nodes       []Node `json:"nodes" yaml:"nodes"`
	Edges       []Edge `json:"edges" yaml:"edges"`
}

// Build compiles the definition into a validated Graph. The Graph is
// returned in all cases so callers can inspect the full error report; the
// error is a *StructuralError when validation failed.
func (d *Definition) Build() (*Graph, error) {
	g := Build(d.Nodes, d.Edges)
	return g, g.Err()
}

// FromYAML parses a chatflow definition from YAML.
func FromYAML(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse chatflow definition: %w", err)
	}
	return &def, nil
}

// FromJSON parses a chatflow definition from JSON.
func FromJSON(data []byte) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse chatflow definition: %w", err)
	}
	return &def, nil
}

// LoadFile reads a definition from a .yaml/.yml/.json file. The format is
// chosen by trying YAML first, which also accepts JSON input.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chatflow file: %w", err)
	}
	return FromYAML(data)
}

// ToYAML serializes the definition to YAML.
func (d *Definition) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}
	return data, nil
}

// ToJSON serializes the definition to indented JSON.
func (d *Definition) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal definition: %w", err)
	}
	return data, nil
}
