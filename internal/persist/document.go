package persist

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the document format written by Save.
const Version = "1"

// Type is the type tag of a record.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
	TypeList   Type = "list"
)

// Property is one saved record. Scalars use Value, lists use Items.
type Property struct {
	Name  string   `yaml:"name"`
	Type  Type     `yaml:"type"`
	Value string   `yaml:"value,omitempty"`
	Items []string `yaml:"items,omitempty"`
}

// Document is a saved machine configuration.
type Document struct {
	Version    string     `yaml:"version"`
	Properties []Property `yaml:"properties"`
}

// LoadFile reads and parses a saved configuration.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a Document.
func Parse(data []byte) (*Document, error) {
	var doc Document

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration YAML: %w", err)
	}

	if doc.Version == "" {
		doc.Version = Version
	}

	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}

	return &doc, nil
}

// Marshal serializes a Document to YAML.
func Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// WriteFile writes a Document to the given path.
func WriteFile(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration %s: %w", path, err)
	}

	return nil
}
