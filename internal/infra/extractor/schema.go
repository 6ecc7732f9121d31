// Package extractor turns scraped page content into structured data by
// prompting an LLM with a JSON schema. Anthropic is the primary model
// provider with OpenAI as fallback.
package extractor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SchemaField describes one field the model must extract.
type SchemaField struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Schema is a named extraction target loaded from a JSON schema file.
type Schema struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Fields      []SchemaField `json:"fields"`
}

// Validate checks that the schema is usable.
func (s *Schema) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("schema name is required")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("schema %q has no fields", s.Name)
	}
	for i, field := range s.Fields {
		if field.Name == "" {
			return fmt.Errorf("schema %q: field %d has no name", s.Name, i)
		}
	}
	return nil
}

// FieldList renders the fields as prompt-ready lines.
func (s *Schema) FieldList() string {
	var b strings.Builder
	for _, field := range s.Fields {
		b.WriteString("- ")
		b.WriteString(field.Name)
		if field.Type != "" {
			b.WriteString(" (")
			b.WriteString(field.Type)
			b.WriteString(")")
		}
		if field.Description != "" {
			b.WriteString(": ")
			b.WriteString(field.Description)
		}
		if field.Required {
			b.WriteString(" [required]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// LoadSchema reads one schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if schema.Name == "" {
		schema.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// LoadSchemaDir reads every *.json schema in a directory, keyed by name.
func LoadSchemaDir(dir string) (map[string]*Schema, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}

	schemas := make(map[string]*Schema, len(paths))
	for _, path := range paths {
		schema, err := LoadSchema(path)
		if err != nil {
			return nil, err
		}
		schemas[schema.Name] = schema
	}
	return schemas, nil
}
