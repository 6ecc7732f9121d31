package extractor

import (
	"fmt"
	"os"
	"strings"
)

// DefaultPromptTemplate is used when no prompt file is supplied. The
// {{placeholders}} are filled by RenderPrompt.
const DefaultPromptTemplate = `You are a data extraction assistant.

Extract the following fields from the website content below. Respond with
a single JSON object whose keys are exactly the field names listed. Use
null for any field the content does not support. Do not invent values.

Schema: {{schema_name}}
{{schema_description}}

Fields:
{{fields}}

Website content:
{{content}}`

// LoadPromptTemplate reads a prompt template from a file.
func LoadPromptTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}
	template := strings.TrimSpace(string(data))
	if template == "" {
		return "", fmt.Errorf("prompt template %s is empty", path)
	}
	return template, nil
}

// RenderPrompt substitutes {{name}} placeholders in a template. Unknown
// placeholders are left untouched so mistakes stay visible in the output.
func RenderPrompt(template string, vars map[string]string) string {
	rendered := template
	for name, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{{"+name+"}}", value)
	}
	return rendered
}

// BuildExtractionPrompt renders the extraction prompt for one schema and
// one blob of scraped content.
func BuildExtractionPrompt(template string, schema *Schema, content string) string {
	if template == "" {
		template = DefaultPromptTemplate
	}
	return RenderPrompt(template, map[string]string{
		"schema_name":        schema.Name,
		"schema_description": schema.Description,
		"fields":             schema.FieldList(),
		"content":            content,
	})
}
