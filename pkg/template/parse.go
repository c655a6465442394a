package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes template YAML and checks the fields the format
// requires. It does not resolve source descriptors; call
// ResolveDescriptors for that.
func Parse(content []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(content, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	if t.Sources.Len() == 0 {
		return nil, fmt.Errorf("%w: template declares no sources", ErrParseFailed)
	}
	if t.To == "" {
		return nil, fmt.Errorf("%w: missing required field %q", ErrParseFailed, "to")
	}
	if t.Subject == "" {
		return nil, fmt.Errorf("%w: missing required field %q", ErrParseFailed, "subject")
	}
	// Body may be empty at parse time; the validation engine reports an
	// empty effective body per entry.

	switch t.BodyFormat {
	case "", BodyFormatMarkdown, BodyFormatHTML, BodyFormatText:
	default:
		return nil, fmt.Errorf("%w: unknown body_format %q", ErrParseFailed, t.BodyFormat)
	}

	return &t, nil
}

// ParseFile reads and parses a template file.
func ParseFile(path string) (*Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return Parse(content)
}
