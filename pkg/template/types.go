package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BodyFormat selects the body transformation chain.
type BodyFormat string

const (
	BodyFormatMarkdown BodyFormat = "markdown"
	BodyFormatHTML     BodyFormat = "html"
	BodyFormatText     BodyFormat = "text"
)

// SourceConfig is one source declaration as written in the template.
type SourceConfig struct {
	// Primary marks the namespace whose entry count fixes the number
	// of produced emails. Exactly one source must set it.
	Primary bool `yaml:"primary"`
	// Join maps a local field name to a "namespace.field" reference.
	// Non-nil (even empty) means the source is joined, not global.
	Join map[string]string `yaml:"join"`
	// Many switches the join from 1:1 to 1:N.
	Many bool `yaml:"many"`
	// Form marks a source whose records are typed in by hand rather
	// than loaded from a file. Field names come from InferFields.
	Form bool `yaml:"form"`
}

// Sources is the ordered set of source declarations. YAML mapping
// order is preserved so descriptor resolution and diagnostics are
// deterministic across runs.
type Sources struct {
	byName map[string]SourceConfig
	order  []string
}

// UnmarshalYAML decodes a YAML mapping while recording key order.
func (s *Sources) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("sources must be a mapping, got %s", nodeKind(node))
	}
	s.byName = make(map[string]SourceConfig, len(node.Content)/2)
	s.order = make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return err
		}
		var cfg SourceConfig
		if err := node.Content[i+1].Decode(&cfg); err != nil {
			return fmt.Errorf("source %q: %w", name, err)
		}
		if _, dup := s.byName[name]; dup {
			return fmt.Errorf("source %q declared twice", name)
		}
		s.byName[name] = cfg
		s.order = append(s.order, name)
	}
	return nil
}

func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	default:
		return "an unexpected node"
	}
}

// Names returns the namespaces in declaration order.
func (s *Sources) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns the declaration for a namespace.
func (s *Sources) Get(name string) (SourceConfig, bool) {
	cfg, ok := s.byName[name]
	return cfg, ok
}

// Len returns the number of declared sources.
func (s *Sources) Len() int {
	return len(s.order)
}

// Template is the parsed template descriptor. Each of To, CC, BCC,
// Subject, Body, and Attachments is template-language source text.
// Optional fields are empty strings when absent.
type Template struct {
	Sources     Sources    `yaml:"sources"`
	To          string     `yaml:"to"`
	CC          string     `yaml:"cc"`
	BCC         string     `yaml:"bcc"`
	Subject     string     `yaml:"subject"`
	Body        string     `yaml:"body"`
	Attachments string     `yaml:"attachments"`
	BodyFormat  BodyFormat `yaml:"body_format"`
	Stylesheet  string     `yaml:"stylesheet"`
	Style       string     `yaml:"style"`
}

// EffectiveBodyFormat returns the configured body format, defaulting
// to markdown.
func (t *Template) EffectiveBodyFormat() BodyFormat {
	if t.BodyFormat == "" {
		return BodyFormatMarkdown
	}
	return t.BodyFormat
}
