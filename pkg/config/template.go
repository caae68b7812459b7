package config

import (
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a commented configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	return []byte(DefaultTemplateHeader() + `

# Spaces per nesting level in tree output
indent: 4

# Trim surrounding whitespace from text nodes when printing trees
trim_text: true

# Maximum element nesting accepted when building trees (0 = unlimited)
max_depth: 0

# Tokenize content before the first <html marker instead of skipping it
scan_preamble: false

# Markdown flavor for .md inputs: commonmark or gfm
flavor: gfm

# File extensions picked up when walking directories
extensions:
  - .html
  - .htm
  - .xhtml
  - .md
  - .markdown

# Largest accepted input in bytes
max_file_size: 33554432

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "node_modules/**"
`), nil
}

// templateToJSON renders the default configuration as JSON.
func templateToJSON() ([]byte, error) {
	defaults := NewConfig()

	cfg := map[string]any{
		"indent":        defaults.Indent,
		"trim_text":     defaults.TrimTextEnabled(),
		"max_depth":     defaults.MaxDepth,
		"scan_preamble": defaults.ScanPreambleEnabled(),
		"flavor":        defaults.Flavor,
		"extensions":    defaults.Extensions,
		"max_file_size": defaults.MaxFileSize,
		"ignore":        []string{},
	}

	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# tagtree configuration
# See: https://github.com/yaklabco/tagtree`
}
