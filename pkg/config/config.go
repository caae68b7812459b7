// Package config defines core configuration types for tagtree.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

// OutputFormat specifies how results are written.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid returns true if the format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// Flavor selects the Markdown dialect used when rendering .md inputs.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Defaults.
const (
	DefaultIndent      = 4
	DefaultMaxFileSize = 32 << 20
)

// DefaultExtensions are the file extensions picked up during discovery.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".xhtml", ".md", ".markdown"}
}

// Config is the root configuration structure for tagtree.
type Config struct {
	// Indent is the number of spaces per level in tree output.
	Indent int `yaml:"indent"`

	// TrimText trims surrounding whitespace from text nodes in tree output.
	TrimText *bool `yaml:"trim_text"`

	// MaxDepth limits element nesting when building trees (0 = unlimited).
	MaxDepth int `yaml:"max_depth"`

	// ScanPreamble tokenizes content before the first <html marker.
	ScanPreamble *bool `yaml:"scan_preamble"`

	// Flavor is the Markdown flavor for .md inputs ("commonmark" or "gfm").
	Flavor Flavor `yaml:"flavor"`

	// Extensions lists the file extensions considered during discovery.
	Extensions []string `yaml:"extensions"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// MaxFileSize is the largest input accepted, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Output is a file to write results to instead of stdout.
	Output string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Indent:       DefaultIndent,
		TrimText:     boolPtr(true),
		ScanPreamble: boolPtr(false),
		Flavor:       FlavorGFM,
		Extensions:   DefaultExtensions(),
		MaxFileSize:  DefaultMaxFileSize,
		Format:       FormatText,
		Jobs:         0, // 0 means use GOMAXPROCS
	}
}

// TrimTextEnabled reports the effective trim_text setting.
func (c *Config) TrimTextEnabled() bool {
	return c.TrimText == nil || *c.TrimText
}

// ScanPreambleEnabled reports the effective scan_preamble setting.
func (c *Config) ScanPreambleEnabled() bool {
	return c.ScanPreamble != nil && *c.ScanPreamble
}

// Bool returns a pointer to b, for setting optional fields.
func Bool(b bool) *bool {
	return boolPtr(b)
}

func boolPtr(b bool) *bool {
	return &b
}
