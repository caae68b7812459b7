package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/tagtree/internal/ui/pretty"
)

// helpFlagGap is the minimum run of spaces pflag puts between a flag
// and its description.
const helpFlagGap = "  "

// HelpFormatter renders Cobra help and usage text with the same palette
// used for tree output: commands look like open tags, section headings
// like summary titles.
type HelpFormatter struct {
	styles *pretty.Styles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{
		styles: pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer)),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand .Name .NamePadding }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trimLines . }}

{{end}}{{if or .Runnable .HasSubCommands}}{{ .UsageString }}{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading": func(s string) string { return h.styles.SummaryTitle.Render(s) },
		"command": func(s string) string { return h.styles.OpenTag.Render(s) },
		"dim":     func(s string) string { return h.styles.RenderLines(h.styles.Dim, s) },
		"subcommand": func(name string, padding int) string {
			return h.styles.VoidTag.Render(runewidth.FillRight(name, padding))
		},
		"flags":     h.flagUsages,
		"join":      strings.Join,
		"trimLines": trimLines,
	}
}

// flagUsages styles pflag's usage block line by line. Flag names take the
// open-tag style and type placeholders are dimmed.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	usages := strings.TrimRight(set.FlagUsages(), "\n")
	if usages == "" || !h.styles.ColorEnabled() {
		return usages
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) flagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]

	split := strings.Index(body, helpFlagGap)
	if split < 0 {
		return line
	}
	names, rest := body[:split], body[split:]

	fields := strings.Fields(names)
	for i, field := range fields {
		if strings.HasPrefix(field, "-") {
			clean := strings.TrimSuffix(field, ",")
			fields[i] = h.styles.OpenTag.Render(clean) + field[len(clean):]
		} else {
			fields[i] = h.styles.Dim.Render(field)
		}
	}

	return indent + strings.Join(fields, " ") + rest
}

// ApplyToCommand installs the styled templates on cmd. Subcommands
// inherit them through Cobra's parent lookup.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), helpData{Command: c, usage: usage}); err != nil {
			c.PrintErrln(err)
		}
	})
}

// helpData exposes the command to the help template with UsageString
// rendered through the styled usage template rather than Cobra's default.
type helpData struct {
	*cobra.Command

	usage *template.Template
}

func (d helpData) UsageString() string {
	var buf strings.Builder
	if err := d.usage.Execute(&buf, d.Command); err != nil {
		return ""
	}
	return buf.String()
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
