package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"terrateam-setup/internal/client"
	"terrateam-setup/internal/session"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Printer renders command results.
type Printer struct {
	out       io.Writer
	format    OutputFormat
	noHeaders bool
}

// NewPrinter creates a printer for the given flags.
func NewPrinter(out io.Writer, flags CommandFlags) (*Printer, error) {
	format, err := ParseOutputFormat(flags.OutputFormat)
	if err != nil {
		return nil, err
	}
	return &Printer{out: out, format: format, noHeaders: flags.NoHeaders}, nil
}

// structured prints v as JSON or YAML. It reports false for table output.
func (p *Printer) structured(v any) (bool, error) {
	switch p.format {
	case OutputFormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(p.out)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return false, nil
	}
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Format.Header = text.FormatUpper
	return t
}

// Sessions prints a session listing.
func (p *Printer) Sessions(list *client.SessionList) error {
	if ok, err := p.structured(list); ok {
		return err
	}

	if len(list.Sessions) == 0 {
		fmt.Fprintln(p.out, "No active sessions.")
		return nil
	}

	t := p.newTable()
	if !p.noHeaders {
		t.AppendHeader(table.Row{"Session", "User", "Email", "Tunnel URL", "API Key", "Age"})
	}
	for _, s := range list.Sessions {
		t.AppendRow(summaryRow(s))
	}
	t.Render()
	return nil
}

func summaryRow(s session.Summary) table.Row {
	tunnelURL, hasKey, age := "-", text.FgRed.Sprint("no"), "-"
	if s.Tunnel != nil {
		if s.Tunnel.TunnelURL != "" {
			tunnelURL = s.Tunnel.TunnelURL
		}
		if s.Tunnel.HasAPIKey {
			hasKey = text.FgGreen.Sprint("yes")
		}
		age = formatAge(s.Tunnel.CreatedAt)
	}
	return table.Row{s.SessionID, s.User.Login, orDash(s.User.Email), tunnelURL, hasKey, age}
}

// Session prints one session. The API key is shown only when showKey is set.
func (p *Printer) Session(detail *client.SessionDetail, showKey bool) error {
	view := *detail
	if !showKey {
		view.Tunnel.APIKey = maskKey(view.Tunnel.APIKey)
	}
	if ok, err := p.structured(view); ok {
		return err
	}

	t := p.newTable()
	t.AppendRows([]table.Row{
		{"Session", view.SessionID},
		{"User", fmt.Sprintf("%s (%d)", view.User.Login, view.User.ID)},
		{"Email", orDash(view.User.Email)},
		{"Tunnel ID", orDash(view.Tunnel.TunnelID)},
		{"Tunnel URL", orDash(view.Tunnel.TunnelURL)},
		{"API Key", orDash(view.Tunnel.APIKey)},
		{"Created", formatAge(view.Tunnel.CreatedAt) + " ago"},
	})
	t.Render()
	return nil
}

// Cleared prints the result of a clear.
func (p *Printer) Cleared(res *client.ClearResult) error {
	if ok, err := p.structured(res); ok {
		return err
	}
	if !res.Cleared.HadSession && !res.Cleared.HadCredential {
		fmt.Fprintf(p.out, "Session %s was not active.\n", res.SessionID)
		return nil
	}
	fmt.Fprintf(p.out, "%s Session %s cleared.\n", text.FgGreen.Sprint("✓"), res.SessionID)
	return nil
}

// Finalized prints the result of an env apply.
func (p *Printer) Finalized(res *client.FinalizeResult) error {
	if ok, err := p.structured(res); ok {
		return err
	}
	fmt.Fprintf(p.out, "%s Wrote %s for session %s.\n",
		text.FgGreen.Sprint("✓"), strings.Join(res.Keys, ", "), res.SessionID)
	if res.TunnelURL != "" {
		fmt.Fprintf(p.out, "Terrateam UI: %s\n", res.TunnelURL)
	}
	return nil
}

// Health prints the wizard's health for endpoint.
func (p *Printer) Health(endpoint string, health *client.Health) error {
	if ok, err := p.structured(health); ok {
		return err
	}
	fmt.Fprintf(p.out, "%s Wizard at %s is %s (%d active sessions).\n",
		text.FgGreen.Sprint("✓"), endpoint, health.Status, health.Sessions)
	return nil
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + strings.Repeat("*", 8)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatAge(created time.Time) string {
	if created.IsZero() {
		return "-"
	}
	d := time.Since(created)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
