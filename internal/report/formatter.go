package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"

	"github.com/fulmenhq/toolkit/internal/assets"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/toolkit"
)

// OutputFormat represents the format for drift report output
type OutputFormat string

const (
	FormatPretty   OutputFormat = "pretty"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
)

const driftTemplateName = "drift-report.md.hbs"

// Formatter renders drift scan results for terminals, CI logs, and docs.
type Formatter struct {
	format OutputFormat
}

// NewFormatter creates a new drift report formatter
func NewFormatter(format OutputFormat) *Formatter {
	return &Formatter{format: format}
}

// ParseFormat validates a format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatPretty, FormatJSON, FormatMarkdown:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected pretty, json, or markdown)", s)
	}
}

// Format renders the drift reports against the manifest they were scanned
// from.
func (f *Formatter) Format(m *manifest.Manifest, reports []toolkit.DriftReport) (string, error) {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(m, reports)
	case FormatMarkdown:
		return f.formatMarkdown(m, reports)
	default:
		return f.formatPretty(reports), nil
	}
}

type jsonReport struct {
	GeneratedAt    time.Time             `json:"generated_at"`
	ToolkitVersion string                `json:"toolkit_version"`
	DriftDetected  bool                  `json:"drift_detected"`
	Reports        []toolkit.DriftReport `json:"reports"`
}

func (f *Formatter) formatJSON(m *manifest.Manifest, reports []toolkit.DriftReport) (string, error) {
	payload := jsonReport{
		GeneratedAt:    time.Now().UTC().Truncate(time.Second),
		ToolkitVersion: m.ToolkitVersion,
		DriftDetected:  len(reports) > 0,
		Reports:        reports,
	}
	if payload.Reports == nil {
		payload.Reports = []toolkit.DriftReport{}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal drift report: %w", err)
	}
	return string(data) + "\n", nil
}

func (f *Formatter) formatMarkdown(m *manifest.Manifest, reports []toolkit.DriftReport) (string, error) {
	tpl, ok := assets.GetTemplate(driftTemplateName)
	if !ok {
		return "", fmt.Errorf("embedded template %s not found", driftTemplateName)
	}

	var drifted, orphaned []map[string]interface{}
	for _, r := range reports {
		entry := map[string]interface{}{
			"path":           r.Path,
			"kind":           string(r.Kind),
			"old_hash_short": shortHash(r.OldHash),
			"new_hash_short": shortHash(r.NewHash),
		}
		if r.SourceRemoved {
			orphaned = append(orphaned, entry)
		} else {
			drifted = append(drifted, entry)
		}
	}

	data := map[string]interface{}{
		"generated_at":    time.Now().UTC().Format(time.RFC3339),
		"toolkit_version": m.ToolkitVersion,
		"clean":           len(reports) == 0,
		"has_drift":       len(drifted) > 0,
		"has_orphans":     len(orphaned) > 0,
		"drift_count":     len(drifted),
		"orphan_count":    len(orphaned),
		"drifted":         drifted,
		"orphaned":        orphaned,
	}

	out, err := raymond.Render(string(tpl), data)
	if err != nil {
		return "", fmt.Errorf("failed to render drift report template: %w", err)
	}
	return out, nil
}

func (f *Formatter) formatPretty(reports []toolkit.DriftReport) string {
	if len(reports) == 0 {
		return "✅ No drift detected\n"
	}

	headers := []string{"ASSET", "KIND", "BASELINE", "UPSTREAM"}
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		upstream := shortHash(r.NewHash)
		if r.SourceRemoved {
			upstream = "(removed)"
		}
		rows = append(rows, []string{r.Path, string(r.Kind), shortHash(r.OldHash), upstream})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️  Drift detected in %d asset(s)\n\n", len(reports))
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// shortHash truncates a digest for display; hashes read better at 12 chars.
func shortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
