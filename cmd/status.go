/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/pkg/manifest"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status [<kind>/<name>]",
	Short: "Show tracked assets and their provenance state",
	Long: `Show every tracked asset with its status and drift baseline, or the
details of a single asset when a {kind}/{name} path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	if err := ops.RegisterCommand("status", ops.GroupSupport, statusCmd, "Show tracked assets and their state"); err != nil {
		panic(fmt.Sprintf("Failed to register status command: %v", err))
	}

	statusCmd.Flags().Bool("json", false, "Output status in JSON format")
}

type statusEntry struct {
	Path         string `json:"path"`
	Status       string `json:"status"`
	ToolkitHash  string `json:"toolkit_hash"`
	CustomizedAt string `json:"customized_at,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	engine, _, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		record, err := engine.Query(args[0])
		if err != nil {
			return err
		}
		entry := statusEntry{Path: args[0], Status: string(record.Status), ToolkitHash: record.ToolkitHash}
		if record.CustomizedAt != nil {
			entry.CustomizedAt = record.CustomizedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		if jsonOutput {
			data, err := json.MarshalIndent(entry, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON: %v", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintf(out, "Asset:    %s\n", entry.Path)
		fmt.Fprintf(out, "Status:   %s\n", entry.Status)
		fmt.Fprintf(out, "Baseline: %s\n", entry.ToolkitHash)
		if entry.CustomizedAt != "" {
			fmt.Fprintf(out, "Since:    %s\n", entry.CustomizedAt)
		}
		return nil
	}

	m, err := manifest.Load(engine.ManifestPath)
	if err != nil {
		return err
	}

	var entries []statusEntry
	for _, kind := range manifest.Kinds() {
		for name, record := range m.Mapping(kind) {
			entry := statusEntry{
				Path:        kind.Dir() + "/" + name,
				Status:      string(record.Status),
				ToolkitHash: record.ToolkitHash,
			}
			if record.CustomizedAt != nil {
				entry.CustomizedAt = record.CustomizedAt.Format("2006-01-02T15:04:05Z07:00")
			}
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	if jsonOutput {
		payload := map[string]interface{}{
			"toolkit_version": m.ToolkitVersion,
			"assets":          entries,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Toolkit %s: %d asset(s), %d customized\n\n", m.ToolkitVersion, m.AssetCount(), m.CustomizedCount())
	pathWidth := runewidth.StringWidth("ASSET")
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Path); w > pathWidth {
			pathWidth = w
		}
	}
	fmt.Fprintf(out, "%s  %-10s  %s\n", runewidth.FillRight("ASSET", pathWidth), "STATUS", "BASELINE")
	for _, e := range entries {
		marker := "🔗"
		if e.Status == string(manifest.StatusCustomized) {
			marker = "✏️"
		}
		fmt.Fprintf(out, "%s  %-10s  %s %s\n", runewidth.FillRight(e.Path, pathWidth), e.Status, e.ToolkitHash[:12], marker)
	}
	return nil
}
