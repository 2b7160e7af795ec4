/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/pkg/buildinfo"
	"github.com/fulmenhq/toolkit/pkg/manifest"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show toolkit version information",
	Long: `Show the toolkit binary version. With --extended, include build details
and the tracked vendor toolkit version from the project manifest.`,
	RunE: runVersion,
}

func init() {
	if err := ops.RegisterCommand("version", ops.GroupSupport, versionCmd, "Show version information"); err != nil {
		panic(fmt.Sprintf("Failed to register version command: %v", err))
	}

	versionCmd.Flags().Bool("extended", false, "Show detailed build and vendor information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	out := cmd.OutOrStdout()
	version := buildinfo.BinaryVersion

	// The vendored toolkit version is informational; a missing manifest is
	// not an error here.
	vendorVersion := ""
	if extended {
		if engine, _, err := buildEngine(cmd); err == nil {
			if m, err := manifest.Load(engine.ManifestPath); err == nil {
				vendorVersion = m.ToolkitVersion
			}
		}
	}

	if jsonOutput {
		versionInfo := map[string]interface{}{
			"version":   version,
			"goVersion": runtime.Version(),
			"platform":  runtime.GOOS,
			"arch":      runtime.GOARCH,
		}
		if extended {
			versionInfo["moduleVersion"] = buildinfo.ModuleVersion()
			versionInfo["vcsRevision"] = buildinfo.VCSRevision()
			if vendorVersion != "" {
				versionInfo["vendorToolkitVersion"] = vendorVersion
			}
		}
		jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %v", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	fmt.Fprintf(out, "toolkit %s\n", version)
	if extended {
		fmt.Fprintf(out, "Module version: %s\n", buildinfo.ModuleVersion())
		if rev := buildinfo.VCSRevision(); rev != "" {
			fmt.Fprintf(out, "VCS revision: %s\n", rev)
		}
		if vendorVersion != "" {
			fmt.Fprintf(out, "Vendor toolkit: %s\n", vendorVersion)
		}
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	}
	return nil
}
