/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/pkg/toolkit"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install vendored assets and write the provenance manifest",
	Long: `Scan the vendored toolkit source tree, install every discovered asset in
managed form, and write a fresh manifest recording content baselines.

Re-running init resets all assets to managed. When the manifest still
tracks customized assets, init refuses unless --force is given.`,
	RunE: runInit,
}

func init() {
	if err := ops.RegisterCommand("init", ops.GroupWorkflow, initCmd, "Install assets and write the manifest"); err != nil {
		panic(fmt.Sprintf("Failed to register init command: %v", err))
	}

	initCmd.Flags().Bool("force", false, "Re-initialize even when customizations would be discarded")
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	engine, _, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	m, err := engine.Init(force)
	if err != nil {
		if errors.Is(err, toolkit.ErrCustomizationsExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "❌ "+err.Error())
			return err
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Initialized manifest at %s\n", engine.ManifestPath)
	fmt.Fprintf(out, "   Toolkit version: %s\n", m.ToolkitVersion)
	fmt.Fprintf(out, "   Tracked assets:  %d\n", m.AssetCount())
	if m.Vendor != nil && m.Vendor.Commit != "" {
		fmt.Fprintf(out, "   Vendor commit:   %s\n", m.Vendor.Commit)
	}
	return nil
}
