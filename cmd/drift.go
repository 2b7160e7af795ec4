/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/internal/report"
	"github.com/fulmenhq/toolkit/pkg/exitcode"
	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/manifest"
	"github.com/fulmenhq/toolkit/pkg/toolkit"
)

// driftCmd represents the drift command
var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Detect upstream changes to customized assets",
	Long: `Rehash the current vendor source of every customized asset and report
divergence from the recorded baseline. Managed assets track vendor
content directly and cannot drift.

The scan is read-only; nothing is modified. With --fail-on-drift the
command exits with a dedicated code when drift is found, for CI gates.`,
	RunE: runDrift,
}

func init() {
	if err := ops.RegisterCommand("drift", ops.GroupWorkflow, driftCmd, "Detect upstream changes to customized assets"); err != nil {
		panic(fmt.Sprintf("Failed to register drift command: %v", err))
	}

	driftCmd.Flags().String("format", "", "Output format: pretty, json, or markdown (default from config)")
	driftCmd.Flags().Bool("fail-on-drift", false, "Exit with a non-zero code when drift is detected")
}

func runDrift(cmd *cobra.Command, _ []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	failOnDrift, _ := cmd.Flags().GetBool("fail-on-drift")

	engine, cfg, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	if formatFlag == "" {
		formatFlag = cfg.Drift.Format
	}
	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	m, err := manifest.Load(engine.ManifestPath)
	if err != nil {
		return err
	}

	reports, scanErr := toolkit.CheckDrift(m, engine.VendorRoot)
	if scanErr != nil {
		logger.Warn("Some vendor sources could not be read", logger.Err(scanErr))
	}

	formatter := report.NewFormatter(format)
	out, err := formatter.Format(m, reports)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if failOnDrift && len(reports) > 0 {
		os.Exit(exitcode.DriftDetected)
	}
	return nil
}
