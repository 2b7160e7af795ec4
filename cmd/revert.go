/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/pkg/toolkit"
)

// revertCmd represents the revert command
var revertCmd = &cobra.Command{
	Use:   "revert [<kind>/<name>]",
	Short: "Reconcile drifted assets with upstream content",
	Long: `Return drifted assets to managed vendor content, or resolve a single
asset with an explicit strategy.

With --all, every drifted asset whose vendor source still exists is
reverted, and managed assets whose installed copy fell behind a vendor
update are refreshed. Orphaned customizations (source removed upstream)
are listed but never touched by the bulk operation.

For a single asset, --strategy chooses the resolution:

   take-upstream   discard the customization, return to vendor content
   keep-local      keep the local copy, acknowledge the upstream change`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRevert,
}

func init() {
	if err := ops.RegisterCommand("revert", ops.GroupWorkflow, revertCmd, "Reconcile drifted assets with upstream"); err != nil {
		panic(fmt.Sprintf("Failed to register revert command: %v", err))
	}

	revertCmd.Flags().Bool("all", false, "Revert every drifted asset")
	revertCmd.Flags().Bool("dry-run", false, "Show what would be reverted without changing anything")
	revertCmd.Flags().String("strategy", "take-upstream", "Resolution for a single asset (take-upstream|keep-local)")
}

func runRevert(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	strategy, _ := cmd.Flags().GetString("strategy")

	engine, _, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if all {
		if len(args) > 0 {
			return fmt.Errorf("cannot combine --all with an asset path")
		}
		summary, err := engine.RevertAllDrifted(dryRun)
		if err != nil {
			return err
		}

		verb := "Reverted"
		refreshVerb := "Refreshed"
		if dryRun {
			verb = "Would revert"
			refreshVerb = "Would refresh"
		}
		if len(summary.Reverted) == 0 && len(summary.Refreshed) == 0 && len(summary.Orphaned) == 0 && len(summary.Failures) == 0 {
			fmt.Fprintln(out, "✅ Nothing to revert")
			return nil
		}
		for _, path := range summary.Reverted {
			fmt.Fprintf(out, "✅ %s %s\n", verb, path)
		}
		for _, path := range summary.Refreshed {
			fmt.Fprintf(out, "🔄 %s managed copy of %s\n", refreshVerb, path)
		}
		for _, path := range summary.Orphaned {
			fmt.Fprintf(out, "⚠️  Skipped orphaned %s (removed upstream; keep or delete your copy deliberately)\n", path)
		}
		for _, failure := range summary.Failures {
			fmt.Fprintf(out, "❌ Failed %s: %s\n", failure.Path, failure.Error)
		}
		if len(summary.Failures) > 0 {
			return fmt.Errorf("%d asset(s) failed to revert", len(summary.Failures))
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("an asset path or --all is required")
	}

	var resolution toolkit.ConflictResolution
	switch strategy {
	case "take-upstream":
		resolution = toolkit.TakeUpstream{}
	case "keep-local":
		resolution = toolkit.KeepLocal{}
	default:
		return fmt.Errorf("unknown strategy %q (expected take-upstream or keep-local)", strategy)
	}

	if dryRun {
		fmt.Fprintf(out, "Would resolve %s with strategy %s\n", args[0], strategy)
		return nil
	}
	if err := engine.Resolve(args[0], resolution); err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Resolved %s (%s)\n", args[0], strategy)
	return nil
}
