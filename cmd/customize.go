/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/toolkit/internal/ops"
)

// customizeCmd represents the customize command
var customizeCmd = &cobra.Command{
	Use:   "customize <kind>/<name>",
	Short: "Take ownership of a managed asset",
	Long: `Transition an asset from managed to customized. The current vendor
content digest is recorded as the drift baseline and the installed
symlink is replaced with a real local copy you can edit freely.

Asset paths use the {kind}/{name} form, e.g.:

   toolkit customize agents/reviewer.md
   toolkit customize skills/implement
   toolkit customize rules/style.md`,
	Args: cobra.ExactArgs(1),
	RunE: runCustomize,
}

func init() {
	if err := ops.RegisterCommand("customize", ops.GroupWorkflow, customizeCmd, "Take ownership of a managed asset"); err != nil {
		panic(fmt.Sprintf("Failed to register customize command: %v", err))
	}
}

func runCustomize(cmd *cobra.Command, args []string) error {
	engine, _, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	record, err := engine.Customize(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ %s is now customized\n", args[0])
	fmt.Fprintf(out, "   Baseline: %s\n", record.ToolkitHash)
	if record.CustomizedAt != nil {
		fmt.Fprintf(out, "   Since:    %s\n", record.CustomizedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintln(out, "   Edit the installed copy freely; 'toolkit drift' will flag upstream changes.")
	return nil
}
