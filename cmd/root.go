/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/toolkit/internal/ops"
	"github.com/fulmenhq/toolkit/pkg/buildinfo"
	"github.com/fulmenhq/toolkit/pkg/config"
	"github.com/fulmenhq/toolkit/pkg/exitcode"
	"github.com/fulmenhq/toolkit/pkg/logger"
	"github.com/fulmenhq/toolkit/pkg/toolkit"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolkit",
		Short: "Provenance tracking for vendored AI assistant assets",
		Long: `Toolkit tracks the provenance of vendored AI assistant assets (agents,
skills, rules) and reconciles local customizations against upstream updates.

Examples:
   toolkit init                       # Install assets and write the manifest
   toolkit customize agents/reviewer.md   # Take ownership of an asset
   toolkit status                     # Show tracked assets and their state
   toolkit drift                      # Compare baselines against vendor content
   toolkit revert --all               # Return drifted assets to vendor content`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags; accept underscore spellings for flag names
	cmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().StringP("project-dir", "C", ".", "Project root containing the vendored toolkit")
	cmd.PersistentFlags().String("vendor-root", "", "Vendored toolkit source directory (overrides config)")
	cmd.PersistentFlags().String("install-root", "", "Asset install directory (overrides config)")

	// Wire Cobra's built-in --version using the binary version
	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("toolkit {{.Version}}\n")

	// Grouped help by command group (Workflow → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Workflow Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupWorkflow) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(initCmd)
	cmd.AddCommand(customizeCmd)
	cmd.AddCommand(statusCmd)
	cmd.AddCommand(driftCmd)
	cmd.AddCommand(revertCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)
}

// buildEngine resolves configuration for the selected project directory and
// returns an engine with all paths anchored there.
func buildEngine(cmd *cobra.Command) (*toolkit.Engine, *config.Config, error) {
	projectDir, _ := cmd.Flags().GetString("project-dir")
	vendorRoot, _ := cmd.Flags().GetString("vendor-root")
	installRoot, _ := cmd.Flags().GetString("install-root")

	cfg, err := config.LoadProjectConfig(projectDir)
	if err != nil {
		return nil, nil, err
	}
	if vendorRoot != "" {
		cfg.Vendor.Root = vendorRoot
	}
	if installRoot != "" {
		cfg.Vendor.InstallRoot = installRoot
	}

	anchor := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(projectDir, p)
	}

	engine := toolkit.NewEngine(anchor(cfg.Vendor.Root), anchor(cfg.Vendor.InstallRoot), anchor(cfg.Vendor.Manifest))
	engine.VersionFile = cfg.Vendor.VersionFile
	return engine, cfg, nil
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	config := logger.Config{
		Level:     logger.ParseLevel(logLevelStr),
		UseColor:  !noColor,
		JSON:      jsonLogs,
		Component: "toolkit",
	}

	if err := logger.Initialize(config); err != nil {
		// Fallback to stderr
		if _, writeErr := os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n"); writeErr != nil {
			// Best effort: nothing else we can do here
			_ = writeErr
		}
		os.Exit(exitcode.ConfigError)
	}
}
