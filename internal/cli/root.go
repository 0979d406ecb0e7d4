package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Forge: interactive project scaffolding",
	Long: `Forge scaffolds new projects from presets and feature selections.

It drives an interactive creation wizard, keeps a registry of known
projects, and wraps the project's end-to-end test runner.`,
	Version: version.GetVersion(),
}

// Execute initializes dependencies and runs the root command.
func Execute() error {
	if err := InitDependencies(); err != nil {
		return err
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("forge %s\n", version.GetVersion()))
}

// getStringFlag retrieves a string flag value from the command.
func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

// getBoolFlag retrieves a bool flag value from the command.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
