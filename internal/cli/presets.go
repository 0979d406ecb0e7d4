package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/pkg/models"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, _ = fmt.Fprint(cmd.OutOrStdout(), formatPresetList(deps.Engine.Presets()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

// formatPresetList renders one block per preset: id, name, and the
// feature ids it bundles (or the raw flags for legacy presets).
func formatPresetList(presets []models.Preset) string {
	var b strings.Builder
	for _, p := range presets {
		fmt.Fprintf(&b, "%s %s\n", cliTitle.Render(p.ID), cliDim.Render(p.Name))
		if p.Description != "" {
			fmt.Fprintf(&b, "  %s\n", p.Description)
		}
		if len(p.Features) > 0 {
			fmt.Fprintf(&b, "  %s %s\n", cliDim.Render("features:"), strings.Join(p.Features, ", "))
		}
		if len(p.Raw) > 0 {
			keys := make([]string, 0, len(p.Raw))
			for k := range p.Raw {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(&b, "  %s %s\n", cliDim.Render("raw flags:"), strings.Join(keys, ", "))
		}
	}
	return b.String()
}
