package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/forgekit/forge/pkg/models"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "List selectable features",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		features := deps.Engine.FeatureChoices()

		if !getBoolFlag(cmd, "long") {
			for _, f := range features {
				_, _ = fmt.Fprintf(out, "%s  %s\n", cliAccent.Render(f.ID), f.Name)
			}
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("create markdown renderer: %w", err)
		}
		rendered, err := renderer.Render(featuresMarkdown(features))
		if err != nil {
			return fmt.Errorf("render feature descriptions: %w", err)
		}
		_, _ = fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	featuresCmd.Flags().Bool("long", false, "Show full descriptions and documentation links")
	rootCmd.AddCommand(featuresCmd)
}

// featuresMarkdown builds the markdown document rendered by --long.
func featuresMarkdown(features []models.Feature) string {
	var b strings.Builder
	b.WriteString("# Features\n")
	for _, f := range features {
		fmt.Fprintf(&b, "\n## %s (`%s`)\n", f.Name, f.ID)
		if f.Description != "" {
			b.WriteString("\n" + f.Description + "\n")
		}
		if len(f.Plugins) > 0 {
			fmt.Fprintf(&b, "\nProvided by: `%s`\n", strings.Join(f.Plugins, "`, `"))
		}
		if f.Link != "" {
			fmt.Fprintf(&b, "\n[Documentation](%s)\n", f.Link)
		}
	}
	return b.String()
}
