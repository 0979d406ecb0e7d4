package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgekit/forge/pkg/models"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage the registry of known projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := deps.Registry
		out := cmd.OutOrStdout()
		projects := reg.List()
		if len(projects) == 0 {
			_, _ = fmt.Fprintln(out, cliDim.Render("No known projects. Run 'forge create' or 'forge projects import <path>'."))
			return nil
		}
		_, _ = fmt.Fprint(out, formatProjectList(projects, reg.Current()))
		return nil
	},
}

var projectsOpenCmd = &cobra.Command{
	Use:   "open [id]",
	Short: "Open a project by id",
	Long: `Open a project by id, making it the current project.

With --last (or no id), reopens the most recently opened project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := deps.Registry
		out := cmd.OutOrStdout()

		var p *models.Project
		if getBoolFlag(cmd, "last") || len(args) == 0 {
			p = reg.OpenLast()
			if p == nil {
				return fmt.Errorf("no last-opened project recorded")
			}
		} else {
			p = reg.Open(args[0])
			if p == nil {
				_, _ = fmt.Fprintln(out, cliWarn.Render(fmt.Sprintf("No project with id %q.", args[0])))
				return nil
			}
		}

		_, _ = fmt.Fprintln(out, renderSuccessCard(
			"Project opened",
			renderKeyValueLines([]kvPair{
				{"Name", p.Name},
				{"Path", p.Path},
			}),
		))
		return nil
	},
}

var projectsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a project from the registry",
	Long:  "Remove a project from the registry. The files on disk are not touched.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := deps.Registry.Remove(args[0]); err != nil {
			return fmt.Errorf("remove project: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from the registry.\n", args[0])
		return nil
	},
}

var projectsFavoriteCmd = &cobra.Command{
	Use:   "favorite <id>",
	Short: "Mark a project as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fav := !getBoolFlag(cmd, "unset")
		p, err := deps.Registry.SetFavorite(args[0], fav)
		if err != nil {
			return fmt.Errorf("set favorite: %w", err)
		}
		if fav {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "★ %s is now a favorite.\n", p.Name)
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a favorite.\n", p.Name)
		}
		return nil
	},
}

var projectsImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import an existing project directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path %q: %w", args[0], err)
		}
		p, err := deps.Registry.Import(path)
		if err != nil {
			return fmt.Errorf("import project: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSuccessCard(
			"Project imported",
			renderKeyValueLines([]kvPair{
				{"Name", p.Name},
				{"Path", p.Path},
				{"Id", p.ID},
			}),
		))
		return nil
	},
}

func init() {
	projectsOpenCmd.Flags().Bool("last", false, "Reopen the most recently opened project")
	projectsFavoriteCmd.Flags().Bool("unset", false, "Clear the favorite flag instead")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsOpenCmd)
	projectsCmd.AddCommand(projectsRemoveCmd)
	projectsCmd.AddCommand(projectsFavoriteCmd)
	projectsCmd.AddCommand(projectsImportCmd)
	rootCmd.AddCommand(projectsCmd)
}

// formatProjectList renders one line per project: id, favorite star,
// name, and path, with a marker on the currently open project.
func formatProjectList(projects []models.Project, current *models.Project) string {
	var b strings.Builder
	for _, p := range projects {
		marker := "  "
		if current != nil && current.ID == p.ID {
			marker = cliAccent.Render("> ")
		}
		star := " "
		if p.Favorite {
			star = "★"
		}
		fmt.Fprintf(&b, "%s%s %s  %s  %s\n",
			marker, star, cliDim.Render(p.ID), p.Name, cliDim.Render(p.Path))
	}
	return b.String()
}
