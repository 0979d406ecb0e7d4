package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/forgekit/forge/internal/creator"
	"github.com/forgekit/forge/internal/progress"
	"github.com/forgekit/forge/internal/prompt"
	"github.com/forgekit/forge/pkg/models"
	"github.com/forgekit/forge/pkg/version"
)

var createCmd = &cobra.Command{
	Use:   "create [target-folder]",
	Short: "Scaffold a new project",
	Long: `Scaffold a new project from a preset or a manual feature selection.

Usage patterns:
  forge create my-app        Create ./my-app/ and scaffold inside it
  forge create .             Scaffold in the current directory
  forge create               Same as "forge create ."

Without --preset or --remote, a terminal session walks through the
interactive wizard; non-terminal sessions use the built-in default
preset.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateCreateFlags,
	RunE:    runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().Bool("force", false, "Overwrite the target directory if it exists")
	createCmd.Flags().String("preset", "", "Preset id to scaffold from (skips the wizard)")
	createCmd.Flags().StringP("package-manager", "m", "", "Package manager: npm, yarn, or pnpm")
	createCmd.Flags().String("save", "", "Save the selection as a named preset")
	createCmd.Flags().String("remote", "", "Remote preset (owner/repo shorthand or full URL)")
	createCmd.Flags().Bool("clone", false, "Use git clone when fetching a remote preset")
}

// validateCreateFlags validates flag values before execution.
func validateCreateFlags(cmd *cobra.Command, _ []string) error {
	pm := getStringFlag(cmd, "package-manager")
	if pm != "" && !slices.Contains([]string{"npm", "yarn", "pnpm"}, pm) {
		return fmt.Errorf("invalid --package-manager value %q: must be one of: npm, yarn, pnpm", pm)
	}
	if getBoolFlag(cmd, "clone") && getStringFlag(cmd, "remote") == "" {
		return fmt.Errorf("--clone requires --remote")
	}
	if getStringFlag(cmd, "remote") != "" && getStringFlag(cmd, "preset") != "" {
		return fmt.Errorf("--preset and --remote are mutually exclusive")
	}
	return nil
}

// runCreate executes the project creation workflow.
func runCreate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	req := models.CreationRequest{
		TargetFolder:   ".",
		Force:          getBoolFlag(cmd, "force"),
		PackageManager: getStringFlag(cmd, "package-manager"),
		PresetID:       getStringFlag(cmd, "preset"),
		SaveName:       getStringFlag(cmd, "save"),
		Clone:          getBoolFlag(cmd, "clone"),
	}
	if remote := getStringFlag(cmd, "remote"); remote != "" {
		req.PresetID = remote
		req.RemotePreset = true
	}
	if len(args) > 0 {
		req.TargetFolder = args[0]
	}

	session := deps.Session
	interactive := req.PresetID == "" && !req.RemotePreset &&
		isatty.IsTerminal(os.Stdin.Fd())

	if interactive {
		PrintBanner(version.GetVersion())
		if err := runCreateWizard(ctx, out, session, &req); err != nil {
			if errors.Is(err, prompt.ErrCancelled) {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "Creation cancelled.")
				return nil
			}
			return fmt.Errorf("wizard failed: %w", err)
		}
	} else if req.PresetID == "" {
		req.PresetID = models.PresetDefault
	}

	view := progress.NewView()
	view.Attach(deps.Progress)
	defer view.Close()

	project, err := session.Create(ctx, req)
	view.Close()
	if err != nil {
		if errors.Is(err, creator.ErrTargetExists) {
			return fmt.Errorf("%w (re-run with --force to overwrite)", err)
		}
		return fmt.Errorf("create project: %w", err)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, renderSuccessCard(
		"Project created",
		renderKeyValueLines([]kvPair{
			{"Name", project.Name},
			{"Path", project.Path},
			{"Id", project.ID},
		}),
		"",
		cliDim.Render("Run 'forge projects list' to see all known projects."),
	))
	return nil
}

// runCreateWizard asks for preset, features, and package manager, then
// pushes the selection into the creation session and echoes the
// resulting selection. req is updated in place with the chosen preset
// id, package manager, and save name.
func runCreateWizard(ctx context.Context, out io.Writer, session *creator.Session, req *models.CreationRequest) error {
	presets, err := session.Presets()
	if err != nil {
		return err
	}
	features, err := session.Features()
	if err != nil {
		return err
	}

	presetOptions := make([]prompt.Option, 0, len(presets))
	for _, p := range presets {
		presetOptions = append(presetOptions, prompt.Option{Label: p.Name, Value: p.ID, Desc: p.Description})
	}
	featureOptions := make([]prompt.Option, 0, len(features))
	var preselected []string
	for _, f := range features {
		featureOptions = append(featureOptions, prompt.Option{Label: f.Name, Value: f.ID, Desc: f.Description})
		if f.Enabled {
			preselected = append(preselected, f.ID)
		}
	}

	manualOnly := func(a prompt.Answers) bool {
		return a["preset"] == models.PresetManual
	}

	wiz := prompt.NewSession()
	questions := []prompt.Question{
		{
			ID:      "preset",
			Type:    prompt.QuestionTypeSelect,
			Title:   "Pick a preset",
			Options: presetOptions,
			Default: models.PresetDefault,
		},
		{
			ID:        "features",
			Type:      prompt.QuestionTypeMultiSelect,
			Title:     "Select the features for your project",
			Options:   featureOptions,
			Default:   preselected,
			Condition: manualOnly,
		},
		{
			ID:    "packageManager",
			Type:  prompt.QuestionTypeSelect,
			Title: "Pick a package manager",
			Options: []prompt.Option{
				{Label: "npm", Value: "npm"},
				{Label: "yarn", Value: "yarn"},
				{Label: "pnpm", Value: "pnpm"},
			},
			Default:   "npm",
			Condition: func(prompt.Answers) bool { return req.PackageManager == "" },
		},
		{
			ID:          "save",
			Type:        prompt.QuestionTypeInput,
			Title:       "Save this selection as a preset",
			Description: "Leave empty to skip",
			Condition:   manualOnly,
		},
	}
	for _, q := range questions {
		if err := wiz.Add(q); err != nil {
			return err
		}
	}
	if err := wiz.Start(ctx); err != nil {
		return err
	}
	answers := wiz.Answers()

	presetID, _ := answers["preset"].(string)
	req.PresetID = presetID

	if presetID == models.PresetManual {
		selected := answers.StringSlice("features")
		for i, f := range features {
			enabled := slices.Contains(selected, f.ID)
			if _, err := session.SetFeatureEnabled(f.ID, enabled, i == len(features)-1); err != nil {
				return err
			}
		}
		if name, _ := answers["save"].(string); name != "" && req.SaveName == "" {
			req.SaveName = name
		}
	} else {
		if _, err := session.ApplyPreset(presetID); err != nil {
			return err
		}
	}

	if req.PackageManager == "" {
		req.PackageManager, _ = answers["packageManager"].(string)
	}

	snap, err := session.Snapshot()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, cliDim.Render("Creating with: "+describeSelection(snap)))
	return nil
}

// describeSelection renders the enabled feature ids of a snapshot as a
// single summary line.
func describeSelection(snap models.CreationSnapshot) string {
	var enabled []string
	for _, f := range snap.Features {
		if f.Enabled {
			enabled = append(enabled, f.ID)
		}
	}
	if len(enabled) == 0 {
		return "no optional features"
	}
	return strings.Join(enabled, ", ")
}
