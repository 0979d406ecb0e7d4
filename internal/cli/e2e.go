package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

// e2eRunnerBinary is the test runner executable resolved inside the
// project's node_modules/.bin, or on PATH as a fallback.
const e2eRunnerBinary = "e2e-runner"

var e2eCmd = &cobra.Command{
	Use:   "e2e [-- runner args]",
	Short: "Run the project's end-to-end tests",
	Long: `Run the project's end-to-end tests through its test runner.

The runner is resolved from the current project's node_modules/.bin
(falling back to PATH). Flags below are translated to runner arguments;
anything after -- is passed through untouched.

The current project is the last one opened with 'forge projects open'
or created with 'forge create'; otherwise the working directory is
used.`,
	Args: cobra.ArbitraryArgs,
	RunE: runE2E,
}

func init() {
	e2eCmd.Flags().Bool("headless", false, "Run the browser headless")
	e2eCmd.Flags().String("url", "", "Run tests against an already running server")
	e2eCmd.Flags().String("spec", "", "Run a single spec file")
	e2eCmd.Flags().String("runner", "", "Override the runner binary")
	rootCmd.AddCommand(e2eCmd)
}

// e2eOptions are the wrapper's own flags, translated into runner
// arguments by an argTranslator.
type e2eOptions struct {
	Headless bool
	URL      string
	Spec     string
}

// argTranslator maps wrapper options and passthrough args onto the
// runner's argument vector. The contract: translated flags come first,
// passthrough args last, in the order given.
type argTranslator func(opts e2eOptions, passthrough []string) []string

// translateE2EArgs is the default argTranslator.
func translateE2EArgs(opts e2eOptions, passthrough []string) []string {
	var args []string
	if opts.Headless {
		args = append(args, "--headless")
	}
	if opts.URL != "" {
		args = append(args, "--url", opts.URL)
	}
	if opts.Spec != "" {
		args = append(args, "--spec", opts.Spec)
	}
	return append(args, passthrough...)
}

func runE2E(cmd *cobra.Command, args []string) error {
	dir, err := e2eProjectDir()
	if err != nil {
		return err
	}

	bin := getStringFlag(cmd, "runner")
	if bin == "" {
		bin, err = resolveE2ERunner(dir)
		if err != nil {
			return err
		}
	}

	opts := e2eOptions{
		Headless: getBoolFlag(cmd, "headless"),
		URL:      getStringFlag(cmd, "url"),
		Spec:     getStringFlag(cmd, "spec"),
	}

	runner := exec.CommandContext(cmd.Context(), bin, translateE2EArgs(opts, args)...)
	runner.Dir = dir
	runner.Stdin = os.Stdin
	runner.Stdout = cmd.OutOrStdout()
	runner.Stderr = cmd.ErrOrStderr()
	if err := runner.Run(); err != nil {
		return fmt.Errorf("e2e runner: %w", err)
	}
	return nil
}

// e2eProjectDir picks the directory the runner executes in: the
// current project when one is open, the last-opened project when the
// registry remembers one, else the working directory.
func e2eProjectDir() (string, error) {
	reg := deps.Registry
	if p := reg.Current(); p != nil {
		return p.Path, nil
	}
	if p := reg.OpenLast(); p != nil {
		return p.Path, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

// resolveE2ERunner locates the runner binary for the given project.
func resolveE2ERunner(dir string) (string, error) {
	local := filepath.Join(dir, "node_modules", ".bin", e2eRunnerBinary)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	bin, err := exec.LookPath(e2eRunnerBinary)
	if err != nil {
		return "", fmt.Errorf("no e2e runner found in %s or on PATH (install one with 'forge create' e2e-testing feature)", dir)
	}
	return bin, nil
}
