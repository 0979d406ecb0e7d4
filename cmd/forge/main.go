// Command forge is the project scaffolding CLI.
package main

import (
	"fmt"
	"os"

	"github.com/forgekit/forge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
