// Command emissionmission estimates household utility emissions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/emissionmission/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev" //nolint:gochecknoglobals // set by the linker

func main() {
	os.Exit(run())
}

func run() int {
	root := cli.NewRootCmd(version)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return extractExitCode(err)
}

// extractExitCode maps an error to a process exit status: 0 for nil, the
// ExitCode of a ValidationExitError, 1 otherwise.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ValidationExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}
