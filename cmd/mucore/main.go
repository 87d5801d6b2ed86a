// Command mucore runs, traces and tests reading-list components built on
// the Model-Update-Command runtime.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mucore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
