// Command propsel selects properties of modeled types.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/propsel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own errors; bare cobra errors (bad flags,
		// wrong argument counts) still need a line on stderr.
		if _, ok := err.(*cli.ExitError); !ok {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
